package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeHasherRoundTrip(t *testing.T) {
	h := CodeHasher{Pepper: []byte("test-pepper")}

	hash, err := h.Hash("4821")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))
	require.NotContains(t, hash, "4821")

	ok, err := h.Verify("4821", hash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = h.Verify("4822", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCodeHasherSaltsEachHash(t *testing.T) {
	h := CodeHasher{Pepper: []byte("test-pepper")}

	a, err := h.Hash("0000")
	require.NoError(t, err)
	b, err := h.Hash("0000")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestCodeHasherPepperMatters(t *testing.T) {
	hash, err := CodeHasher{Pepper: []byte("one")}.Hash("1234")
	require.NoError(t, err)

	ok, err := CodeHasher{Pepper: []byte("two")}.Verify("1234", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCodeHasherMalformed(t *testing.T) {
	h := CodeHasher{Pepper: []byte("p")}

	for _, encoded := range []string{
		"",
		"plain",
		"$argon2i$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$garbage$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1,t=1,p=1$!!!$aGFzaA",
		"$argon2id$v=19$m=1,t=1,p=1$c2FsdA$",
	} {
		_, err := h.Verify("1234", encoded)
		require.ErrorIs(t, err, ErrMalformedHash, "encoded %q", encoded)
	}
}

func TestLoadOrCreatePepper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pepper")

	first, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestLoadOrCreatePepperRejectsEmpty(t *testing.T) {
	_, err := LoadOrCreatePepper("")
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "pepper")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))
	_, err = LoadOrCreatePepper(path)
	require.Error(t, err)
}

func TestDecodePepper(t *testing.T) {
	require.Equal(t, []byte("hello"), DecodePepper("aGVsbG8"))
	require.Equal(t, []byte("not base64!"), DecodePepper(" not base64! "))
}
