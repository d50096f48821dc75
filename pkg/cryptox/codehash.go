package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Configuration for Argon2id hashing.
const (
	memory      = 19 * 1024 // Memory usage in KiB (19 MiB)
	iterations  = 2         // Iteration count
	parallelism = 1         // Number of threads
	keyLength   = 32        // Length of the generated hash
	saltLength  = 16        // Length of the salt
)

var ErrMalformedHash = errors.New("cryptox: malformed argon2id hash")

// CodeHasher hashes short secrets (access codes) with Argon2id and a server
// side pepper. A bare 4-digit code is trivially enumerable, the pepper is
// what keeps a leaked row from revealing it.
type CodeHasher struct {
	Pepper []byte
}

// Hash returns a PHC-format Argon2id string including salt and parameters.
func (h CodeHasher) Hash(code string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to read salt: %w", err)
	}

	sum := argon2.IDKey(h.input(code), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// Verify reports whether code matches the encoded hash. A malformed hash is
// an error, a wrong code is simply false.
func (h CodeHasher) Verify(code, encoded string) (bool, error) {
	// ["", "argon2id", "v=19", "m=X,t=Y,p=Z", "salt", "hash"]
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrMalformedHash
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return false, fmt.Errorf("%w: unsupported version %q", ErrMalformedHash, parts[2])
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false, fmt.Errorf("%w: digest", ErrMalformedHash)
	}

	got := argon2.IDKey(h.input(code), salt, iters, mem, par, uint32(len(want))) // #nosec G115 - bounded by decoded length

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func (h CodeHasher) input(code string) []byte {
	b := make([]byte, 0, len(code)+len(h.Pepper))
	b = append(b, code...)
	return append(b, h.Pepper...)
}
