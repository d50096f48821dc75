package cryptox

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadOrCreatePepper reads the pepper stored at path, generating and
// persisting a fresh 256-bit one when the file does not exist yet.
func LoadOrCreatePepper(path string) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("cryptox: pepper path is empty")
	}
	path = filepath.Clean(path)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		pepper := []byte(strings.TrimSpace(string(data)))
		if len(pepper) == 0 {
			return nil, fmt.Errorf("cryptox: pepper file %s is empty", path)
		}
		return pepper, nil
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("cryptox: read pepper: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("cryptox: create pepper dir: %w", err)
	}

	pepper, err := GenerateToken(TokenSize256)
	if err != nil {
		return nil, err
	}

	// O_EXCL so two replicas racing on a shared volume don't clobber each other
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return LoadOrCreatePepper(path)
		}
		return nil, fmt.Errorf("cryptox: create pepper file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(pepper); err != nil {
		return nil, fmt.Errorf("cryptox: write pepper: %w", err)
	}

	return []byte(pepper), nil
}

// DecodePepper accepts a pepper given inline (e.g. from a secret manager) as
// base64url, falling back to the raw bytes.
func DecodePepper(s string) []byte {
	s = strings.TrimSpace(s)
	if b, err := base64.RawURLEncoding.DecodeString(s); err == nil && len(b) > 0 {
		return b
	}
	return []byte(s)
}
