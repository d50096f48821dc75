package cryptox

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// MaxDigits caps RandomDigits so the bound fits comfortably in an int64.
const MaxDigits = 18

// RandomDigits returns a string of n decimal digits drawn uniformly from
// [0, 10^n) with a cryptographically secure source. Leading zeros are kept,
// so every one of the 10^n values is reachable.
func RandomDigits(n int) (string, error) {
	return randomDigits(rand.Reader, n)
}

func randomDigits(src io.Reader, n int) (string, error) {
	if n <= 0 || n > MaxDigits {
		return "", fmt.Errorf("digit count must be within 1..%d, got %d", MaxDigits, n)
	}

	bound := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)

	// rand.Int rejects out-of-range samples internally, no modulo bias
	v, err := rand.Int(src, bound)
	if err != nil {
		return "", fmt.Errorf("failed to draw random digits: %w", err)
	}

	return fmt.Sprintf("%0*d", n, v.Int64()), nil
}

// IsDigits reports whether s is exactly n ASCII digits.
func IsDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
