package domain

import "time"

// CodeDigits is the length of an access code.
const CodeDigits = 4

// AccessCode is the single active code record. Only the hash of the code is
// ever persisted.
type AccessCode struct {
	ID        string    // ULID of the issuance
	CodeHash  string    // argon2id PHC string
	IssuedAt  time.Time // UTC
	ExpiresAt time.Time // IssuedAt + TTL
}

// Expired reports whether the code is no longer valid at now. A code stops
// being valid at exactly ExpiresAt.
func (c AccessCode) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Confirmation is handed back to the issuing operator once. It is the only
// place the plain code exists outside of the caller's head.
type Confirmation struct {
	ID        string
	Code      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
