package service

import "errors"

var (
	// ErrInvalidInput reports a candidate or identifier that fails format checks.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreUnavailable reports that the code store could not be read or
	// written. Verification treats it as a denial.
	ErrStoreUnavailable = errors.New("code store unavailable")

	// ErrQuotaUnavailable reports that the quota backend failed. Admission
	// treats it as a denial.
	ErrQuotaUnavailable = errors.New("quota backend unavailable")
)
