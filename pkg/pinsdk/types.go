package pinsdk

import "time"

// ============================================================================
// Verification Types
// ============================================================================

// Denial reasons. They are only sent to trusted callers.
const (
	ReasonNoCodeIssued = "no_code_issued"
	ReasonExpired      = "expired"
	ReasonMismatch     = "mismatch"
	ReasonUnavailable  = "unavailable"
)

// VerifyRequest is the body of POST /v1/actions/{action}/verify.
type VerifyRequest struct {
	// ActionID is optional. When present it must match the action in the path.
	ActionID string `json:"actionId,omitempty" example:"verify-pin"`

	// CandidateCode is the 4 digit code entered by the user.
	CandidateCode string `json:"candidateCode" example:"4821"`
}

// VerifyResponse is the result of a verification attempt.
type VerifyResponse struct {
	Authorized bool `json:"authorized" example:"true"`

	// RetryAfterSeconds is only set on 429 responses.
	RetryAfterSeconds int `json:"retryAfterSeconds,omitempty" example:"120"`

	// Reason is only set for callers presenting a token with the pin:audit scope.
	Reason string `json:"reason,omitempty" example:"expired"`
}

// ============================================================================
// Access Code Types
// ============================================================================

// AccessCodeResponse is returned once to the operator issuing a code.
type AccessCodeResponse struct {
	ID        string    `json:"id" example:"01JBXW5T2C8Q0H3S8K7M2N4P6R"`
	Code      string    `json:"code" example:"4821"`
	IssuedAt  time.Time `json:"issuedAt" example:"2025-06-01T08:00:00Z"`
	ExpiresAt time.Time `json:"expiresAt" example:"2025-06-01T08:03:00Z"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz (readyz includes Checks).
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of the service's backing systems.
type HealthChecks struct {
	Database string `json:"database"`
	Quotas   string `json:"quotas"`
}

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the wire shape of every non-verification error.
type ErrorResponse struct {
	Error            string `json:"error" example:"invalid_request"`
	ErrorDescription string `json:"error_description" example:"the request is malformed"`
}
