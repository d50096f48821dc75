package domain

// Outcome is the internal result of a verification. The HTTP boundary
// collapses everything but OutcomeGranted into a single denial for
// untrusted callers.
type Outcome int

const (
	OutcomeMismatch Outcome = iota
	OutcomeGranted
	OutcomeNoCodeIssued
	OutcomeExpired
)

func (o Outcome) String() string {
	switch o {
	case OutcomeGranted:
		return "granted"
	case OutcomeNoCodeIssued:
		return "no_code_issued"
	case OutcomeExpired:
		return "expired"
	default:
		return "mismatch"
	}
}

// Granted reports whether the outcome authorizes the action.
func (o Outcome) Granted() bool { return o == OutcomeGranted }
