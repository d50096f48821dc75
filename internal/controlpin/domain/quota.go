package domain

import "time"

// QuotaWindow is the fixed window state tracked per (client, action) key.
type QuotaWindow struct {
	WindowStart time.Time
	Count       int
}

// Decision is the result of an admission check. RetryAfter is only set when
// the attempt was denied.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Allow is the decision for an admitted attempt.
func Allow() Decision { return Decision{Allowed: true} }

// Deny is the decision for a rejected attempt.
func Deny(retryAfter time.Duration) Decision {
	return Decision{Allowed: false, RetryAfter: retryAfter}
}

// Elapsed reports whether the window has run its full length at now.
func (q QuotaWindow) Elapsed(now time.Time, window time.Duration) bool {
	return !now.Before(q.WindowStart.Add(window))
}

// Consume applies one attempt to the window at now. It resets the window when
// it has elapsed, denies once max attempts were counted and otherwise counts
// the attempt.
func (q *QuotaWindow) Consume(now time.Time, window time.Duration, max int) Decision {
	if q.WindowStart.IsZero() || q.Elapsed(now, window) {
		q.WindowStart = now
		q.Count = 0
	}

	if q.Count >= max {
		return Deny(q.WindowStart.Add(window).Sub(now))
	}

	q.Count++
	return Allow()
}
