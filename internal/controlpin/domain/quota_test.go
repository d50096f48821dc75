package domain_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/controlpin/internal/controlpin/domain"
	"github.com/stretchr/testify/require"
)

func TestQuotaWindowConsume(t *testing.T) {
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	window := 5 * time.Minute

	var q domain.QuotaWindow
	for i := range 5 {
		d := q.Consume(start.Add(time.Duration(i)*time.Second), window, 5)
		require.True(t, d.Allowed, "attempt %d", i+1)
	}
	require.Equal(t, 5, q.Count)
	require.Equal(t, start, q.WindowStart)

	d := q.Consume(start.Add(time.Minute), window, 5)
	require.False(t, d.Allowed)
	require.Equal(t, 4*time.Minute, d.RetryAfter)
	require.Equal(t, 5, q.Count, "denied attempts are not counted")

	// exactly at the boundary a new window begins
	d = q.Consume(start.Add(window), window, 5)
	require.True(t, d.Allowed)
	require.Equal(t, 1, q.Count)
	require.Equal(t, start.Add(window), q.WindowStart)
}

func TestQuotaWindowZeroMax(t *testing.T) {
	var q domain.QuotaWindow
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	d := q.Consume(now, time.Minute, 0)
	require.False(t, d.Allowed)
	require.Equal(t, time.Minute, d.RetryAfter)
}

func TestAccessCodeExpired(t *testing.T) {
	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := domain.AccessCode{IssuedAt: issued, ExpiresAt: issued.Add(3 * time.Minute)}

	require.False(t, c.Expired(issued))
	require.False(t, c.Expired(issued.Add(3*time.Minute-time.Millisecond)))
	require.True(t, c.Expired(issued.Add(3*time.Minute)))
	require.True(t, c.Expired(issued.Add(time.Hour)))
}

func TestOutcomeString(t *testing.T) {
	require.Equal(t, "granted", domain.OutcomeGranted.String())
	require.Equal(t, "no_code_issued", domain.OutcomeNoCodeIssued.String())
	require.Equal(t, "expired", domain.OutcomeExpired.String())
	require.Equal(t, "mismatch", domain.OutcomeMismatch.String())
	require.True(t, domain.OutcomeGranted.Granted())
	require.False(t, domain.OutcomeExpired.Granted())
}
