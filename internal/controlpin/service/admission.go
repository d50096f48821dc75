package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aussiebroadwan/controlpin/internal/controlpin/domain"
	"github.com/aussiebroadwan/controlpin/internal/controlpin/store"
	"github.com/benbjohnson/clock"
)

const (
	DefaultQuotaWindow = 5 * time.Minute
	DefaultMaxAttempts = 5
)

// AdmissionControl limits attempts per (client, action) pair with fixed
// windows. Windows for different actions never share a count.
type AdmissionControl struct {
	Quotas      store.Quotas
	Clock       clock.Clock
	Window      time.Duration
	MaxAttempts int
}

func (a *AdmissionControl) window() time.Duration {
	if a.Window <= 0 {
		return DefaultQuotaWindow
	}
	return a.Window
}

func (a *AdmissionControl) maxAttempts() int {
	if a.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return a.MaxAttempts
}

func (a *AdmissionControl) now() time.Time {
	if a.Clock == nil {
		return time.Now().UTC()
	}
	return a.Clock.Now().UTC()
}

// QuotaKey composes the window key for a client and action. The client part
// is length prefixed so no two distinct pairs produce the same key.
func QuotaKey(clientID, actionID string) string {
	return strconv.Itoa(len(clientID)) + ":" + clientID + "|" + actionID
}

// CheckAndConsume admits or denies one attempt. An admitted attempt is
// counted against the window, a denied one is not. Backend failures deny.
func (a *AdmissionControl) CheckAndConsume(ctx context.Context, clientID, actionID string) (domain.Decision, error) {
	if clientID == "" || actionID == "" {
		return domain.Deny(a.window()), ErrInvalidInput
	}

	d, err := a.Quotas.Consume(ctx, QuotaKey(clientID, actionID), a.now(), a.window(), a.maxAttempts())
	if err != nil {
		return domain.Deny(a.window()), fmt.Errorf("%w: %w", ErrQuotaUnavailable, err)
	}
	return d, nil
}

// Prune drops elapsed windows from the backend.
func (a *AdmissionControl) Prune(ctx context.Context) (int, error) {
	return a.Quotas.Prune(ctx, a.now(), a.window())
}
