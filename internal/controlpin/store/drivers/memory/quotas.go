package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aussiebroadwan/controlpin/internal/controlpin/domain"
)

// Quotas is a mutex guarded map of fixed windows. Check and increment happen
// under the same lock so concurrent attempts on one key never over-admit.
type Quotas struct {
	mu      sync.Mutex
	windows map[string]*domain.QuotaWindow
}

func NewQuotas() *Quotas {
	return &Quotas{windows: make(map[string]*domain.QuotaWindow)}
}

func (q *Quotas) Consume(ctx context.Context, key string, now time.Time, window time.Duration, max int) (domain.Decision, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	w, ok := q.windows[key]
	if !ok {
		w = &domain.QuotaWindow{}
		q.windows[key] = w
	}
	return w.Consume(now, window, max), nil
}

func (q *Quotas) Prune(ctx context.Context, now time.Time, window time.Duration) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	removed := 0
	for key, w := range q.windows {
		if w.Elapsed(now, window) {
			delete(q.windows, key)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of tracked windows.
func (q *Quotas) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.windows)
}

func (q *Quotas) Ping(ctx context.Context) error { return nil }
func (q *Quotas) Close() error                   { return nil }
