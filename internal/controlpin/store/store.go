package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/controlpin/internal/controlpin/domain"
)

var (
	ErrNotFound = errors.New("store: not found")
	ErrTxDone   = errors.New("store: nested transactions are not supported")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres, memory) implement this. Sub-repositories are reached through the
// store so a transaction scoped Store exposes exactly the same surface.
type Store interface {
	AccessCodes() AccessCodes

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the backing database is reachable.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// AccessCodes holds at most one record. Replacing it is a delete followed by
// an insert and must happen inside one transaction.
type AccessCodes interface {
	// GetAccessCode returns the active record or ErrNotFound.
	GetAccessCode(ctx context.Context) (domain.AccessCode, error)

	// DeleteAccessCodes removes every stored record.
	DeleteAccessCodes(ctx context.Context) error

	// InsertAccessCode stores c as the active record.
	InsertAccessCode(ctx context.Context, c domain.AccessCode) error
}

// Quotas tracks fixed admission windows. Consume must apply the whole
// check-then-increment step atomically for a key.
type Quotas interface {
	// Consume applies one attempt against key at now. If the window that
	// started at windowStart has elapsed (now >= windowStart+window) a fresh
	// window starting at now with count 0 is used. An attempt is admitted and
	// counted while count < max, otherwise it is denied with the time left in
	// the window.
	Consume(ctx context.Context, key string, now time.Time, window time.Duration, max int) (domain.Decision, error)

	// Prune drops windows that have elapsed at now and returns how many were
	// removed. Backends with native key expiry may return 0.
	Prune(ctx context.Context, now time.Time, window time.Duration) (int, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// ReplaceAccessCode swaps the active record for c in a single transaction.
// If any step fails the previous record is left in place.
func ReplaceAccessCode(ctx context.Context, s Store, c domain.AccessCode) error {
	return s.WithTx(ctx, func(tx Tx) error {
		if err := tx.AccessCodes().DeleteAccessCodes(ctx); err != nil {
			return err
		}
		return tx.AccessCodes().InsertAccessCode(ctx, c)
	})
}
