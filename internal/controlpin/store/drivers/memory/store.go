// Package memory provides process local implementations of the access code
// store and the quota backend. They are used in tests and for single instance
// deployments that do not need the code to survive a restart.
package memory

import (
	"context"
	"sync"

	"github.com/aussiebroadwan/controlpin/internal/controlpin/domain"
	"github.com/aussiebroadwan/controlpin/internal/controlpin/store"
)

// Store keeps the active access code in memory. Transactions hold the store
// lock and work on a staged copy that is published on Commit.
type Store struct {
	mu   sync.Mutex
	code *domain.AccessCode
}

func NewStore() *Store { return &Store{} }

func (s *Store) ApplyMigrations() error         { return nil }
func (s *Store) Close() error                   { return nil }
func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) AccessCodes() store.AccessCodes { return &accessCodesRepo{s: s} }

func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	return &txStore{parent: s, staged: s.code}, nil
}

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

type accessCodesRepo struct {
	s *Store
}

func (r *accessCodesRepo) GetAccessCode(ctx context.Context) (domain.AccessCode, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.code == nil {
		return domain.AccessCode{}, store.ErrNotFound
	}
	return *r.s.code, nil
}

func (r *accessCodesRepo) DeleteAccessCodes(ctx context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.code = nil
	return nil
}

func (r *accessCodesRepo) InsertAccessCode(ctx context.Context, c domain.AccessCode) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.code = &c
	return nil
}
