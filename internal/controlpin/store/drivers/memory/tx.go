package memory

import (
	"context"

	"github.com/aussiebroadwan/controlpin/internal/controlpin/domain"
	"github.com/aussiebroadwan/controlpin/internal/controlpin/store"
)

// txStore owns parent.mu from creation until Commit or Rollback.
type txStore struct {
	parent *Store
	staged *domain.AccessCode
	done   bool
}

func (t *txStore) finish(publish bool) error {
	if t.done {
		return store.ErrTxDone
	}
	t.done = true
	if publish {
		t.parent.code = t.staged
	}
	t.parent.mu.Unlock()
	return nil
}

func (t *txStore) Commit() error   { return t.finish(true) }
func (t *txStore) Rollback() error { return t.finish(false) }

func (t *txStore) ApplyMigrations() error         { return nil }
func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) { return nil, store.ErrTxDone }

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return store.ErrTxDone
}

func (t *txStore) AccessCodes() store.AccessCodes { return &txAccessCodesRepo{t: t} }

type txAccessCodesRepo struct {
	t *txStore
}

func (r *txAccessCodesRepo) GetAccessCode(ctx context.Context) (domain.AccessCode, error) {
	if r.t.staged == nil {
		return domain.AccessCode{}, store.ErrNotFound
	}
	return *r.t.staged, nil
}

func (r *txAccessCodesRepo) DeleteAccessCodes(ctx context.Context) error {
	r.t.staged = nil
	return nil
}

func (r *txAccessCodesRepo) InsertAccessCode(ctx context.Context, c domain.AccessCode) error {
	r.t.staged = &c
	return nil
}
