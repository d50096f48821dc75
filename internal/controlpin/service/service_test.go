package service_test

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/controlpin/internal/controlpin/domain"
	"github.com/aussiebroadwan/controlpin/internal/controlpin/service"
	"github.com/aussiebroadwan/controlpin/internal/controlpin/store"
	"github.com/aussiebroadwan/controlpin/pkg/cryptox"
	"github.com/benbjohnson/clock"
)

var (
	errDown = errors.New("database is locked")
	epoch   = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
)

// brokenStore fails every read and every transaction.
type brokenStore struct{}

func (brokenStore) AccessCodes() store.AccessCodes                        { return brokenCodes{} }
func (brokenStore) ApplyMigrations() error                                 { return nil }
func (brokenStore) Close() error                                           { return nil }
func (brokenStore) Ping(context.Context) error                             { return errDown }
func (brokenStore) Tx(context.Context) (store.Tx, error)                   { return nil, errDown }
func (brokenStore) WithTx(context.Context, func(tx store.Tx) error) error { return errDown }

type brokenCodes struct{}

func (brokenCodes) GetAccessCode(context.Context) (domain.AccessCode, error) {
	return domain.AccessCode{}, errDown
}
func (brokenCodes) DeleteAccessCodes(context.Context) error                   { return errDown }
func (brokenCodes) InsertAccessCode(context.Context, domain.AccessCode) error { return errDown }

// brokenQuotas fails every call.
type brokenQuotas struct{}

func (brokenQuotas) Consume(context.Context, string, time.Time, time.Duration, int) (domain.Decision, error) {
	return domain.Decision{}, errDown
}
func (brokenQuotas) Prune(context.Context, time.Time, time.Duration) (int, error) { return 0, errDown }
func (brokenQuotas) Ping(context.Context) error                                  { return errDown }
func (brokenQuotas) Close() error                                                { return nil }

func newMockClock() *clock.Mock {
	mock := clock.NewMock()
	mock.Set(epoch)
	return mock
}

func newAccessCodeService(st store.Store, clk clock.Clock) *service.AccessCodeService {
	return &service.AccessCodeService{
		Store:  st,
		Hasher: cryptox.CodeHasher{Pepper: []byte("test-pepper")},
		Clock:  clk,
		TTL:    service.DefaultCodeTTL,
	}
}
