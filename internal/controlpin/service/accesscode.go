package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aussiebroadwan/controlpin/internal/controlpin/domain"
	"github.com/aussiebroadwan/controlpin/internal/controlpin/store"
	"github.com/aussiebroadwan/controlpin/pkg/cryptox"
	"github.com/aussiebroadwan/controlpin/pkg/idx"
	"github.com/aussiebroadwan/controlpin/pkg/slogx"
	"github.com/benbjohnson/clock"
	"golang.org/x/sync/semaphore"
)

const (
	// DefaultCodeTTL is how long an issued code stays valid.
	DefaultCodeTTL = 3 * time.Minute

	// DefaultMaxConcurrentChecks bounds simultaneous argon2id comparisons,
	// each of which holds about 19 MiB while it runs.
	DefaultMaxConcurrentChecks = 8
)

// AccessCodeService issues and checks the single active access code.
type AccessCodeService struct {
	Store  store.Store
	Hasher cryptox.CodeHasher
	Clock  clock.Clock
	TTL    time.Duration

	// Draw produces a new code. Nil means a uniform CSPRNG draw.
	Draw func() (string, error)

	// Checks limits concurrent hash comparisons in Verify. Nil means
	// DefaultMaxConcurrentChecks.
	Checks     *semaphore.Weighted
	checksOnce sync.Once

	// serialises Generate so draws and replaces are not interleaved
	mu sync.Mutex
}

func (s *AccessCodeService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultCodeTTL
	}
	return s.TTL
}

func (s *AccessCodeService) checks() *semaphore.Weighted {
	s.checksOnce.Do(func() {
		if s.Checks == nil {
			s.Checks = semaphore.NewWeighted(DefaultMaxConcurrentChecks)
		}
	})
	return s.Checks
}

func (s *AccessCodeService) draw() (string, error) {
	if s.Draw == nil {
		return cryptox.RandomDigits(domain.CodeDigits)
	}
	code, err := s.Draw()
	if err != nil {
		return "", err
	}
	if !cryptox.IsDigits(code, domain.CodeDigits) {
		return "", ErrInvalidInput
	}
	return code, nil
}

func (s *AccessCodeService) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

// Generate draws a fresh code, replaces whatever was stored before and
// returns the plain code to the caller. Any previous code stops working as
// soon as this returns successfully.
func (s *AccessCodeService) Generate(ctx context.Context) (domain.Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code, err := s.draw()
	if err != nil {
		return domain.Confirmation{}, fmt.Errorf("failed to draw access code: %w", err)
	}

	hash, err := s.Hasher.Hash(code)
	if err != nil {
		return domain.Confirmation{}, fmt.Errorf("failed to hash access code: %w", err)
	}

	issuedAt := s.now()
	record := domain.AccessCode{
		ID:        idx.NewAt(issuedAt).String(),
		CodeHash:  hash,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(s.ttl()),
	}

	if err := store.ReplaceAccessCode(ctx, s.Store, record); err != nil {
		return domain.Confirmation{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	slogx.FromContext(ctx).Info("access_code_issued",
		"issuance_id", record.ID,
		"expires_at", record.ExpiresAt,
	)

	return domain.Confirmation{
		ID:        record.ID,
		Code:      code,
		IssuedAt:  record.IssuedAt,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

// Verify checks candidate against the active code. Only OutcomeGranted
// authorizes the action. A store failure is returned as ErrStoreUnavailable
// and must be treated as a denial.
func (s *AccessCodeService) Verify(ctx context.Context, candidate string) (domain.Outcome, error) {
	if !cryptox.IsDigits(candidate, domain.CodeDigits) {
		return domain.OutcomeMismatch, ErrInvalidInput
	}

	current, err := s.Store.AccessCodes().GetAccessCode(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return domain.OutcomeNoCodeIssued, nil
	}
	if err != nil {
		return domain.OutcomeMismatch, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if current.Expired(s.now()) {
		return domain.OutcomeExpired, nil
	}

	sem := s.checks()
	if err := sem.Acquire(ctx, 1); err != nil {
		return domain.OutcomeMismatch, fmt.Errorf("%w: waiting for hash slot: %w", ErrStoreUnavailable, err)
	}
	ok, err := s.Hasher.Verify(candidate, current.CodeHash)
	sem.Release(1)
	if err != nil {
		return domain.OutcomeMismatch, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if !ok {
		return domain.OutcomeMismatch, nil
	}
	return domain.OutcomeGranted, nil
}
