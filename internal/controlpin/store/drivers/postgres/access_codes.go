package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/controlpin/internal/controlpin/domain"
	"github.com/aussiebroadwan/controlpin/internal/controlpin/store/drivers/postgres/gen"
)

type accessCodesRepo struct {
	q *gen.Queries
}

func (r *accessCodesRepo) GetAccessCode(ctx context.Context) (domain.AccessCode, error) {
	row, err := r.q.GetAccessCode(ctx)
	if err != nil {
		return domain.AccessCode{}, mapNotFound(err)
	}
	return domain.AccessCode{
		ID:        row.IssuanceID,
		CodeHash:  row.CodeHash,
		IssuedAt:  time.UnixMilli(row.IssuedAt).UTC(),
		ExpiresAt: time.UnixMilli(row.ExpiresAt).UTC(),
	}, nil
}

func (r *accessCodesRepo) DeleteAccessCodes(ctx context.Context) error {
	return r.q.DeleteAccessCodes(ctx)
}

func (r *accessCodesRepo) InsertAccessCode(ctx context.Context, c domain.AccessCode) error {
	return r.q.InsertAccessCode(ctx, gen.InsertAccessCodeParams{
		IssuanceID: c.ID,
		CodeHash:   c.CodeHash,
		IssuedAt:   c.IssuedAt.UTC().UnixMilli(),
		ExpiresAt:  c.ExpiresAt.UTC().UnixMilli(),
	})
}
