package readstore

import (
	"context"

	"heavyhub/internal/infra"
	"heavyhub/internal/infra/db"
	"heavyhub/internal/pkg/pgconv"
	"heavyhub/internal/usecase/shared"

	"github.com/google/uuid"
)

type IdempotencyReadStore struct {
	db db.DBTX
}

func NewIdempotencyReadStore(dbtx db.DBTX) *IdempotencyReadStore {
	return &IdempotencyReadStore{db: dbtx}
}

const idempotencyByKeySQL = `
SELECT key, user_id, status, request_hash, result_booking_id, expires_at
FROM idempotency_keys
WHERE key = $1 AND user_id = $2
`

func (r *IdempotencyReadStore) FindByKey(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	rec := &shared.IdempotencyRecord{}
	err := r.db.QueryRow(ctx, idempotencyByKeySQL, key, userID).Scan(
		&rec.Key, &rec.UserID, &rec.Status, &rec.RequestHash,
		&rec.ResultBookingID, &rec.ExpiresAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load idempotency record", err)
	}

	return rec, nil
}
