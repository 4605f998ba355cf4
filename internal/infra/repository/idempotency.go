package repository

import (
	"context"
	"time"

	"heavyhub/internal/infra"
	"heavyhub/internal/infra/db"

	"github.com/google/uuid"
)

type IdempotencyRepository struct {
	db db.DBTX
}

func NewIdempotencyRepository(dbtx db.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{db: dbtx}
}

const tryInsertIdempotencySQL = `
INSERT INTO idempotency_keys (key, user_id, endpoint, request_hash, status, expires_at)
VALUES ($1, $2, $3, $4, 'processing', $5)
ON CONFLICT (key, user_id) DO UPDATE
SET endpoint = EXCLUDED.endpoint,
    request_hash = EXCLUDED.request_hash,
    status = 'processing',
    result_booking_id = NULL,
    expires_at = EXCLUDED.expires_at,
    updated_at = now()
WHERE idempotency_keys.expires_at <= now()
`

// TryInsert claims the key if unclaimed, or reclaims it after its TTL
// has passed. Losing the race is not an error; the caller re-reads the
// record to decide replay vs conflict.
func (r *IdempotencyRepository) TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, tryInsertIdempotencySQL, key, userID, endpoint, requestHash, expiresAt)
	if err != nil {
		return false, infra.WrapRepoErr("failed to insert idempotency key", err, kindForPgErr(err))
	}
	return tag.RowsAffected() == 1, nil
}

const completeIdempotencySQL = `
UPDATE idempotency_keys
SET status = 'completed', result_booking_id = $3, updated_at = now()
WHERE key = $1 AND user_id = $2
`

func (r *IdempotencyRepository) UpdateStatusCompleted(ctx context.Context, key, userID uuid.UUID, resultBookingID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, completeIdempotencySQL, key, userID, resultBookingID)
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err, kindForPgErr(err))
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	return nil
}
