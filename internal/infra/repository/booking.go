package repository

import (
	"context"
	"time"

	"heavyhub/internal/domain/booking"
	"heavyhub/internal/infra"
	"heavyhub/internal/infra/db"

	"github.com/google/uuid"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

const createBookingSQL = `
INSERT INTO bookings (
	id, equipment_id, renter_id, owner_id,
	start_date, end_date, total_price_cents, status,
	renter_name, renter_phone, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id
`

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, createBookingSQL,
		b.ID(),
		b.EquipmentID(),
		b.RenterID(),
		b.OwnerID(),
		b.Range().Start(),
		b.Range().End(),
		b.TotalPrice().Cents(),
		b.Status().String(),
		b.Contact().Name(),
		b.Contact().Phone(),
		b.CreatedAt(),
		b.UpdatedAt(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create booking", err, kindForPgErr(err))
	}

	return id, nil
}

const updateBookingStatusSQL = `
UPDATE bookings
SET status = $2, updated_at = $3
WHERE id = $1 AND status = $4
`

// UpdateStatus applies a lifecycle transition guarded by the status the
// aggregate was loaded with. A concurrent transition makes the guard
// miss, which surfaces as KindConflict instead of overwriting state.
func (r *BookingRepository) UpdateStatus(ctx context.Context, b *booking.Booking, prev booking.Status) error {
	tag, err := r.db.Exec(ctx, updateBookingStatusSQL,
		b.ID(),
		b.Status().String(),
		b.UpdatedAt(),
		prev.String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err, kindForPgErr(err))
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking status changed concurrently", nil, infra.KindConflict)
	}

	return nil
}

const listCompletableSQL = `
SELECT id
FROM bookings
WHERE status = 'confirmed' AND end_date <= $1
ORDER BY end_date
LIMIT $2
`

func (r *BookingRepository) ListCompletable(ctx context.Context, endedBy time.Time, limit int32) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, listCompletableSQL, endedBy, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list completable bookings", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan completable booking id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read completable bookings", err)
	}

	return ids, nil
}
