package readstore

import (
	"context"
	"time"

	"heavyhub/internal/domain/booking"
	"heavyhub/internal/infra"
	"heavyhub/internal/infra/db"
	"heavyhub/internal/pkg/pgconv"
	"heavyhub/internal/usecase/queries"
	"heavyhub/internal/usecase/shared"

	"github.com/google/uuid"
)

// BookingReadStore serves both the query side (views for the API) and
// the command side (snapshots and availability reads). Equipment is
// left-joined because a purged listing leaves its bookings behind.
type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

const bookingViewSQL = `
SELECT b.id, b.equipment_id, COALESCE(e.name, '') AS equipment_name,
       b.renter_id, b.owner_id, b.start_date, b.end_date,
       b.status, b.total_price_cents, b.renter_name, b.renter_phone,
       b.created_at, b.updated_at
FROM bookings b
LEFT JOIN equipment e ON e.id = b.equipment_id
`

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row := r.db.QueryRow(ctx, bookingViewSQL+`WHERE b.id = $1`, id)

	view, err := scanBookingView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by id", err)
	}

	return view, nil
}

const bookingListSQL = `
SELECT b.id, b.equipment_id, COALESCE(e.name, '') AS equipment_name,
       b.start_date, b.end_date, b.status, b.total_price_cents, b.created_at
FROM bookings b
LEFT JOIN equipment e ON e.id = b.equipment_id
`

func (r *BookingReadStore) FindByRenterID(ctx context.Context, renterID uuid.UUID) ([]*queries.BookingListItem, error) {
	return r.list(ctx, bookingListSQL+`WHERE b.renter_id = $1 ORDER BY b.created_at DESC`, renterID)
}

func (r *BookingReadStore) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*queries.BookingListItem, error) {
	return r.list(ctx, bookingListSQL+`WHERE b.owner_id = $1 ORDER BY b.created_at DESC`, ownerID)
}

func (r *BookingReadStore) list(ctx context.Context, sql string, arg any) ([]*queries.BookingListItem, error) {
	rows, err := r.db.Query(ctx, sql, arg)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	var items []*queries.BookingListItem
	for rows.Next() {
		item := &queries.BookingListItem{}
		if err := rows.Scan(
			&item.ID, &item.EquipmentID, &item.EquipmentName,
			&item.StartDate, &item.EndDate, &item.Status,
			&item.TotalPriceCents, &item.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking list item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking list", err)
	}

	return items, nil
}

const blockedRangesSQL = `
SELECT start_date, end_date
FROM bookings
WHERE equipment_id = $1 AND status IN ('pending', 'confirmed')
ORDER BY start_date
`

// BlockedRanges returns every calendar hold on the equipment: the range
// of each booking that is neither cancelled nor completed.
func (r *BookingReadStore) BlockedRanges(ctx context.Context, equipmentID uuid.UUID) ([]booking.DateRange, error) {
	rows, err := r.db.Query(ctx, blockedRangesSQL, equipmentID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load blocked ranges", err)
	}
	defer rows.Close()

	var ranges []booking.DateRange
	for rows.Next() {
		var start, end time.Time
		if err := rows.Scan(&start, &end); err != nil {
			return nil, infra.WrapRepoErr("failed to scan blocked range", err)
		}
		dr, err := booking.NewDateRange(start, end)
		if err != nil {
			return nil, infra.WrapRepoErr("stored booking has invalid range", err)
		}
		ranges = append(ranges, dr)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read blocked ranges", err)
	}

	return ranges, nil
}

const hasConflictSQL = `
SELECT EXISTS (
	SELECT 1
	FROM bookings
	WHERE equipment_id = $1
	  AND status IN ('pending', 'confirmed')
	  AND start_date < $3
	  AND end_date > $2
)
`

// HasConflict evaluates the half-open overlap predicate in SQL:
// candidate.start < blocked.end AND blocked.start < candidate.end.
func (r *BookingReadStore) HasConflict(ctx context.Context, equipmentID uuid.UUID, candidate booking.DateRange) (bool, error) {
	var conflict bool
	err := r.db.QueryRow(ctx, hasConflictSQL, equipmentID, candidate.Start(), candidate.End()).Scan(&conflict)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check booking conflict", err)
	}
	return conflict, nil
}

const activeBookingCountSQL = `
SELECT count(*)
FROM bookings
WHERE equipment_id = $1 AND status IN ('pending', 'confirmed')
`

func (r *BookingReadStore) ActiveBookingCount(ctx context.Context, equipmentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, activeBookingCountSQL, equipmentID).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count active bookings", err)
	}
	return count, nil
}

const bookingSnapshotSQL = `
SELECT id, equipment_id, renter_id, owner_id,
       start_date, end_date, total_price_cents, status,
       renter_name, renter_phone, created_at, updated_at
FROM bookings
WHERE id = $1
`

func (r *BookingReadStore) Snapshot(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	snap := &shared.BookingSnapshot{}
	err := r.db.QueryRow(ctx, bookingSnapshotSQL, id).Scan(
		&snap.ID, &snap.EquipmentID, &snap.RenterID, &snap.OwnerID,
		&snap.StartDate, &snap.EndDate, &snap.TotalPriceCents, &snap.Status,
		&snap.RenterName, &snap.RenterPhone, &snap.CreatedAt, &snap.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load booking snapshot", err)
	}

	return snap, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookingView(row rowScanner) (*queries.BookingView, error) {
	view := &queries.BookingView{}
	err := row.Scan(
		&view.ID, &view.EquipmentID, &view.EquipmentName,
		&view.RenterID, &view.OwnerID, &view.StartDate, &view.EndDate,
		&view.Status, &view.TotalPriceCents, &view.RenterName, &view.RenterPhone,
		&view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return view, nil
}
