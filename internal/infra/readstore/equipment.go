package readstore

import (
	"context"

	"heavyhub/internal/infra"
	"heavyhub/internal/infra/db"
	"heavyhub/internal/pkg/pgconv"
	"heavyhub/internal/usecase/shared"

	"github.com/google/uuid"
)

type EquipmentReadStore struct {
	db db.DBTX
}

func NewEquipmentReadStore(dbtx db.DBTX) *EquipmentReadStore {
	return &EquipmentReadStore{db: dbtx}
}

const equipmentSnapshotSQL = `
SELECT id, owner_id, name, daily_rate_cents, monthly_rate_cents, is_available, for_rent
FROM equipment
WHERE id = $1
`

const equipmentActiveBookingsSQL = `
SELECT count(*)
FROM bookings
WHERE equipment_id = $1 AND status IN ('pending', 'confirmed')
`

// ActiveBookingCount backs the deletion-safety read: how many bookings
// would lose their listing if this equipment were purged.
func (r *EquipmentReadStore) ActiveBookingCount(ctx context.Context, equipmentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, equipmentActiveBookingsSQL, equipmentID).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count active bookings", err)
	}
	return count, nil
}

func (r *EquipmentReadStore) Snapshot(ctx context.Context, id uuid.UUID) (*shared.EquipmentSnapshot, error) {
	snap := &shared.EquipmentSnapshot{}
	err := r.db.QueryRow(ctx, equipmentSnapshotSQL, id).Scan(
		&snap.ID, &snap.OwnerID, &snap.Name,
		&snap.DailyRateCents, &snap.MonthlyRateCents,
		&snap.IsAvailable, &snap.ForRent,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("equipment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load equipment snapshot", err)
	}

	return snap, nil
}
