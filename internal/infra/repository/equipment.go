package repository

import (
	"context"

	"heavyhub/internal/infra"
	"heavyhub/internal/infra/db"

	"github.com/google/uuid"
)

type EquipmentRepository struct {
	db db.DBTX
}

func NewEquipmentRepository(dbtx db.DBTX) *EquipmentRepository {
	return &EquipmentRepository{db: dbtx}
}

// Delete removes the catalog row only. There is intentionally no
// cascade: bookings keep referencing the purged equipment by id and
// stay queryable for both parties.
func (r *EquipmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM equipment WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete equipment", err, kindForPgErr(err))
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("equipment not found", nil, infra.KindNotFound)
	}

	return nil
}
