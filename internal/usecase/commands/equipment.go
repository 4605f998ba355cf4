package commands

import (
	"context"

	"heavyhub/internal/domain/booking"
	"heavyhub/internal/infra"
	"heavyhub/internal/pkg/errs"
	"heavyhub/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrNotListingOwner = errs.New("actor does not own this listing")

// PurgeResult reports what happened to a deletion request. When active
// bookings exist and the caller has not confirmed, nothing is deleted
// and the count is returned so the caller can warn the owner.
type PurgeResult struct {
	Deleted            bool
	ActiveBookingCount int64
}

type EquipmentCommands interface {
	// PurgeListing deletes the catalog row. Active bookings never block
	// the deletion, they only gate it behind an explicit confirmation;
	// the bookings themselves are left untouched.
	PurgeListing(ctx context.Context, equipmentID uuid.UUID, actor booking.Actor, confirmed bool) (*PurgeResult, error)
}

type equipmentUseCaseImpl struct {
	uow shared.UnitOfWork
}

func NewEquipmentUseCase(uow shared.UnitOfWork) EquipmentCommands {
	return &equipmentUseCaseImpl{uow: uow}
}

func (u *equipmentUseCaseImpl) PurgeListing(
	ctx context.Context,
	equipmentID uuid.UUID,
	actor booking.Actor,
	confirmed bool,
) (*PurgeResult, error) {
	var result *PurgeResult

	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().EquipmentByID(ctx, equipmentID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrEquipmentNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		listing := equipmentFromSnapshot(snap)
		if !actor.IsAdmin && !actor.System && !listing.IsOwnedBy(actor.ID) {
			return ErrNotListingOwner
		}

		count, err := tx.Reads().ActiveBookingCount(ctx, equipmentID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if count > 0 && !confirmed {
			result = &PurgeResult{Deleted: false, ActiveBookingCount: count}
			return nil
		}

		if err := tx.Equipment().Delete(ctx, equipmentID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrEquipmentNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		result = &PurgeResult{Deleted: true, ActiveBookingCount: count}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
