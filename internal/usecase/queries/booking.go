package queries

import (
	"context"

	"heavyhub/internal/domain/booking"
	"heavyhub/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrViewNotAllowed = errs.New("requester is not a party to this booking")

type BookingQueries interface {
	// GetByID returns the booking only to its renter, its owner, or an
	// admin; anyone else gets ErrViewNotAllowed.
	GetByID(ctx context.Context, actor booking.Actor, id uuid.UUID) (*BookingView, error)
	// GetByIDSystem bypasses party checks for internal flows such as
	// idempotent replay.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByRenter(ctx context.Context, renterID uuid.UUID) ([]*BookingListItem, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*BookingListItem, error)
	// BlockedRanges is the public availability surface: every date range
	// held by a pending or confirmed booking on the equipment.
	BlockedRanges(ctx context.Context, equipmentID uuid.UUID) ([]BlockedRange, error)
}

type BookingViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByRenterID(ctx context.Context, renterID uuid.UUID) ([]*BookingListItem, error)
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*BookingListItem, error)
	BlockedRanges(ctx context.Context, equipmentID uuid.UUID) ([]booking.DateRange, error)
}

type bookingQueriesImpl struct {
	repo BookingViewRepo
}

func NewBookingQueries(repo BookingViewRepo) BookingQueries {
	return &bookingQueriesImpl{repo: repo}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actor booking.Actor, id uuid.UUID) (*BookingView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.System && !actor.IsAdmin && actor.ID != view.RenterID && actor.ID != view.OwnerID {
		return nil, ErrViewNotAllowed
	}
	return view, nil
}

func (q *bookingQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	return q.repo.FindByID(ctx, id)
}

func (q *bookingQueriesImpl) ListByRenter(ctx context.Context, renterID uuid.UUID) ([]*BookingListItem, error) {
	return q.repo.FindByRenterID(ctx, renterID)
}

func (q *bookingQueriesImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*BookingListItem, error) {
	return q.repo.FindByOwnerID(ctx, ownerID)
}

func (q *bookingQueriesImpl) BlockedRanges(ctx context.Context, equipmentID uuid.UUID) ([]BlockedRange, error) {
	ranges, err := q.repo.BlockedRanges(ctx, equipmentID)
	if err != nil {
		return nil, err
	}

	out := make([]BlockedRange, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, BlockedRange{Start: r.Start(), End: r.End()})
	}
	return out, nil
}
