package queries

import (
	"context"

	"heavyhub/internal/domain/booking"
	"heavyhub/internal/pkg/errs"
	"heavyhub/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrNotOfferedForRent = errs.New("equipment is not offered for rent")
	ErrRateUnavailable   = errs.New("no rate covers the requested duration")
)

type EquipmentQueries interface {
	// Quote prices a candidate range against the listing's rate schedule
	// without touching the calendar; availability is checked at booking
	// time, not quote time.
	Quote(ctx context.Context, equipmentID uuid.UUID, dateRange booking.DateRange) (*PriceQuote, error)
	// DeletionSafety reports how many active bookings would be orphaned
	// by deleting the listing. It never blocks anything by itself.
	DeletionSafety(ctx context.Context, equipmentID uuid.UUID) (*DeletionSafety, error)
}

type EquipmentViewRepo interface {
	Snapshot(ctx context.Context, id uuid.UUID) (*shared.EquipmentSnapshot, error)
	ActiveBookingCount(ctx context.Context, equipmentID uuid.UUID) (int64, error)
}

type equipmentQueriesImpl struct {
	repo EquipmentViewRepo
}

func NewEquipmentQueries(repo EquipmentViewRepo) EquipmentQueries {
	return &equipmentQueriesImpl{repo: repo}
}

func (q *equipmentQueriesImpl) Quote(ctx context.Context, equipmentID uuid.UUID, dateRange booking.DateRange) (*PriceQuote, error) {
	snap, err := q.repo.Snapshot(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	if !snap.ForRent {
		return nil, ErrNotOfferedForRent
	}

	rates := booking.RateSchedule{
		DailyRateCents:   snap.DailyRateCents,
		MonthlyRateCents: snap.MonthlyRateCents,
	}
	total, err := booking.Quote(dateRange, rates)
	if err != nil {
		return nil, errs.Mark(err, ErrRateUnavailable)
	}

	return &PriceQuote{
		EquipmentID:     equipmentID,
		StartDate:       dateRange.Start(),
		EndDate:         dateRange.End(),
		DurationDays:    dateRange.Days(),
		TotalPriceCents: total.Cents(),
	}, nil
}

func (q *equipmentQueriesImpl) DeletionSafety(ctx context.Context, equipmentID uuid.UUID) (*DeletionSafety, error) {
	if _, err := q.repo.Snapshot(ctx, equipmentID); err != nil {
		return nil, err
	}

	count, err := q.repo.ActiveBookingCount(ctx, equipmentID)
	if err != nil {
		return nil, err
	}

	return &DeletionSafety{
		EquipmentID:        equipmentID,
		ActiveBookingCount: count,
	}, nil
}
