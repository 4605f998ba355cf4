//go:build unit || e2e

package builder

import (
	"time"

	dombooking "heavyhub/internal/domain/booking"
	reqdto "heavyhub/internal/handler/dto/request"
	"heavyhub/internal/usecase/queries"
	"heavyhub/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	EquipmentID   uuid.UUID
	EquipmentName string
	RenterID      uuid.UUID
	OwnerID       uuid.UUID
	StartDate     time.Time
	EndDate       time.Time
	PriceCents    int64
	Status        dombooking.Status
	RenterName    string
	RenterPhone   string
	Now           time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		EquipmentID:   uuid.New(),
		EquipmentName: "CAT 320 Excavator",
		RenterID:      uuid.New(),
		OwnerID:       uuid.New(),
		StartDate:     time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		PriceCents:    250_000,
		Status:        dombooking.StatusPending,
		RenterName:    "Dana Smith",
		RenterPhone:   "+1-555-0142",
		Now:           now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) DateRange() dombooking.DateRange {
	r, err := dombooking.NewDateRange(b.StartDate, b.EndDate)
	if err != nil {
		panic(err)
	}
	return r
}

func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	dateRange, err := dombooking.NewDateRange(b.StartDate, b.EndDate)
	if err != nil {
		return nil, err
	}
	return dombooking.NewBooking(
		b.EquipmentID, b.RenterID, b.OwnerID,
		dateRange,
		dombooking.NewMoney(b.PriceCents),
		dombooking.NewRenterContact(b.RenterName, b.RenterPhone),
		b.Now,
	)
}

func (b *BookingBuilder) BuildSnapshot(id uuid.UUID) *shared.BookingSnapshot {
	return &shared.BookingSnapshot{
		ID:              id,
		EquipmentID:     b.EquipmentID,
		RenterID:        b.RenterID,
		OwnerID:         b.OwnerID,
		StartDate:       b.StartDate,
		EndDate:         b.EndDate,
		TotalPriceCents: b.PriceCents,
		Status:          b.Status.String(),
		RenterName:      b.RenterName,
		RenterPhone:     b.RenterPhone,
		CreatedAt:       b.Now,
		UpdatedAt:       b.Now,
	}
}

func (b *BookingBuilder) BuildView(id uuid.UUID) *queries.BookingView {
	return &queries.BookingView{
		ID:              id,
		EquipmentID:     b.EquipmentID,
		EquipmentName:   b.EquipmentName,
		RenterID:        b.RenterID,
		OwnerID:         b.OwnerID,
		StartDate:       b.StartDate,
		EndDate:         b.EndDate,
		Status:          b.Status.String(),
		TotalPriceCents: b.PriceCents,
		RenterName:      b.RenterName,
		RenterPhone:     b.RenterPhone,
		CreatedAt:       b.Now,
		UpdatedAt:       b.Now,
	}
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		EquipmentID: b.EquipmentID,
		StartDate:   b.StartDate.Format(time.DateOnly),
		EndDate:     b.EndDate.Format(time.DateOnly),
		RenterName:  b.RenterName,
		RenterPhone: b.RenterPhone,
	}
}

type EquipmentBuilder struct {
	ID               uuid.UUID
	OwnerID          uuid.UUID
	Name             string
	DailyRateCents   *int64
	MonthlyRateCents *int64
	IsAvailable      bool
	ForRent          bool
}

func NewEquipmentBuilder() *EquipmentBuilder {
	daily := int64(50_000)
	monthly := int64(1_000_000)
	return &EquipmentBuilder{
		ID:               uuid.New(),
		OwnerID:          uuid.New(),
		Name:             "CAT 320 Excavator",
		DailyRateCents:   &daily,
		MonthlyRateCents: &monthly,
		IsAvailable:      true,
		ForRent:          true,
	}
}

func (e *EquipmentBuilder) With(mutate func(*EquipmentBuilder)) *EquipmentBuilder {
	mutate(e)
	return e
}

func (e *EquipmentBuilder) BuildSnapshot() *shared.EquipmentSnapshot {
	return &shared.EquipmentSnapshot{
		ID:               e.ID,
		OwnerID:          e.OwnerID,
		Name:             e.Name,
		DailyRateCents:   e.DailyRateCents,
		MonthlyRateCents: e.MonthlyRateCents,
		IsAvailable:      e.IsAvailable,
		ForRent:          e.ForRent,
	}
}
