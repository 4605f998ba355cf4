package request

import (
	"time"

	"heavyhub/internal/domain/booking"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	EquipmentID uuid.UUID `json:"equipment_id" binding:"required"`
	StartDate   string    `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate     string    `json:"end_date" binding:"required,datetime=2006-01-02"`
	RenterName  string    `json:"renter_name" binding:"required,max=255"`
	RenterPhone string    `json:"renter_phone" binding:"required,max=32"`
}

// DateRange parses the calendar-day bounds into the half-open domain
// range; validation of ordering happens in the domain constructor.
func (r CreateBookingRequest) DateRange() (booking.DateRange, error) {
	start, err := time.Parse(time.DateOnly, r.StartDate)
	if err != nil {
		return booking.DateRange{}, err
	}
	end, err := time.Parse(time.DateOnly, r.EndDate)
	if err != nil {
		return booking.DateRange{}, err
	}
	return booking.NewDateRange(start, end)
}

func (r CreateBookingRequest) Contact() booking.RenterContact {
	return booking.NewRenterContact(r.RenterName, r.RenterPhone)
}

type QuoteQuery struct {
	StartDate string `form:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"required,datetime=2006-01-02"`
}

func (q QuoteQuery) DateRange() (booking.DateRange, error) {
	start, err := time.Parse(time.DateOnly, q.StartDate)
	if err != nil {
		return booking.DateRange{}, err
	}
	end, err := time.Parse(time.DateOnly, q.EndDate)
	if err != nil {
		return booking.DateRange{}, err
	}
	return booking.NewDateRange(start, end)
}

type DeleteEquipmentQuery struct {
	Confirm bool `form:"confirm"`
}
