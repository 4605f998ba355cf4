package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID              uuid.UUID `json:"id"`
	EquipmentID     uuid.UUID `json:"equipment_id"`
	EquipmentName   string    `json:"equipment_name"`
	RenterID        uuid.UUID `json:"renter_id"`
	OwnerID         uuid.UUID `json:"owner_id"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	Status          string    `json:"status"`
	TotalPriceCents int64     `json:"total_price_cents"`
	RenterName      string    `json:"renter_name"`
	RenterPhone     string    `json:"renter_phone"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type BookingListItem struct {
	ID              uuid.UUID `json:"id"`
	EquipmentID     uuid.UUID `json:"equipment_id"`
	EquipmentName   string    `json:"equipment_name"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	Status          string    `json:"status"`
	TotalPriceCents int64     `json:"total_price_cents"`
	CreatedAt       time.Time `json:"created_at"`
}

// BlockedRange is one calendar hold, end-exclusive.
type BlockedRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type PriceQuote struct {
	EquipmentID     uuid.UUID `json:"equipment_id"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	DurationDays    int       `json:"duration_days"`
	TotalPriceCents int64     `json:"total_price_cents"`
}

type DeletionSafety struct {
	EquipmentID        uuid.UUID `json:"equipment_id"`
	ActiveBookingCount int64     `json:"active_booking_count"`
}
