package response

import (
	"time"

	"heavyhub/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID              uuid.UUID `json:"id"`
	EquipmentID     uuid.UUID `json:"equipmentId"`
	EquipmentName   string    `json:"equipmentName"`
	RenterID        uuid.UUID `json:"renterId"`
	OwnerID         uuid.UUID `json:"ownerId"`
	StartDate       string    `json:"startDate"`
	EndDate         string    `json:"endDate"`
	Status          string    `json:"status"`
	TotalPriceCents int64     `json:"totalPriceCents"`
	RenterName      string    `json:"renterName"`
	RenterPhone     string    `json:"renterPhone"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type BookingListResponse struct {
	ID              uuid.UUID `json:"id"`
	EquipmentID     uuid.UUID `json:"equipmentId"`
	EquipmentName   string    `json:"equipmentName"`
	StartDate       string    `json:"startDate"`
	EndDate         string    `json:"endDate"`
	Status          string    `json:"status"`
	TotalPriceCents int64     `json:"totalPriceCents"`
	CreatedAt       time.Time `json:"createdAt"`
}

func FromBookingView(rm *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:              rm.ID,
		EquipmentID:     rm.EquipmentID,
		EquipmentName:   rm.EquipmentName,
		RenterID:        rm.RenterID,
		OwnerID:         rm.OwnerID,
		StartDate:       rm.StartDate.Format(time.DateOnly),
		EndDate:         rm.EndDate.Format(time.DateOnly),
		Status:          rm.Status,
		TotalPriceCents: rm.TotalPriceCents,
		RenterName:      rm.RenterName,
		RenterPhone:     rm.RenterPhone,
		CreatedAt:       rm.CreatedAt,
		UpdatedAt:       rm.UpdatedAt,
	}
}

func FromBookingListItem(rm *queries.BookingListItem) *BookingListResponse {
	return &BookingListResponse{
		ID:              rm.ID,
		EquipmentID:     rm.EquipmentID,
		EquipmentName:   rm.EquipmentName,
		StartDate:       rm.StartDate.Format(time.DateOnly),
		EndDate:         rm.EndDate.Format(time.DateOnly),
		Status:          rm.Status,
		TotalPriceCents: rm.TotalPriceCents,
		CreatedAt:       rm.CreatedAt,
	}
}

func FromBookingList(items []*queries.BookingListItem) []*BookingListResponse {
	out := make([]*BookingListResponse, len(items))
	for i, item := range items {
		out[i] = FromBookingListItem(item)
	}
	return out
}
