package response

import (
	"time"

	"heavyhub/internal/usecase/queries"

	"github.com/google/uuid"
)

type BlockedRangeResponse struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func FromBlockedRanges(ranges []queries.BlockedRange) []BlockedRangeResponse {
	out := make([]BlockedRangeResponse, len(ranges))
	for i, r := range ranges {
		out[i] = BlockedRangeResponse{
			StartDate: r.Start.Format(time.DateOnly),
			EndDate:   r.End.Format(time.DateOnly),
		}
	}
	return out
}

type QuoteResponse struct {
	EquipmentID     uuid.UUID `json:"equipmentId"`
	StartDate       string    `json:"startDate"`
	EndDate         string    `json:"endDate"`
	DurationDays    int       `json:"durationDays"`
	TotalPriceCents int64     `json:"totalPriceCents"`
}

func FromPriceQuote(q *queries.PriceQuote) *QuoteResponse {
	return &QuoteResponse{
		EquipmentID:     q.EquipmentID,
		StartDate:       q.StartDate.Format(time.DateOnly),
		EndDate:         q.EndDate.Format(time.DateOnly),
		DurationDays:    q.DurationDays,
		TotalPriceCents: q.TotalPriceCents,
	}
}

type DeletionSafetyResponse struct {
	EquipmentID        uuid.UUID `json:"equipmentId"`
	ActiveBookingCount int64     `json:"activeBookingCount"`
	SafeToDelete       bool      `json:"safeToDelete"`
}

func FromDeletionSafety(s *queries.DeletionSafety) *DeletionSafetyResponse {
	return &DeletionSafetyResponse{
		EquipmentID:        s.EquipmentID,
		ActiveBookingCount: s.ActiveBookingCount,
		SafeToDelete:       s.ActiveBookingCount == 0,
	}
}

type DeletionWarningResponse struct {
	EquipmentID        uuid.UUID `json:"equipmentId"`
	ActiveBookingCount int64     `json:"activeBookingCount"`
	Message            string    `json:"message"`
}
