//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"heavyhub/internal/handler/api"
	resdto "heavyhub/internal/handler/dto/response"
	"heavyhub/internal/infra"
	"heavyhub/internal/usecase/commands"
	"heavyhub/internal/usecase/queries"
	"heavyhub/tests/common/httptest"
	commandsmock "heavyhub/tests/mock/commands"
	queriesmock "heavyhub/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type EquipmentHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockCtrl        *gomock.Controller
	mockCommands    *commandsmock.MockEquipmentCommands
	mockQueries     *queriesmock.MockEquipmentQueries
	mockBookQueries *queriesmock.MockBookingQueries
	handler         *api.EquipmentHandler
	userID          uuid.UUID
}

func (s *EquipmentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockEquipmentCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockEquipmentQueries(s.mockCtrl)
	s.mockBookQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewEquipmentHandler(s.mockCommands, s.mockQueries, s.mockBookQueries)
	s.userID = uuid.New()

	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", s.userID)
		c.Set("user_role", "user")
		c.Next()
	}

	// Availability and quoting are public; deletion surfaces need auth.
	s.router.GET("/equipment/:id/blocked-ranges", s.handler.BlockedRanges)
	s.router.GET("/equipment/:id/quote", s.handler.Quote)
	s.router.GET("/equipment/:id/deletion-safety", authMiddleware, s.handler.DeletionSafety)
	s.router.DELETE("/equipment/:id", authMiddleware, s.handler.Delete)
}

func (s *EquipmentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestEquipmentHandlerSuite(t *testing.T) {
	suite.Run(t, new(EquipmentHandlerTestSuite))
}

// ================================================================================
// TestBlockedRanges
// ================================================================================

func (s *EquipmentHandlerTestSuite) TestBlockedRanges() {
	equipmentID := uuid.New()
	url := "/equipment/" + equipmentID.String() + "/blocked-ranges"

	ranges := []queries.BlockedRange{
		{
			Start: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			Start: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC),
		},
	}

	s.Run("success: returns blocked ranges without authentication", func() {
		s.mockBookQueries.EXPECT().BlockedRanges(gomock.Any(), equipmentID).
			Return(ranges, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response []resdto.BlockedRangeResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 2)
		s.Equal("2026-03-10", response[0].StartDate)
		s.Equal("2026-03-15", response[0].EndDate)
	})

	s.Run("success: empty calendar renders an empty array", func() {
		s.mockBookQueries.EXPECT().BlockedRanges(gomock.Any(), equipmentID).
			Return([]queries.BlockedRange{}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response []resdto.BlockedRangeResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Empty(response)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/equipment/invalid-uuid/blocked-ranges", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid equipment ID format")
	})

	s.Run("error: 500 Internal Server Error on query failure", func() {
		s.mockBookQueries.EXPECT().BlockedRanges(gomock.Any(), equipmentID).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

// ================================================================================
// TestQuote
// ================================================================================

func (s *EquipmentHandlerTestSuite) TestQuote() {
	equipmentID := uuid.New()
	baseURL := "/equipment/" + equipmentID.String() + "/quote"
	url := baseURL + "?start_date=2026-03-10&end_date=2026-03-15"

	returnQuote := &queries.PriceQuote{
		EquipmentID:     equipmentID,
		StartDate:       time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		DurationDays:    5,
		TotalPriceCents: 250_000,
	}

	s.Run("success: returns 200 OK with QuoteResponse", func() {
		s.mockQueries.EXPECT().Quote(gomock.Any(), equipmentID, gomock.Any()).
			Return(returnQuote, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response resdto.QuoteResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(equipmentID, response.EquipmentID)
		s.Equal(5, response.DurationDays)
		s.Equal(int64(250_000), response.TotalPriceCents)
		s.Equal("2026-03-10", response.StartDate)
		s.Equal("2026-03-15", response.EndDate)
	})

	s.Run("error: 400 Bad Request without date parameters", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, baseURL, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid query parameters")
	})

	s.Run("error: 400 Bad Request for reversed dates", func() {
		reversed := baseURL + "?start_date=2026-03-15&end_date=2026-03-10"
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, reversed, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid date range")
	})

	s.Run("error: 404 Not Found for unknown equipment", func() {
		s.mockQueries.EXPECT().Quote(gomock.Any(), equipmentID, gomock.Any()).
			Return(nil, infra.WrapRepoErr("equipment not found", nil, infra.KindNotFound)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Equipment not found")
	})

	s.Run("error: 422 Unprocessable Entity when not offered for rent", func() {
		s.mockQueries.EXPECT().Quote(gomock.Any(), equipmentID, gomock.Any()).
			Return(nil, queries.ErrNotOfferedForRent).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "not offered for rent")
	})

	s.Run("error: 422 Unprocessable Entity when no rate covers the duration", func() {
		s.mockQueries.EXPECT().Quote(gomock.Any(), equipmentID, gomock.Any()).
			Return(nil, queries.ErrRateUnavailable).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "No rate covers")
	})
}

// ================================================================================
// TestDeletionSafety
// ================================================================================

func (s *EquipmentHandlerTestSuite) TestDeletionSafety() {
	equipmentID := uuid.New()
	url := "/equipment/" + equipmentID.String() + "/deletion-safety"

	s.Run("success: safe to delete when no active bookings", func() {
		s.mockQueries.EXPECT().DeletionSafety(gomock.Any(), equipmentID).
			Return(&queries.DeletionSafety{EquipmentID: equipmentID}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.DeletionSafetyResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.True(response.SafeToDelete)
		s.Equal(int64(0), response.ActiveBookingCount)
	})

	s.Run("success: reports active bookings", func() {
		s.mockQueries.EXPECT().DeletionSafety(gomock.Any(), equipmentID).
			Return(&queries.DeletionSafety{EquipmentID: equipmentID, ActiveBookingCount: 3}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.DeletionSafetyResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.False(response.SafeToDelete)
		s.Equal(int64(3), response.ActiveBookingCount)
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: 404 Not Found for unknown equipment", func() {
		s.mockQueries.EXPECT().DeletionSafety(gomock.Any(), equipmentID).
			Return(nil, infra.WrapRepoErr("equipment not found", nil, infra.KindNotFound)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Equipment not found")
	})
}

// ================================================================================
// TestDelete
// ================================================================================

func (s *EquipmentHandlerTestSuite) TestDelete() {
	equipmentID := uuid.New()
	url := "/equipment/" + equipmentID.String()

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().PurgeListing(gomock.Any(), equipmentID, gomock.Any(), false).
			Return(&commands.PurgeResult{Deleted: true}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("success: confirm=true is forwarded to the usecase", func() {
		s.mockCommands.EXPECT().PurgeListing(gomock.Any(), equipmentID, gomock.Any(), true).
			Return(&commands.PurgeResult{Deleted: true, ActiveBookingCount: 2}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url+"?confirm=true", nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("conflict: active bookings render a warning, not a deletion", func() {
		s.mockCommands.EXPECT().PurgeListing(gomock.Any(), equipmentID, gomock.Any(), false).
			Return(&commands.PurgeResult{Deleted: false, ActiveBookingCount: 2}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		s.Equal(http.StatusConflict, rec.Code)

		var warning resdto.DeletionWarningResponse
		s.Require().NoError(httptest.DecodeResponseBody(s.T(), rec.Body, &warning))
		s.Equal(equipmentID, warning.EquipmentID)
		s.Equal(int64(2), warning.ActiveBookingCount)
		s.Contains(warning.Message, "confirm=true")
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/equipment/invalid-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid equipment ID format")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "equipment not found",
				commandsError:  commands.ErrEquipmentNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Equipment not found",
			},
			{
				name:           "not the listing owner",
				commandsError:  commands.ErrNotListingOwner,
				expectedStatus: http.StatusForbidden,
				expectedMsg:    "Only the listing owner",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().PurgeListing(gomock.Any(), equipmentID, gomock.Any(), false).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}
