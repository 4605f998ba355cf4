package api

import (
	"errors"
	"net/http"

	reqdto "heavyhub/internal/handler/dto/request"
	resdto "heavyhub/internal/handler/dto/response"
	"heavyhub/internal/handler/httperr"
	"heavyhub/internal/handler/middleware"
	"heavyhub/internal/infra"
	"heavyhub/internal/usecase/commands"
	"heavyhub/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EquipmentHandler struct {
	cmds commands.EquipmentCommands
	q    queries.EquipmentQueries
	bq   queries.BookingQueries
}

func NewEquipmentHandler(cmds commands.EquipmentCommands, q queries.EquipmentQueries, bq queries.BookingQueries) *EquipmentHandler {
	return &EquipmentHandler{cmds: cmds, q: q, bq: bq}
}

// @Summary Blocked ranges
// @Description List date ranges held by pending or confirmed bookings on the equipment
// @Tags equipment
// @Produce json
// @Param id path string true "Equipment ID"
// @Success 200 {array} resdto.BlockedRangeResponse
// @Failure 400 {object} map[string]string
// @Router /equipment/{id}/blocked-ranges [get]
func (h *EquipmentHandler) BlockedRanges(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid equipment ID format", nil)
		return
	}

	ranges, err := h.bq.BlockedRanges(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBlockedRanges(ranges))
}

// @Summary Price quote
// @Description Quote the total price for renting the equipment over a date range
// @Tags equipment
// @Produce json
// @Param id path string true "Equipment ID"
// @Param start_date query string true "Start date (inclusive, YYYY-MM-DD)"
// @Param end_date query string true "End date (exclusive, YYYY-MM-DD)"
// @Success 200 {object} resdto.QuoteResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /equipment/{id}/quote [get]
func (h *EquipmentHandler) Quote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid equipment ID format", nil)
		return
	}

	var q reqdto.QuoteQuery
	if bindErr := c.ShouldBindQuery(&q); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid query parameters", nil)
		return
	}

	dateRange, err := q.DateRange()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date range", nil)
		return
	}

	quote, err := h.q.Quote(c.Request.Context(), id, dateRange)
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Equipment not found", nil)
		case errors.Is(err, queries.ErrNotOfferedForRent):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Equipment is not offered for rent", nil)
		case errors.Is(err, queries.ErrRateUnavailable):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "No rate covers the requested duration", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromPriceQuote(quote))
}

// @Summary Deletion safety
// @Description Report how many active bookings would be orphaned by deleting the listing
// @Tags equipment
// @Produce json
// @Security BearerAuth
// @Param id path string true "Equipment ID"
// @Success 200 {object} resdto.DeletionSafetyResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /equipment/{id}/deletion-safety [get]
func (h *EquipmentHandler) DeletionSafety(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid equipment ID format", nil)
		return
	}

	safety, err := h.q.DeletionSafety(c.Request.Context(), id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Equipment not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromDeletionSafety(safety))
}

// @Summary Delete listing
// @Description Delete the listing; active bookings require confirm=true and are left untouched
// @Tags equipment
// @Produce json
// @Security BearerAuth
// @Param id path string true "Equipment ID"
// @Param confirm query bool false "Confirm deletion despite active bookings"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} resdto.DeletionWarningResponse
// @Router /equipment/{id} [delete]
func (h *EquipmentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid equipment ID format", nil)
		return
	}

	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errors.New("missing principal"), "Unauthorized", nil)
		return
	}

	var q reqdto.DeleteEquipmentQuery
	if bindErr := c.ShouldBindQuery(&q); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid query parameters", nil)
		return
	}

	result, err := h.cmds.PurgeListing(c.Request.Context(), id, actor, q.Confirm)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrEquipmentNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Equipment not found", nil)
		case errors.Is(err, commands.ErrNotListingOwner):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Only the listing owner may delete it", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	if !result.Deleted {
		c.JSON(http.StatusConflict, resdto.DeletionWarningResponse{
			EquipmentID:        id,
			ActiveBookingCount: result.ActiveBookingCount,
			Message:            "Listing has active bookings; repeat with confirm=true to delete anyway",
		})
		return
	}

	c.Status(http.StatusNoContent)
}
