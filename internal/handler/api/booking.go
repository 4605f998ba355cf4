package api

import (
	"context"
	"errors"
	"net/http"

	"heavyhub/internal/domain/booking"
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

type BookingHandler struct {
	cmds commands.BookingCommands
	q    queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q}
}

// @Summary Request booking
// @Description Request a booking for a piece of equipment over a date range
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errors.New("missing principal"), "Unauthorized", nil)
		return
	}

	idempotencyKey, err := getIdempotencyKey(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	result, err := h.cmds.RequestBooking(c.Request.Context(), req, userID, idempotencyKey)
	if err != nil {
		status, msg := bookingErrorStatus(err)
		httperr.AbortWithError(c, status, err, msg, nil)
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromBookingView(result.Booking))
}

// @Summary Get booking
// @Description Get a booking by ID; only its parties and admins may view it
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errors.New("missing principal"), "Unauthorized", nil)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		status, msg := bookingErrorStatus(err)
		httperr.AbortWithError(c, status, err, msg, nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List my bookings
// @Description List bookings the current user has requested as a renter
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.BookingListResponse
// @Failure 401 {object} map[string]string
// @Router /bookings [get]
func (h *BookingHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errors.New("missing principal"), "Unauthorized", nil)
		return
	}

	items, err := h.q.ListByRenter(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingList(items))
}

// @Summary List owned bookings
// @Description List bookings against equipment the current user owns
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.BookingListResponse
// @Failure 401 {object} map[string]string
// @Router /bookings/owned [get]
func (h *BookingHandler) ListOwned(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errors.New("missing principal"), "Unauthorized", nil)
		return
	}

	items, err := h.q.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingList(items))
}

// @Summary Confirm booking
// @Description Accept a pending booking request (equipment owner only)
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/confirm [post]
func (h *BookingHandler) Confirm(c *gin.Context) {
	h.applyTransition(c, h.cmds.Confirm)
}

// @Summary Cancel booking
// @Description Cancel a pending or confirmed booking (either party)
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	h.applyTransition(c, h.cmds.Cancel)
}

// @Summary Complete booking
// @Description Close out a confirmed booking whose period has ended
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings/{id}/complete [post]
func (h *BookingHandler) Complete(c *gin.Context) {
	h.applyTransition(c, h.cmds.Complete)
}

func (h *BookingHandler) applyTransition(
	c *gin.Context,
	apply func(ctx context.Context, id uuid.UUID, actor booking.Actor) error,
) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errors.New("missing principal"), "Unauthorized", nil)
		return
	}

	if err := apply(c.Request.Context(), id, actor); err != nil {
		status, msg := bookingErrorStatus(err)
		httperr.AbortWithError(c, status, err, msg, nil)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load booking", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

func getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return uuid.Nil, errors.New("Idempotency-Key header required")
	}

	key, err := uuid.Parse(keyStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid idempotency key format")
	}

	return key, nil
}

// bookingErrorStatus maps usecase errors to HTTP status codes. Unknown
// errors fall through to 500 without leaking internals.
func bookingErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, commands.ErrEquipmentNotFound):
		return http.StatusNotFound, "Equipment not found"
	case errors.Is(err, commands.ErrBookingNotFound):
		return http.StatusNotFound, "Booking not found"
	case infra.IsKind(err, infra.KindNotFound):
		return http.StatusNotFound, "Booking not found"
	case errors.Is(err, commands.ErrInvalidDateRange):
		return http.StatusBadRequest, "Invalid date range"
	case errors.Is(err, commands.ErrSelfBooking):
		return http.StatusForbidden, "Owners cannot book their own equipment"
	case errors.Is(err, commands.ErrNotBookingParty):
		return http.StatusForbidden, "Not a party to this booking"
	case errors.Is(err, queries.ErrViewNotAllowed):
		return http.StatusForbidden, "Not a party to this booking"
	case errors.Is(err, commands.ErrEquipmentUnavailable):
		return http.StatusUnprocessableEntity, "Equipment is not available for rent"
	case errors.Is(err, commands.ErrRangeOutOfBounds):
		return http.StatusUnprocessableEntity, "Requested dates are outside the booking window"
	case errors.Is(err, commands.ErrRateUnavailable):
		return http.StatusUnprocessableEntity, "No rate covers the requested duration"
	case errors.Is(err, commands.ErrBookingNotEnded):
		return http.StatusUnprocessableEntity, "Booking period has not ended"
	case errors.Is(err, commands.ErrDateConflict):
		return http.StatusConflict, "Requested dates conflict with an existing booking"
	case errors.Is(err, commands.ErrInvalidTransition):
		return http.StatusConflict, "Transition not allowed from current status"
	case errors.Is(err, commands.ErrTransitionConflict):
		return http.StatusConflict, "Booking was modified concurrently, retry"
	case errors.Is(err, commands.ErrDuplicateRequest):
		return http.StatusConflict, "Idempotency key reused with a different payload"
	case errors.Is(err, commands.ErrIdempotencyInProgress):
		return http.StatusConflict, "Request with this key is still being processed"
	case errors.Is(err, commands.ErrDomainValidation):
		return http.StatusUnprocessableEntity, "Validation failed"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
