package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"heavyhub/internal/domain/booking"
	"heavyhub/internal/domain/equipment"
	reqdto "heavyhub/internal/handler/dto/request"
	"heavyhub/internal/infra"
	"heavyhub/internal/pkg/clock"
	"heavyhub/internal/pkg/errs"
	"heavyhub/internal/usecase/queries"
	"heavyhub/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrEquipmentNotFound       = errs.New("equipment not found")
	ErrBookingNotFound         = errs.New("booking not found")
	ErrSelfBooking             = errs.New("owners cannot book their own equipment")
	ErrEquipmentUnavailable    = errs.New("equipment is not available for rent")
	ErrInvalidDateRange        = errs.New("invalid date range")
	ErrRangeOutOfBounds        = errs.New("requested range is outside the booking window")
	ErrRateUnavailable         = errs.New("no rate covers the requested duration")
	ErrDateConflict            = errs.New("requested dates conflict with an existing booking")
	ErrNotBookingParty         = errs.New("actor is not a party to this booking")
	ErrInvalidTransition       = errs.New("transition not allowed from current status")
	ErrBookingNotEnded         = errs.New("booking period has not ended")
	ErrTransitionConflict      = errs.New("booking was modified concurrently")
	ErrDuplicateRequest        = errs.New("idempotency key reused with a different payload")
	ErrIdempotencyInProgress   = errs.New("request with this key is still being processed")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

const createBookingEndpoint = "POST /api/bookings"

type RequestBookingResult struct {
	Booking    *queries.BookingView
	IsReplayed bool
}

type BookingCommands interface {
	// RequestBooking runs the full reservation workflow: window bounds,
	// self-booking guard, rentability, conflict check under the
	// per-equipment lock, quote, and persist. Repeats with the same
	// idempotency key replay the original result.
	RequestBooking(ctx context.Context, req reqdto.CreateBookingRequest, renterID uuid.UUID, idempotencyKey uuid.UUID) (*RequestBookingResult, error)
	Confirm(ctx context.Context, bookingID uuid.UUID, actor booking.Actor) error
	Cancel(ctx context.Context, bookingID uuid.UUID, actor booking.Actor) error
	Complete(ctx context.Context, bookingID uuid.UUID, actor booking.Actor) error
}

type bookingUseCaseImpl struct {
	uow            shared.UnitOfWork
	bookingQueries queries.BookingQueries
	clock          clock.Clock
	horizonDays    int
}

func NewBookingUseCase(
	uow shared.UnitOfWork,
	bookingQueries queries.BookingQueries,
	clk clock.Clock,
	horizonDays int,
) BookingCommands {
	return &bookingUseCaseImpl{
		uow:            uow,
		bookingQueries: bookingQueries,
		clock:          clk,
		horizonDays:    horizonDays,
	}
}

func (u *bookingUseCaseImpl) RequestBooking(
	ctx context.Context,
	req reqdto.CreateBookingRequest,
	renterID uuid.UUID,
	idempotencyKey uuid.UUID,
) (*RequestBookingResult, error) {
	dateRange, err := req.DateRange()
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidDateRange)
	}

	requestHash := calculateRequestHash(req)
	expiresAt := u.clock.Now().Add(24 * time.Hour)

	var (
		bookingID uuid.UUID
		replayID  *uuid.UUID
	)

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		claimed, err := tx.Idempotency().TryInsert(ctx, idempotencyKey, renterID, createBookingEndpoint, requestHash, expiresAt)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !claimed {
			id, err := resolveExistingKey(ctx, tx.Reads(), idempotencyKey, renterID, requestHash)
			if err != nil {
				return err
			}
			replayID = &id
			return nil
		}

		id, err := u.createBooking(ctx, tx, req, renterID, dateRange)
		if err != nil {
			return err
		}
		bookingID = id

		return tx.Idempotency().UpdateStatusCompleted(ctx, idempotencyKey, renterID, id)
	})
	if err != nil {
		return nil, err
	}

	if replayID != nil {
		view, err := u.bookingQueries.GetByIDSystem(ctx, *replayID)
		if err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return &RequestBookingResult{Booking: view, IsReplayed: true}, nil
	}

	view, err := u.bookingQueries.GetByIDSystem(ctx, bookingID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return &RequestBookingResult{Booking: view, IsReplayed: false}, nil
}

func (u *bookingUseCaseImpl) createBooking(
	ctx context.Context,
	tx shared.Tx,
	req reqdto.CreateBookingRequest,
	renterID uuid.UUID,
	dateRange booking.DateRange,
) (uuid.UUID, error) {
	reads := tx.Reads()

	if err := u.checkWindow(dateRange); err != nil {
		return uuid.Nil, err
	}

	snap, err := reads.EquipmentByID(ctx, req.EquipmentID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return uuid.Nil, ErrEquipmentNotFound
		}
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	listing := equipmentFromSnapshot(snap)

	if listing.IsOwnedBy(renterID) {
		return uuid.Nil, ErrSelfBooking
	}
	if !listing.IsRentable() {
		return uuid.Nil, ErrEquipmentUnavailable
	}

	// Serialize conflict-check-then-create per equipment. Concurrent
	// requests for the same unit queue here; the exclusion constraint on
	// bookings is the backstop if anything slips through.
	if err := tx.LockEquipment(ctx, req.EquipmentID); err != nil {
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	conflict, err := reads.HasConflict(ctx, req.EquipmentID, dateRange)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if conflict {
		return uuid.Nil, ErrDateConflict
	}

	price, err := booking.Quote(dateRange, listing.Rates())
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrRateUnavailable)
	}

	entity, err := booking.NewBooking(
		req.EquipmentID, renterID, listing.OwnerID(),
		dateRange, price, req.Contact(), u.clock.Now(),
	)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}

	id, err := tx.Bookings().Create(ctx, entity)
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return uuid.Nil, ErrDateConflict
		}
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := u.enqueueEvent(ctx, tx, "booking_created", entity); err != nil {
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return id, nil
}

// checkWindow bounds new requests to [today, today+horizon). Historical
// and far-future ranges are rejected before any calendar read.
func (u *bookingUseCaseImpl) checkWindow(dateRange booking.DateRange) error {
	today := booking.TruncateToDay(u.clock.Now())
	if dateRange.Start().Before(today) {
		return ErrRangeOutOfBounds
	}
	if dateRange.End().After(today.AddDate(0, 0, u.horizonDays)) {
		return ErrRangeOutOfBounds
	}
	return nil
}

func resolveExistingKey(
	ctx context.Context,
	reads shared.CommandReads,
	key, userID uuid.UUID,
	requestHash string,
) (uuid.UUID, error) {
	rec, err := reads.IdempotencyByKey(ctx, key, userID)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if rec.RequestHash != requestHash {
		return uuid.Nil, ErrDuplicateRequest
	}

	switch rec.Status {
	case "completed":
		if rec.ResultBookingID == nil {
			return uuid.Nil, errs.New("completed request missing result booking id")
		}
		return *rec.ResultBookingID, nil
	case "processing":
		return uuid.Nil, ErrIdempotencyInProgress
	default:
		return uuid.Nil, errs.New("invalid idempotency key status")
	}
}

func (u *bookingUseCaseImpl) Confirm(ctx context.Context, bookingID uuid.UUID, actor booking.Actor) error {
	return u.transition(ctx, bookingID, actor, "booking_confirmed",
		func(b *booking.Booking, now time.Time) error { return b.Confirm(actor, now) })
}

func (u *bookingUseCaseImpl) Cancel(ctx context.Context, bookingID uuid.UUID, actor booking.Actor) error {
	return u.transition(ctx, bookingID, actor, "booking_cancelled",
		func(b *booking.Booking, now time.Time) error { return b.Cancel(actor, now) })
}

// Complete emits no notification; it is bookkeeping, not news to either
// party.
func (u *bookingUseCaseImpl) Complete(ctx context.Context, bookingID uuid.UUID, actor booking.Actor) error {
	return u.transition(ctx, bookingID, actor, "",
		func(b *booking.Booking, now time.Time) error { return b.Complete(actor, now) })
}

func (u *bookingUseCaseImpl) transition(
	ctx context.Context,
	bookingID uuid.UUID,
	actor booking.Actor,
	eventTopic string,
	apply func(b *booking.Booking, now time.Time) error,
) error {
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().BookingByID(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		entity, err := bookingFromSnapshot(snap)
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}

		prev := entity.Status()
		if err := apply(entity, u.clock.Now()); err != nil {
			return mapLifecycleErr(err)
		}

		if err := tx.Bookings().UpdateStatus(ctx, entity, prev); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrTransitionConflict
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if eventTopic == "" {
			return nil
		}
		return u.enqueueEvent(ctx, tx, eventTopic, entity)
	})
}

func mapLifecycleErr(err error) error {
	switch {
	case errors.Is(err, booking.ErrNotBookingParty):
		return ErrNotBookingParty
	case errors.Is(err, booking.ErrInvalidTransition):
		return ErrInvalidTransition
	case errors.Is(err, booking.ErrBookingNotEnded):
		return ErrBookingNotEnded
	default:
		return errs.Mark(err, ErrDomainValidation)
	}
}

func bookingFromSnapshot(snap *shared.BookingSnapshot) (*booking.Booking, error) {
	dateRange, err := booking.NewDateRange(snap.StartDate, snap.EndDate)
	if err != nil {
		return nil, err
	}

	status := booking.Status(snap.Status)
	if !status.IsValid() {
		return nil, errs.New("stored booking has unknown status")
	}

	return booking.ReconstructBooking(
		snap.ID, snap.EquipmentID, snap.RenterID, snap.OwnerID,
		dateRange,
		booking.NewMoney(snap.TotalPriceCents),
		status,
		booking.NewRenterContact(snap.RenterName, snap.RenterPhone),
		snap.CreatedAt, snap.UpdatedAt,
	), nil
}

func equipmentFromSnapshot(snap *shared.EquipmentSnapshot) *equipment.Equipment {
	return equipment.Reconstruct(
		snap.ID, snap.OwnerID, snap.Name,
		booking.RateSchedule{
			DailyRateCents:   snap.DailyRateCents,
			MonthlyRateCents: snap.MonthlyRateCents,
		},
		snap.IsAvailable, snap.ForRent,
	)
}

// enqueueEvent records the outbox row inside the mutating transaction;
// the relay owns actual delivery.
func (u *bookingUseCaseImpl) enqueueEvent(ctx context.Context, tx shared.Tx, topic string, b *booking.Booking) error {
	payload, err := json.Marshal(map[string]any{
		"booking_id":   b.ID(),
		"equipment_id": b.EquipmentID(),
		"renter_id":    b.RenterID(),
		"owner_id":     b.OwnerID(),
		"status":       b.Status().String(),
		"start_date":   b.Range().Start().Format(time.DateOnly),
		"end_date":     b.Range().End().Format(time.DateOnly),
		"type":         topic,
	})
	if err != nil {
		return err
	}

	return tx.Notifications().CreateJob(ctx, "email", topic, payload, u.clock.Now())
}

func calculateRequestHash(req reqdto.CreateBookingRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
