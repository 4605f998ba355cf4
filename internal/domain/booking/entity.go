package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrNotBookingParty   = errors.New("actor is not a party to this booking")
	ErrBookingNotEnded   = errors.New("booking period has not ended yet")
	ErrNegativePrice     = errors.New("price cannot be negative")
)

// Actor identifies the already-authenticated principal driving a
// lifecycle transition. System is used by background jobs.
type Actor struct {
	ID      uuid.UUID
	IsAdmin bool
	System  bool
}

// Booking is a reservation of one piece of equipment for a date range.
// The range and the quoted price are fixed at creation; rescheduling is
// cancel + recreate. Status is the only mutable field.
type Booking struct {
	id          uuid.UUID
	equipmentID uuid.UUID
	renterID    uuid.UUID
	ownerID     uuid.UUID
	dateRange   DateRange
	totalPrice  Money
	status      Status
	contact     RenterContact
	createdAt   time.Time
	updatedAt   time.Time
}

func NewBooking(
	equipmentID, renterID, ownerID uuid.UUID,
	dateRange DateRange,
	totalPrice Money,
	contact RenterContact,
	now time.Time,
) (*Booking, error) {
	if totalPrice.Cents() < 0 {
		return nil, ErrNegativePrice
	}

	return &Booking{
		id:          uuid.New(),
		equipmentID: equipmentID,
		renterID:    renterID,
		ownerID:     ownerID,
		dateRange:   dateRange,
		totalPrice:  totalPrice,
		status:      StatusPending,
		contact:     contact,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructBooking(
	id, equipmentID, renterID, ownerID uuid.UUID,
	dateRange DateRange,
	totalPrice Money,
	status Status,
	contact RenterContact,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:          id,
		equipmentID: equipmentID,
		renterID:    renterID,
		ownerID:     ownerID,
		dateRange:   dateRange,
		totalPrice:  totalPrice,
		status:      status,
		contact:     contact,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Confirm accepts a pending request. Only the equipment owner or an
// admin may accept.
func (b *Booking) Confirm(actor Actor, now time.Time) error {
	if !b.isOwnerSide(actor) {
		return ErrNotBookingParty
	}
	if b.status != StatusPending {
		return ErrInvalidTransition
	}
	b.status = StatusConfirmed
	b.touch(now)
	return nil
}

// Cancel may be triggered by either party (or an admin) while the
// booking is still pending or confirmed. Cancellation is a status
// change, not a delete; the record stays queryable.
func (b *Booking) Cancel(actor Actor, now time.Time) error {
	if !b.isParty(actor) {
		return ErrNotBookingParty
	}
	if b.status != StatusPending && b.status != StatusConfirmed {
		return ErrInvalidTransition
	}
	b.status = StatusCancelled
	b.touch(now)
	return nil
}

// Complete closes out a confirmed booking whose period has passed.
func (b *Booking) Complete(actor Actor, now time.Time) error {
	if !b.isOwnerSide(actor) {
		return ErrNotBookingParty
	}
	if b.status != StatusConfirmed {
		return ErrInvalidTransition
	}
	if b.dateRange.End().After(TruncateToDay(now)) {
		return ErrBookingNotEnded
	}
	b.status = StatusCompleted
	b.touch(now)
	return nil
}

func (b *Booking) isParty(actor Actor) bool {
	return actor.System || actor.IsAdmin || actor.ID == b.renterID || actor.ID == b.ownerID
}

func (b *Booking) isOwnerSide(actor Actor) bool {
	return actor.System || actor.IsAdmin || actor.ID == b.ownerID
}

func (b *Booking) touch(now time.Time) {
	if now.After(b.updatedAt) {
		b.updatedAt = now
	}
}

func (b *Booking) IsActive() bool {
	return b.status.Blocks()
}

func (b *Booking) ID() uuid.UUID          { return b.id }
func (b *Booking) EquipmentID() uuid.UUID { return b.equipmentID }
func (b *Booking) RenterID() uuid.UUID    { return b.renterID }
func (b *Booking) OwnerID() uuid.UUID     { return b.ownerID }
func (b *Booking) Range() DateRange       { return b.dateRange }
func (b *Booking) TotalPrice() Money      { return b.totalPrice }
func (b *Booking) Status() Status         { return b.status }
func (b *Booking) Contact() RenterContact { return b.contact }
func (b *Booking) CreatedAt() time.Time   { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time   { return b.updatedAt }
