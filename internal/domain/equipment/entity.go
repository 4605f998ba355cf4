package equipment

import (
	"errors"
	"strings"

	"heavyhub/internal/domain/booking"

	"github.com/google/uuid"
)

var (
	ErrEmptyName       = errors.New("equipment name cannot be empty")
	ErrNameTooLong     = errors.New("equipment name is too long (max 255 characters)")
	ErrNonPositiveRate = errors.New("rates must be strictly positive when set")
	ErrNoRentalPricing = errors.New("equipment offered for rent must carry at least one rate")
	ErrMissingOwner    = errors.New("equipment must have an owner")
)

const MaxNameLength = 255

// Equipment is the catalog snapshot the reservation core works against.
// The catalog itself (listing CRUD, media, moderation) lives in an
// external collaborator; this entity only validates what booking logic
// depends on.
type Equipment struct {
	id          uuid.UUID
	ownerID     uuid.UUID
	name        string
	rates       booking.RateSchedule
	isAvailable bool
	forRent     bool
}

func NewEquipment(
	id, ownerID uuid.UUID,
	name string,
	rates booking.RateSchedule,
	isAvailable, forRent bool,
) (*Equipment, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return nil, ErrNameTooLong
	}
	if ownerID == uuid.Nil {
		return nil, ErrMissingOwner
	}
	if err := validateRates(rates); err != nil {
		return nil, err
	}
	if forRent && rates.DailyRateCents == nil && rates.MonthlyRateCents == nil {
		return nil, ErrNoRentalPricing
	}

	return &Equipment{
		id:          id,
		ownerID:     ownerID,
		name:        name,
		rates:       rates,
		isAvailable: isAvailable,
		forRent:     forRent,
	}, nil
}

// Reconstruct rebuilds a stored listing without re-running creation
// validation.
func Reconstruct(
	id, ownerID uuid.UUID,
	name string,
	rates booking.RateSchedule,
	isAvailable, forRent bool,
) *Equipment {
	return &Equipment{
		id:          id,
		ownerID:     ownerID,
		name:        name,
		rates:       rates,
		isAvailable: isAvailable,
		forRent:     forRent,
	}
}

func validateRates(rates booking.RateSchedule) error {
	if rates.DailyRateCents != nil && *rates.DailyRateCents <= 0 {
		return ErrNonPositiveRate
	}
	if rates.MonthlyRateCents != nil && *rates.MonthlyRateCents <= 0 {
		return ErrNonPositiveRate
	}
	return nil
}

// IsRentable reports whether new reservations may be requested.
func (e *Equipment) IsRentable() bool {
	return e.isAvailable && e.forRent
}

func (e *Equipment) IsOwnedBy(userID uuid.UUID) bool {
	return e.ownerID == userID
}

func (e *Equipment) ID() uuid.UUID               { return e.id }
func (e *Equipment) OwnerID() uuid.UUID          { return e.ownerID }
func (e *Equipment) Name() string                { return e.name }
func (e *Equipment) Rates() booking.RateSchedule { return e.rates }
func (e *Equipment) IsAvailable() bool           { return e.isAvailable }
func (e *Equipment) ForRent() bool               { return e.forRent }
