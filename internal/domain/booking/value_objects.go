package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidRange = errors.New("invalid date range")
	ErrInvalidRate  = errors.New("invalid rate for requested duration")
)

// DateRange is a half-open interval of calendar days [start, end).
// The end day is excluded, so back-to-back rentals on the same
// equipment are legal. Both bounds are normalized to UTC midnight.
type DateRange struct {
	start time.Time
	end   time.Time
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	start = TruncateToDay(start)
	end = TruncateToDay(end)

	if !start.Before(end) {
		return DateRange{}, ErrInvalidRange
	}

	return DateRange{start: start, end: end}, nil
}

func TruncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (r DateRange) Start() time.Time {
	return r.start
}

func (r DateRange) End() time.Time {
	return r.end
}

// Days is the rental duration in whole days; always >= 1 for a valid range.
func (r DateRange) Days() int {
	return int(r.end.Sub(r.start) / (24 * time.Hour))
}

// Overlaps is the single overlap predicate shared by the conflict check
// and the calendar selector: A.start < B.end && B.start < A.end.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.start.Before(other.end) && other.start.Before(r.end)
}

// ContainsDay reports whether the given day is occupied by this range.
// The end day is not occupied.
func (r DateRange) ContainsDay(day time.Time) bool {
	day = TruncateToDay(day)
	return !day.Before(r.start) && day.Before(r.end)
}

func (r DateRange) IsZero() bool {
	return r.start.IsZero() && r.end.IsZero()
}

// ToDaterange renders the range in Postgres daterange literal form.
func (r DateRange) ToDaterange() string {
	return fmt.Sprintf("[%s,%s)", r.start.Format(time.DateOnly), r.end.Format(time.DateOnly))
}

func (r DateRange) String() string {
	return r.ToDaterange()
}

type Money struct {
	cents int64
}

func NewMoney(cents int64) Money {
	return Money{cents: cents}
}

func NewMoneyFromInt64(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errors.New("money cannot be negative")
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Dollars() float64 {
	return float64(m.cents) / 100.0
}

// RenterContact is denormalized into the booking so the record stays
// readable after the renter profile or the listing is gone.
type RenterContact struct {
	name  string
	phone string
}

func NewRenterContact(name, phone string) RenterContact {
	return RenterContact{
		name:  strings.TrimSpace(name),
		phone: strings.TrimSpace(phone),
	}
}

func (c RenterContact) Name() string  { return c.name }
func (c RenterContact) Phone() string { return c.phone }
