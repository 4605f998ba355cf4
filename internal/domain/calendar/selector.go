// Package calendar holds the two-click range selection state machine
// backing the booking calendar. It is pure state + transitions so the
// selection rules can be tested without any UI harness, and it reuses
// the booking overlap semantics so the calendar never shows a range the
// workflow would reject for availability.
package calendar

import (
	"time"

	"heavyhub/internal/domain/booking"
)

type State string

const (
	StateEmpty       State = "empty"
	StateStartChosen State = "start-chosen"
	StateRangeChosen State = "range-chosen"
)

// Selector turns two sequential day picks into a validated, gap-free
// candidate range. It never submits anything; the caller reads Range()
// once the state reaches StateRangeChosen.
type Selector struct {
	minDay  time.Time
	maxDay  time.Time
	blocked []booking.DateRange

	state State
	start time.Time
	end   time.Time
}

// NewSelector bounds selectable days to [minDay, maxDay] inclusive and
// greys out the blocked ranges reported by the availability index.
func NewSelector(minDay, maxDay time.Time, blocked []booking.DateRange) *Selector {
	return &Selector{
		minDay:  booking.TruncateToDay(minDay),
		maxDay:  booking.TruncateToDay(maxDay),
		blocked: blocked,
		state:   StateEmpty,
	}
}

// Click feeds one day pick into the machine and returns the resulting
// state. Out-of-bounds picks are ignored. A blocked day never starts a
// selection, but it may end one: the chosen range excludes its end day,
// so a range may finish exactly where a hold begins.
func (s *Selector) Click(day time.Time) State {
	day = booking.TruncateToDay(day)
	if day.Before(s.minDay) || day.After(s.maxDay) {
		return s.state
	}

	switch s.state {
	case StateStartChosen:
		s.clickWithStart(day)
	default:
		// A pick from empty or from a completed range starts over.
		if s.IsDayBlocked(day) {
			return s.state
		}
		s.start = day
		s.end = time.Time{}
		s.state = StateStartChosen
	}
	return s.state
}

func (s *Selector) clickWithStart(day time.Time) {
	switch {
	case day.Equal(s.start):
		// Toggle the start day off.
		s.Clear()
	case day.Before(s.start):
		if s.IsDayBlocked(day) {
			return
		}
		s.start = day
	case s.hasBlockedDayBetween(s.start, day):
		// Forming the range would jump over a booked day; restart at
		// the picked day instead of silently producing an invalid range.
		if s.IsDayBlocked(day) {
			return
		}
		s.start = day
	default:
		s.end = day
		s.state = StateRangeChosen
	}
}

// Clear resets the selection from any state.
func (s *Selector) Clear() {
	s.start = time.Time{}
	s.end = time.Time{}
	s.state = StateEmpty
}

// Range returns the chosen candidate range once selection is complete.
func (s *Selector) Range() (booking.DateRange, bool) {
	if s.state != StateRangeChosen {
		return booking.DateRange{}, false
	}
	r, err := booking.NewDateRange(s.start, s.end)
	if err != nil {
		return booking.DateRange{}, false
	}
	return r, true
}

func (s *Selector) State() State     { return s.state }
func (s *Selector) Start() time.Time { return s.start }
func (s *Selector) End() time.Time   { return s.end }

// IsDayBlocked mirrors what the calendar renders as unavailable.
func (s *Selector) IsDayBlocked(day time.Time) bool {
	day = booking.TruncateToDay(day)
	for _, r := range s.blocked {
		if r.ContainsDay(day) {
			return true
		}
	}
	return false
}

func (s *Selector) hasBlockedDayBetween(start, end time.Time) bool {
	for day := start.AddDate(0, 0, 1); day.Before(end); day = day.AddDate(0, 0, 1) {
		if s.IsDayBlocked(day) {
			return true
		}
	}
	return false
}
