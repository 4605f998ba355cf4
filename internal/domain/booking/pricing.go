package booking

import "math"

// Rentals of monthlyThresholdDays or longer are billed against the
// monthly rate, scaled linearly by day count (45 days = 1.5 months).
// Shorter rentals are billed per day. With owner-set rates a 30-day
// hire can legitimately quote below a 29-day one; that pricing is the
// owner's call and is deliberately not smoothed over here.
const monthlyThresholdDays = 30

// RateSchedule is the read-only pricing input attached to a listing.
// A nil rate means the owner does not offer that tier.
type RateSchedule struct {
	DailyRateCents   *int64
	MonthlyRateCents *int64
}

func (rs RateSchedule) dailyRate() (int64, bool) {
	if rs.DailyRateCents == nil || *rs.DailyRateCents <= 0 {
		return 0, false
	}
	return *rs.DailyRateCents, true
}

func (rs RateSchedule) monthlyRate() (int64, bool) {
	if rs.MonthlyRateCents == nil || *rs.MonthlyRateCents <= 0 {
		return 0, false
	}
	return *rs.MonthlyRateCents, true
}

// Quote computes the fixed total for a candidate range. The result is
// captured on the booking at creation time and never recomputed.
func Quote(dateRange DateRange, rates RateSchedule) (Money, error) {
	if dateRange.IsZero() {
		return Money{}, ErrInvalidRange
	}

	days := dateRange.Days()
	if days >= monthlyThresholdDays {
		monthly, ok := rates.monthlyRate()
		if !ok {
			return Money{}, ErrInvalidRate
		}
		cents := int64(math.Round(float64(monthly) * float64(days) / float64(monthlyThresholdDays)))
		return NewMoney(cents), nil
	}

	daily, ok := rates.dailyRate()
	if !ok {
		return Money{}, ErrInvalidRate
	}
	return NewMoney(daily * int64(days)), nil
}
