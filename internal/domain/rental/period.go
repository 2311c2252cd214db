package rental

import (
	"fmt"
	"time"
)

// periodLayout is the textual form of a billing period, e.g. "2025-07"
const periodLayout = "2006-01"

// NormalizePeriod returns the first day of t's calendar month at UTC midnight.
// The calendar month is read in t's own location, so a local date never shifts
// into a neighbouring month.
func NormalizePeriod(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NewPeriod builds a normalized period from a year and month number
func NewPeriod(year int, month int) (time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, ErrInvalidPeriod
	}
	if year < 1900 || year > 9999 {
		return time.Time{}, ErrInvalidPeriod
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}

// ParsePeriod parses "YYYY-MM"
func ParsePeriod(s string) (time.Time, error) {
	t, err := time.Parse(periodLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return NormalizePeriod(t), nil
}

// PeriodKey formats a period as "YYYY-MM"
func PeriodKey(period time.Time) string {
	return period.Format(periodLayout)
}

// PeriodLabel formats a period for people, e.g. "July 2025"
func PeriodLabel(period time.Time) string {
	return fmt.Sprintf("%s %d", period.Month(), period.Year())
}

// AddMonths moves a normalized period by n months
func AddMonths(period time.Time, n int) time.Time {
	p := NormalizePeriod(period)
	return time.Date(p.Year(), p.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
}

// CurrentPeriod returns the period containing now in loc
func CurrentPeriod(now time.Time, loc *time.Location) time.Time {
	if loc != nil {
		now = now.In(loc)
	}
	return NormalizePeriod(now)
}

// FirstUnbilledPeriod is the month after the one containing now
func FirstUnbilledPeriod(now time.Time, loc *time.Location) time.Time {
	return AddMonths(CurrentPeriod(now, loc), 1)
}

// DaysIn returns the number of days in the given month
func DaysIn(year int, month time.Month) int {
	// day 0 of the following month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// CivilDate strips the clock from t, keeping its calendar date in t's location.
// The result is UTC midnight so dates from different zones compare by day.
func CivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the civil date of now in loc
func Today(now time.Time, loc *time.Location) time.Time {
	if loc != nil {
		now = now.In(loc)
	}
	return CivilDate(now)
}
