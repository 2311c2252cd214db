package rental

import "time"

// ReminderLeadDays is how many days before the notice day a reminder fires
const ReminderLeadDays = 3

// ValidNoticeDay reports whether day can be used as a notice day
func ValidNoticeDay(day int) bool {
	return day >= 1 && day <= 31
}

// TargetPeriod returns the month a reminder evaluated on today refers to:
// the current month while today is before the notice day, the following
// month from the notice day onwards.
func TargetPeriod(today time.Time, noticeDay int) time.Time {
	current := NormalizePeriod(today)
	if today.Day() < noticeDay {
		return current
	}
	return AddMonths(current, 1)
}

// ReminderTriggerDate returns the day the reminder for period fires:
// ReminderLeadDays before the notice day. When that falls on or before day
// zero the date rolls back into the previous month, counted from its real
// length. A notice day beyond the month's end is clamped to the last day.
func ReminderTriggerDate(period time.Time, noticeDay int) time.Time {
	p := NormalizePeriod(period)
	effective := noticeDay
	if last := DaysIn(p.Year(), p.Month()); effective > last {
		effective = last
	}

	day := effective - ReminderLeadDays
	if day >= 1 {
		return time.Date(p.Year(), p.Month(), day, 0, 0, 0, 0, time.UTC)
	}

	prev := AddMonths(p, -1)
	return time.Date(prev.Year(), prev.Month(), DaysIn(prev.Year(), prev.Month())+day, 0, 0, 0, 0, time.UTC)
}

// ReminderDue reports whether today is the trigger date for the tenant's
// current target period, and returns that period.
func ReminderDue(today time.Time, noticeDay int) (time.Time, bool) {
	date := CivilDate(today)
	period := TargetPeriod(date, noticeDay)
	return period, ReminderTriggerDate(period, noticeDay).Equal(date)
}
