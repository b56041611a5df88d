package booking

import "time"

// Standard cancellations close at 18:00 on the day before the class.
const (
	cancelDeadlineDaysBefore = 1
	cancelDeadlineHour       = 18
)

// CancelDeadline returns the instant after which a standard cancel of
// a reservation on slotDate is no longer allowed: 18:00:00 UTC one day
// before the slot's date.
func CancelDeadline(slotDate time.Time) time.Time {
	day := slotDate.AddDate(0, 0, -cancelDeadlineDaysBefore)
	return time.Date(day.Year(), day.Month(), day.Day(), cancelDeadlineHour, 0, 0, 0, time.UTC)
}

// CancelAllowed reports whether a standard cancel at `now` is still
// permitted for a slot on slotDate.  The comparison is strict: exactly
// at the deadline the cancel is already rejected.
func CancelAllowed(now, slotDate time.Time) bool {
	return now.Before(CancelDeadline(slotDate))
}
