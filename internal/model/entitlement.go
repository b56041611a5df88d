package model

import "time"

// EnrollmentType labels how an entitlement was sold.  The creation and
// validation paths treat every entitlement as having both a date window
// and a usage count, so the type is informational only; validity always
// checks both regardless of this value.
const (
	EnrollmentPeriod = "PERIOD"
	EnrollmentCount  = "COUNT"
)

// Entitlement is a student's right to attend a course, bounded jointly
// by a date window and a remaining usage count.
//
// Fields:
//  ID             – primary key identifier.
//  StudentID      – student who owns the entitlement.
//  CourseID       – course the entitlement applies to.
//  EnrollmentType – PERIOD or COUNT (informational, see above).
//  StartDate      – first day of the validity window (inclusive).
//  EndDate        – last day of the validity window (inclusive).
//  TotalCount     – total lessons granted.
//  UsedCount      – lessons consumed so far.
//  RemainingCount – TotalCount - UsedCount, never negative.
//  IsActive       – cleared automatically when RemainingCount hits 0.
//  Memo           – free-form note for staff.
type Entitlement struct {
	ID             uint64    // entitlements.id
	StudentID      uint64    // entitlements.student_id
	CourseID       uint64    // entitlements.course_id
	EnrollmentType string    // entitlements.enrollment_type
	StartDate      time.Time // entitlements.start_date (date only, UTC midnight)
	EndDate        time.Time // entitlements.end_date (date only, UTC midnight)
	TotalCount     int       // entitlements.total_count
	UsedCount      int       // entitlements.used_count
	RemainingCount int       // entitlements.remaining_count
	IsActive       bool      // entitlements.is_active
	Memo           string    // entitlements.memo
	CreatedAt      time.Time // entitlements.created_at
	UpdatedAt      time.Time // entitlements.updated_at
}

// WithinWindow reports whether the given day falls inside the
// entitlement's [StartDate, EndDate] window, inclusive on both ends.
// Only the calendar date of `day` is considered.
func (e *Entitlement) WithinWindow(day time.Time) bool {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(e.StartDate) && !d.After(e.EndDate)
}

// ValidForBooking reports whether the entitlement may back a new
// reservation today: it must be active, inside its window and have
// lessons remaining.  Window and count are evaluated jointly.
func (e *Entitlement) ValidForBooking(today time.Time) bool {
	return e.IsActive && e.WithinWindow(today) && e.RemainingCount > 0
}
