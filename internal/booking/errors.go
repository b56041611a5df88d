// Package booking implements the entitlement ledger, slot capacity
// tracking and the reservation lifecycle.  Business rules live here as
// pure functions over model values; persistence is reached only
// through the Store interface so that invariant checks stay isolated
// from SQL.  Sentinel errors below are compared with errors.Is by the
// HTTP layer to pick response codes.
package booking

import "errors"

// ErrQuotaExhausted is returned when a debit is attempted against an
// entitlement with no remaining lessons or outside its date window.
var ErrQuotaExhausted = errors.New("entitlement quota exhausted")

// ErrSlotFull is returned when a slot already holds as many students
// as the course allows.
var ErrSlotFull = errors.New("slot is full")

// ErrCancellationWindowClosed is returned when a standard cancel is
// attempted at or after 18:00 on the day before the slot's date.
var ErrCancellationWindowClosed = errors.New("cancellation window closed")

// ErrInvalidTransition is returned when a status change is requested
// that the reservation state machine does not permit.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrNegativeQuota is returned when a manual adjustment would push an
// entitlement's counters below zero.
var ErrNegativeQuota = errors.New("adjustment would make quota negative")

// ErrInvalidArgument is returned for missing or nonsensical operation
// arguments (non-positive top-up, end date before start date, ...).
var ErrInvalidArgument = errors.New("invalid argument")

// ErrConcurrencyConflict is returned after the bounded in-process
// retry of a unit of work keeps failing on lock conflicts.  It is the
// only error the coordinator retries internally.
var ErrConcurrencyConflict = errors.New("concurrency conflict")

// ErrNotBookable is returned when the booking window policy rejects
// the slot's date (blocked day or outside the open reservation period).
var ErrNotBookable = errors.New("date not bookable")

// ErrSlotCancelled is returned when a reservation is attempted against
// an administratively cancelled slot.
var ErrSlotCancelled = errors.New("slot is cancelled")

// Not-found sentinels surfaced by Store implementations.  They are
// never retried.
var (
	ErrStudentNotFound     = errors.New("student not found")
	ErrCourseNotFound      = errors.New("course not found")
	ErrSlotNotFound        = errors.New("slot not found")
	ErrEntitlementNotFound = errors.New("entitlement not found")
	ErrReservationNotFound = errors.New("reservation not found")
)
