package model

import "time"

// Reservation statuses.  A reservation starts CONFIRMED when booked
// directly and PENDING only through the administrative intake path.
// CANCELLED, COMPLETED and NO_SHOW are terminal.
const (
	ReservationPending   = "PENDING"
	ReservationConfirmed = "CONFIRMED"
	ReservationCancelled = "CANCELLED"
	ReservationCompleted = "COMPLETED"
	ReservationNoShow    = "NO_SHOW"
)

// Reservation origin channels recorded in the source column.
const (
	SourceStudent = "STUDENT"
	SourceAdmin   = "ADMIN"
)

// Reservation binds a student to a slot, optionally consuming one
// lesson from an entitlement.  EntitlementID is nil for bookings that
// do not draw on a purchased plan (free trials, externally sourced).
//
// Fields:
//  ID            – primary key identifier.
//  StudentID     – student who is booked.
//  SlotID        – slot being attended.
//  EntitlementID – entitlement debited at creation, if any.
//  Status        – one of the Reservation* constants above.
//  Source        – origin channel (STUDENT, ADMIN).
//  Memo          – free-form note.
//  CancelReason  – why the reservation was cancelled, empty otherwise.
//  CancelledAt   – when the reservation was cancelled.
type Reservation struct {
	ID            uint64     // reservations.id
	StudentID     uint64     // reservations.student_id
	SlotID        uint64     // reservations.slot_id
	EntitlementID *uint64    // reservations.entitlement_id (nullable)
	Status        string     // reservations.status
	Source        string     // reservations.source
	Memo          string     // reservations.memo
	CancelReason  string     // reservations.cancel_reason
	CancelledAt   *time.Time // reservations.cancelled_at (nullable)
	CreatedAt     time.Time  // reservations.created_at
	UpdatedAt     time.Time  // reservations.updated_at
}

// Terminal reports whether the reservation has reached a final state.
func (r *Reservation) Terminal() bool {
	switch r.Status {
	case ReservationCancelled, ReservationCompleted, ReservationNoShow:
		return true
	}
	return false
}
