// Package queue defines message payloads exchanged over the message
// broker and the background consumer that delivers them.
package queue

// ReservationEvent is published whenever a reservation is created,
// confirmed or cancelled.  It carries enough detail for downstream
// consumers (SMS gateway, activity log) to act without querying the
// primary database.
type ReservationEvent struct {
	Kind          string `json:"kind"`
	ReservationID uint64 `json:"reservation_id"`
	StudentID     uint64 `json:"student_id"`
	SlotID        uint64 `json:"slot_id"`
	SlotDate      string `json:"slot_date,omitempty"`
	StartsAt      string `json:"starts_at,omitempty"`
	Reason        string `json:"reason,omitempty"`
	OccurredAt    string `json:"occurred_at"`
}
