package model

import "time"

// BlockedDate marks a calendar day on which no reservations may be
// placed (holidays, academy closures).  The booking window policy
// consults these rows before a reservation is created.
type BlockedDate struct {
	ID        uint64    // blocked_dates.id
	BlockedOn time.Time // blocked_dates.blocked_on (date only, UTC midnight)
	Reason    string    // blocked_dates.reason
	CreatedAt time.Time // blocked_dates.created_at
}
