package model

import "time"

// Student is an academy member who can hold entitlements and book
// slots.  UserID links the student to a login account when one exists;
// students registered by staff over the phone may have none.
type Student struct {
	ID        uint64    // students.id
	UserID    *uint64   // students.user_id (nullable)
	Name      string    // students.name
	Phone     string    // students.phone
	Memo      string    // students.memo
	IsActive  bool      // students.is_active
	CreatedAt time.Time // students.created_at
	UpdatedAt time.Time // students.updated_at
}
