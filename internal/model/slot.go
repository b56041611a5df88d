package model

import "time"

// Slot is one bookable occurrence of a course on a particular date,
// bounded by the course's maximum class size.
//
// Fields:
//  ID              – primary key identifier.
//  CourseID        – course this slot belongs to; capacity comes from
//                    the course's MaxStudents.
//  SlotDate        – calendar date of the class (UTC midnight).
//  StartsAt        – lesson start time, DB format "HH:MM:SS".
//  EndsAt          – lesson end time, DB format "HH:MM:SS".
//  CurrentStudents – seats taken; 0 <= CurrentStudents <= MaxStudents.
//  IsCancelled     – administrative cancel toggle.  Cancelling a slot
//                    does not cancel reservations already made on it.
//  CancelReason    – why the slot was cancelled, empty otherwise.
type Slot struct {
	ID              uint64    // slots.id
	CourseID        uint64    // slots.course_id
	SlotDate        time.Time // slots.slot_date (date only, UTC midnight)
	StartsAt        string    // slots.starts_at
	EndsAt          string    // slots.ends_at
	CurrentStudents int       // slots.current_students
	IsCancelled     bool      // slots.is_cancelled
	CancelReason    string    // slots.cancel_reason
	CreatedAt       time.Time // slots.created_at
	UpdatedAt       time.Time // slots.updated_at
}
