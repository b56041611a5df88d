package booking

import "github.com/hagwon-ops/academy-booking/internal/model"

// ReserveSeat takes one seat in the slot.  maxStudents comes from the
// owning course.  It fails with ErrSlotFull when occupancy has reached
// the cap.
func ReserveSeat(s *model.Slot, maxStudents int) error {
	if s.CurrentStudents >= maxStudents {
		return ErrSlotFull
	}
	s.CurrentStudents++
	return nil
}

// ReleaseSeat frees one seat.  Releasing an empty slot is a no-op so
// that repeated reversals cannot drive occupancy negative.
func ReleaseSeat(s *model.Slot) {
	if s.CurrentStudents == 0 {
		return
	}
	s.CurrentStudents--
}

// CancelSlot marks the slot as cancelled with the given reason.  The
// toggle is independent of occupancy: reservations already made on the
// slot are left untouched.
func CancelSlot(s *model.Slot, reason string) {
	s.IsCancelled = true
	s.CancelReason = reason
}

// RestoreSlot clears the cancelled toggle and its reason.
func RestoreSlot(s *model.Slot) {
	s.IsCancelled = false
	s.CancelReason = ""
}
