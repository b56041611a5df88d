package booking

import (
	"errors"
	"testing"

	"github.com/hagwon-ops/academy-booking/internal/model"
)

func TestReserveSeatUpToCapacity(t *testing.T) {
	s := &model.Slot{ID: 1, CourseID: 2}
	for i := 0; i < 3; i++ {
		if err := ReserveSeat(s, 3); err != nil {
			t.Fatalf("seat %d: %v", i+1, err)
		}
	}
	if s.CurrentStudents != 3 {
		t.Errorf("occupancy=%d, want 3", s.CurrentStudents)
	}
	if err := ReserveSeat(s, 3); !errors.Is(err, ErrSlotFull) {
		t.Errorf("over capacity: got %v, want ErrSlotFull", err)
	}
	if s.CurrentStudents != 3 {
		t.Errorf("failed reserve changed occupancy to %d", s.CurrentStudents)
	}
}

func TestReleaseSeatFloorsAtZero(t *testing.T) {
	s := &model.Slot{CurrentStudents: 1}
	ReleaseSeat(s)
	if s.CurrentStudents != 0 {
		t.Errorf("occupancy=%d, want 0", s.CurrentStudents)
	}
	ReleaseSeat(s)
	if s.CurrentStudents != 0 {
		t.Errorf("release on empty slot drove occupancy to %d", s.CurrentStudents)
	}
}

func TestCancelAndRestoreSlot(t *testing.T) {
	s := &model.Slot{}
	CancelSlot(s, "teacher sick")
	if !s.IsCancelled || s.CancelReason != "teacher sick" {
		t.Errorf("cancel: got cancelled=%v reason=%q", s.IsCancelled, s.CancelReason)
	}
	RestoreSlot(s)
	if s.IsCancelled || s.CancelReason != "" {
		t.Errorf("restore: got cancelled=%v reason=%q", s.IsCancelled, s.CancelReason)
	}
}
