package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hagwon-ops/academy-booking/internal/model"
)

// stepClock is a settable Clock so tests can move time past the
// cancellation deadline.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// fixture ids
const (
	studentID     = uint64(1)
	otherStudent  = uint64(2)
	courseID      = uint64(10)
	otherCourseID = uint64(11)
	slotID        = uint64(100)
	entID         = uint64(1000)
)

// newFixture seeds a store with one student, one course capped at two
// students, one slot on 2026-04-10 and one 8-lesson entitlement, with
// the clock at noon on 2026-04-01.
func newFixture() (*Coordinator, *memStore, *stepClock) {
	store := newMemStore()
	store.students[studentID] = &model.Student{ID: studentID, Name: "Mina", IsActive: true}
	store.students[otherStudent] = &model.Student{ID: otherStudent, Name: "Jun", IsActive: true}
	store.courses[courseID] = &model.Course{ID: courseID, Name: "math", MaxStudents: 2, IsActive: true}
	store.courses[otherCourseID] = &model.Course{ID: otherCourseID, Name: "english", MaxStudents: 2, IsActive: true}
	store.slots[slotID] = &model.Slot{
		ID:       slotID,
		CourseID: courseID,
		SlotDate: day(2026, 4, 10),
		StartsAt: "16:00:00",
		EndsAt:   "17:30:00",
	}
	store.entitlements[entID] = testEntitlement()
	store.entitlements[entID].ID = entID
	store.entitlements[entID].StudentID = studentID
	store.entitlements[entID].CourseID = courseID

	clock := &stepClock{now: time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)}
	policy := NewWindowPolicy(fakeBlockedDates{}, clock, 30)
	return NewCoordinator(store, policy, nil, clock), store, clock
}

func entRef(id uint64) *uint64 { return &id }

func studentCreate() CreateParams {
	return CreateParams{
		StudentID:     studentID,
		SlotID:        slotID,
		EntitlementID: entRef(entID),
		Source:        model.SourceStudent,
	}
}

func TestCreateDebitsAndSeats(t *testing.T) {
	coord, store, _ := newFixture()
	res, err := coord.Create(context.Background(), studentCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.Status != model.ReservationConfirmed {
		t.Errorf("status=%s, want CONFIRMED", res.Status)
	}
	if res.ID == 0 {
		t.Error("reservation id not assigned")
	}
	if ent := store.entitlements[entID]; ent.RemainingCount != 7 || ent.UsedCount != 1 {
		t.Errorf("entitlement used/remaining=%d/%d, want 1/7", ent.UsedCount, ent.RemainingCount)
	}
	if sl := store.slots[slotID]; sl.CurrentStudents != 1 {
		t.Errorf("occupancy=%d, want 1", sl.CurrentStudents)
	}
}

func TestCreateThenCancelRoundTrip(t *testing.T) {
	coord, store, _ := newFixture()
	ctx := context.Background()
	res, err := coord.Create(ctx, studentCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Well before 18:00 on 2026-04-09, so the cancel must succeed.
	cancelled, err := coord.Cancel(ctx, res.ID, "schedule clash")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != model.ReservationCancelled {
		t.Errorf("status=%s, want CANCELLED", cancelled.Status)
	}
	if cancelled.CancelReason != "schedule clash" || cancelled.CancelledAt == nil {
		t.Errorf("cancel metadata missing: reason=%q at=%v", cancelled.CancelReason, cancelled.CancelledAt)
	}
	if ent := store.entitlements[entID]; ent.RemainingCount != 8 || ent.UsedCount != 0 {
		t.Errorf("entitlement not refunded: used/remaining=%d/%d", ent.UsedCount, ent.RemainingCount)
	}
	if sl := store.slots[slotID]; sl.CurrentStudents != 0 {
		t.Errorf("seat not released: occupancy=%d", sl.CurrentStudents)
	}

	// Booking again with the same entitlement costs exactly one net lesson.
	if _, err := coord.Create(ctx, studentCreate()); err != nil {
		t.Fatalf("second create: %v", err)
	}
	if ent := store.entitlements[entID]; ent.RemainingCount != 7 || ent.UsedCount != 1 {
		t.Errorf("used/remaining=%d/%d after re-book, want 1/7", ent.UsedCount, ent.RemainingCount)
	}
	if sl := store.slots[slotID]; sl.CurrentStudents != 1 {
		t.Errorf("occupancy=%d after re-book, want 1", sl.CurrentStudents)
	}
}

func TestCreateRollsBackDebitWhenSlotFull(t *testing.T) {
	coord, store, _ := newFixture()
	store.slots[slotID].CurrentStudents = 2 // at the course cap

	_, err := coord.Create(context.Background(), studentCreate())
	if !errors.Is(err, ErrSlotFull) {
		t.Fatalf("got %v, want ErrSlotFull", err)
	}
	if ent := store.entitlements[entID]; ent.RemainingCount != 8 || ent.UsedCount != 0 {
		t.Errorf("debit leaked on failed create: used/remaining=%d/%d", ent.UsedCount, ent.RemainingCount)
	}
}

func TestCreateQuotaExhaustedTakesNoSeat(t *testing.T) {
	coord, store, _ := newFixture()
	store.entitlements[entID].RemainingCount = 0
	store.entitlements[entID].UsedCount = 8
	store.entitlements[entID].IsActive = false

	_, err := coord.Create(context.Background(), studentCreate())
	if !errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("got %v, want ErrQuotaExhausted", err)
	}
	if sl := store.slots[slotID]; sl.CurrentStudents != 0 {
		t.Errorf("seat leaked on failed debit: occupancy=%d", sl.CurrentStudents)
	}
}

func TestCreatePreconditions(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown student", func(t *testing.T) {
		coord, _, _ := newFixture()
		p := studentCreate()
		p.StudentID = 99
		if _, err := coord.Create(ctx, p); !errors.Is(err, ErrStudentNotFound) {
			t.Errorf("got %v, want ErrStudentNotFound", err)
		}
	})

	t.Run("cancelled slot", func(t *testing.T) {
		coord, store, _ := newFixture()
		store.slots[slotID].IsCancelled = true
		if _, err := coord.Create(ctx, studentCreate()); !errors.Is(err, ErrSlotCancelled) {
			t.Errorf("got %v, want ErrSlotCancelled", err)
		}
	})

	t.Run("entitlement of another student", func(t *testing.T) {
		coord, _, _ := newFixture()
		p := studentCreate()
		p.StudentID = otherStudent
		if _, err := coord.Create(ctx, p); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("got %v, want ErrInvalidArgument", err)
		}
	})

	t.Run("entitlement of another course", func(t *testing.T) {
		coord, store, _ := newFixture()
		store.entitlements[entID].CourseID = otherCourseID
		if _, err := coord.Create(ctx, studentCreate()); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("got %v, want ErrInvalidArgument", err)
		}
	})

	t.Run("slot date not bookable", func(t *testing.T) {
		coord, store, _ := newFixture()
		store.slots[slotID].SlotDate = day(2026, 6, 1) // beyond the 30 day lead
		if _, err := coord.Create(ctx, studentCreate()); !errors.Is(err, ErrNotBookable) {
			t.Errorf("got %v, want ErrNotBookable", err)
		}
	})
}

func TestCreateWithoutEntitlement(t *testing.T) {
	coord, store, _ := newFixture()
	res, err := coord.Create(context.Background(), CreateParams{
		StudentID: studentID,
		SlotID:    slotID,
		Source:    model.SourceAdmin,
		Memo:      "trial lesson",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.EntitlementID != nil {
		t.Error("trial booking should carry no entitlement")
	}
	if ent := store.entitlements[entID]; ent.RemainingCount != 8 {
		t.Errorf("entitlement touched by trial booking: remaining=%d", ent.RemainingCount)
	}
	if sl := store.slots[slotID]; sl.CurrentStudents != 1 {
		t.Errorf("occupancy=%d, want 1", sl.CurrentStudents)
	}
}

func TestPendingIntakeAndConfirm(t *testing.T) {
	coord, _, _ := newFixture()
	ctx := context.Background()
	res, err := coord.Create(ctx, CreateParams{
		StudentID:     studentID,
		SlotID:        slotID,
		EntitlementID: entRef(entID),
		Source:        model.SourceAdmin,
		Pending:       true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.Status != model.ReservationPending {
		t.Fatalf("status=%s, want PENDING", res.Status)
	}

	confirmed, err := coord.Confirm(ctx, res.ID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != model.ReservationConfirmed {
		t.Errorf("status=%s, want CONFIRMED", confirmed.Status)
	}
	// Confirming twice is a transition error.
	if _, err := coord.Confirm(ctx, res.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("double confirm: got %v, want ErrInvalidTransition", err)
	}
}

func TestCancelAfterDeadline(t *testing.T) {
	coord, store, clock := newFixture()
	ctx := context.Background()
	res, err := coord.Create(ctx, studentCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// 18:00:00 on the day before the slot: already closed.
	clock.Set(time.Date(2026, 4, 9, 18, 0, 0, 0, time.UTC))
	if _, err := coord.Cancel(ctx, res.ID, "too late"); !errors.Is(err, ErrCancellationWindowClosed) {
		t.Fatalf("got %v, want ErrCancellationWindowClosed", err)
	}
	if ent := store.entitlements[entID]; ent.UsedCount != 1 {
		t.Errorf("failed cancel changed entitlement: used=%d", ent.UsedCount)
	}

	// Staff override still refunds.
	forced, err := coord.ForceCancel(ctx, res.ID, "family emergency")
	if err != nil {
		t.Fatalf("force cancel: %v", err)
	}
	if forced.Status != model.ReservationCancelled {
		t.Errorf("status=%s, want CANCELLED", forced.Status)
	}
	if ent := store.entitlements[entID]; ent.RemainingCount != 8 {
		t.Errorf("force cancel did not refund: remaining=%d", ent.RemainingCount)
	}
	if sl := store.slots[slotID]; sl.CurrentStudents != 0 {
		t.Errorf("force cancel did not release seat: occupancy=%d", sl.CurrentStudents)
	}
}

func TestCancelRequiresConfirmed(t *testing.T) {
	coord, _, _ := newFixture()
	ctx := context.Background()
	res, err := coord.Create(ctx, CreateParams{
		StudentID:     studentID,
		SlotID:        slotID,
		EntitlementID: entRef(entID),
		Source:        model.SourceAdmin,
		Pending:       true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := coord.Cancel(ctx, res.ID, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("cancel of PENDING: got %v, want ErrInvalidTransition", err)
	}
	// The override may drop a pending intake.
	if _, err := coord.ForceCancel(ctx, res.ID, "intake withdrawn"); err != nil {
		t.Errorf("force cancel of PENDING: %v", err)
	}
}

func TestNoShowConsumesLesson(t *testing.T) {
	coord, store, _ := newFixture()
	ctx := context.Background()
	res, err := coord.Create(ctx, studentCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	marked, err := coord.MarkNoShow(ctx, res.ID)
	if err != nil {
		t.Fatalf("no-show: %v", err)
	}
	if marked.Status != model.ReservationNoShow {
		t.Errorf("status=%s, want NO_SHOW", marked.Status)
	}
	// No refund on no-show: exactly one lesson spent.
	if ent := store.entitlements[entID]; ent.UsedCount != 1 || ent.RemainingCount != 7 {
		t.Errorf("used/remaining=%d/%d, want 1/7", ent.UsedCount, ent.RemainingCount)
	}
	// Terminal: no further transitions.
	if _, err := coord.Cancel(ctx, res.ID, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("cancel after no-show: got %v, want ErrInvalidTransition", err)
	}
	if _, err := coord.ForceCancel(ctx, res.ID, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("force cancel after no-show: got %v, want ErrInvalidTransition", err)
	}
	if _, err := coord.Complete(ctx, res.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("complete after no-show: got %v, want ErrInvalidTransition", err)
	}
}

func TestCompleteTransition(t *testing.T) {
	coord, _, _ := newFixture()
	ctx := context.Background()
	res, err := coord.Create(ctx, studentCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	done, err := coord.Complete(ctx, res.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != model.ReservationCompleted {
		t.Errorf("status=%s, want COMPLETED", done.Status)
	}
}

func TestDeleteReversesActiveReservation(t *testing.T) {
	coord, store, _ := newFixture()
	ctx := context.Background()
	res, err := coord.Create(ctx, studentCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := coord.Delete(ctx, res.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := store.reservations[res.ID]; ok {
		t.Error("reservation row still present after delete")
	}
	if ent := store.entitlements[entID]; ent.RemainingCount != 8 {
		t.Errorf("delete did not refund: remaining=%d", ent.RemainingCount)
	}
	if sl := store.slots[slotID]; sl.CurrentStudents != 0 {
		t.Errorf("delete did not release seat: occupancy=%d", sl.CurrentStudents)
	}
}

func TestDeleteCancelledDoesNotDoubleCredit(t *testing.T) {
	coord, store, _ := newFixture()
	ctx := context.Background()
	res, err := coord.Create(ctx, studentCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := coord.Cancel(ctx, res.ID, "clash"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := coord.Delete(ctx, res.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if ent := store.entitlements[entID]; ent.RemainingCount != 8 || ent.UsedCount != 0 {
		t.Errorf("double credit: used/remaining=%d/%d, want 0/8", ent.UsedCount, ent.RemainingCount)
	}
	if sl := store.slots[slotID]; sl.CurrentStudents != 0 {
		t.Errorf("occupancy=%d, want 0", sl.CurrentStudents)
	}
}

func TestRetryOnConcurrencyConflict(t *testing.T) {
	coord, store, _ := newFixture()
	store.conflicts = 2 // two conflicts, third attempt lands
	if _, err := coord.Create(context.Background(), studentCreate()); err != nil {
		t.Fatalf("create with retries: %v", err)
	}

	coord2, store2, _ := newFixture()
	store2.conflicts = 3 // retry budget exhausted
	if _, err := coord2.Create(context.Background(), studentCreate()); !errors.Is(err, ErrConcurrencyConflict) {
		t.Errorf("got %v, want ErrConcurrencyConflict", err)
	}
}

func TestLastSeatRace(t *testing.T) {
	coord, store, _ := newFixture()
	store.slots[slotID].CurrentStudents = 1 // one seat left of two

	// Second student needs their own entitlement for the course.
	otherEnt := testEntitlement()
	otherEnt.ID = entID + 1
	otherEnt.StudentID = otherStudent
	otherEnt.CourseID = courseID
	store.entitlements[otherEnt.ID] = otherEnt

	params := []CreateParams{
		studentCreate(),
		{StudentID: otherStudent, SlotID: slotID, EntitlementID: entRef(otherEnt.ID), Source: model.SourceStudent},
	}

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range params {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = coord.Create(context.Background(), params[i])
		}(i)
	}
	wg.Wait()

	var okCount, fullCount int
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, ErrSlotFull):
			fullCount++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if okCount != 1 || fullCount != 1 {
		t.Errorf("got %d successes and %d slot-full, want exactly 1 and 1", okCount, fullCount)
	}
	if sl := store.slots[slotID]; sl.CurrentStudents != 2 {
		t.Errorf("occupancy=%d, want 2", sl.CurrentStudents)
	}
	// Exactly one of the two entitlements was debited.
	debits := 0
	for _, id := range []uint64{entID, otherEnt.ID} {
		debits += store.entitlements[id].UsedCount
	}
	if debits != 1 {
		t.Errorf("total debits=%d, want 1", debits)
	}
}

func TestEntitlementMutationsThroughCoordinator(t *testing.T) {
	coord, store, _ := newFixture()
	ctx := context.Background()

	e, err := coord.TopUpEntitlement(ctx, entID, 4)
	if err != nil {
		t.Fatalf("topup: %v", err)
	}
	if e.TotalCount != 12 {
		t.Errorf("total=%d, want 12", e.TotalCount)
	}

	e, err = coord.ExtendEntitlementWindow(ctx, entID, day(2026, 7, 31))
	if err != nil {
		t.Fatalf("extend: %v", err)
	}
	if !e.EndDate.Equal(day(2026, 7, 31)) {
		t.Errorf("end=%s, want 2026-07-31", e.EndDate.Format("2006-01-02"))
	}

	e, err = coord.AdjustEntitlement(ctx, entID, -2, "billing correction")
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if e.TotalCount != 10 || e.Memo != "billing correction" {
		t.Errorf("total=%d memo=%q, want 10 / billing correction", e.TotalCount, e.Memo)
	}
	if got := store.entitlements[entID]; got.TotalCount != 10 {
		t.Errorf("persisted total=%d, want 10", got.TotalCount)
	}

	if _, err := coord.AdjustEntitlement(ctx, entID, -99, ""); !errors.Is(err, ErrNegativeQuota) {
		t.Errorf("got %v, want ErrNegativeQuota", err)
	}
}

func TestSlotCancelRestoreThroughCoordinator(t *testing.T) {
	coord, store, _ := newFixture()
	ctx := context.Background()

	s, err := coord.CancelSlot(ctx, slotID, "teacher away")
	if err != nil {
		t.Fatalf("cancel slot: %v", err)
	}
	if !s.IsCancelled || s.CancelReason != "teacher away" {
		t.Errorf("cancel slot: cancelled=%v reason=%q", s.IsCancelled, s.CancelReason)
	}
	if _, err := coord.Create(ctx, studentCreate()); !errors.Is(err, ErrSlotCancelled) {
		t.Errorf("booking into cancelled slot: got %v, want ErrSlotCancelled", err)
	}

	s, err = coord.RestoreSlot(ctx, slotID)
	if err != nil {
		t.Fatalf("restore slot: %v", err)
	}
	if s.IsCancelled {
		t.Error("slot still cancelled after restore")
	}
	if _, err := coord.Create(ctx, studentCreate()); err != nil {
		t.Errorf("booking after restore: %v", err)
	}
	if sl := store.slots[slotID]; sl.CurrentStudents != 1 {
		t.Errorf("occupancy=%d, want 1", sl.CurrentStudents)
	}
}
