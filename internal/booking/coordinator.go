package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/hagwon-ops/academy-booking/internal/model"
)

// txAttempts bounds the in-process retry of a unit of work that keeps
// failing on lock conflicts.  After the last attempt the conflict is
// surfaced to the caller.
const txAttempts = 3

// Coordinator orchestrates the entitlement ledger and the slot
// capacity tracker under one atomic unit of work per reservation
// operation.  It is the only component allowed to mutate the
// entitlement counters and the slot occupancy as a pair.
type Coordinator struct {
	store    Store
	policy   BookingWindowPolicy
	notifier Notifier
	clock    Clock
}

// NewCoordinator wires a Coordinator.  notifier and clock may be nil,
// in which case notifications are dropped and the system clock is used.
func NewCoordinator(store Store, policy BookingWindowPolicy, notifier Notifier, clock Clock) *Coordinator {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Coordinator{store: store, policy: policy, notifier: notifier, clock: clock}
}

// run executes fn as one unit of work, retrying bounded times when the
// store reports a serialization conflict.  Business-rule errors are
// never retried.
func (c *Coordinator) run(ctx context.Context, fn func(tx Tx) error) error {
	var err error
	for attempt := 0; attempt < txAttempts; attempt++ {
		err = c.store.InTx(ctx, fn)
		if !errors.Is(err, ErrConcurrencyConflict) {
			return err
		}
	}
	return err
}

// notify delivers a notification fire-and-forget.  Failures are logged
// and never affect the already-committed reservation.
func (c *Coordinator) notify(ctx context.Context, n Notification) {
	if err := c.notifier.Notify(ctx, n); err != nil {
		log.Printf("booking: notify %s for reservation %d failed: %v", n.Kind, n.ReservationID, err)
	}
}

// CreateParams describes a reservation to be created.  EntitlementID
// is nil for bookings that do not consume a purchased plan.  Pending
// is the administrative intake path: the reservation is persisted as
// PENDING and must later be confirmed.
type CreateParams struct {
	StudentID     uint64
	SlotID        uint64
	EntitlementID *uint64
	Source        string
	Memo          string
	Pending       bool
}

// Create books a student into a slot.  Preconditions are checked in
// order, first failure wins: the booking window policy must allow the
// slot's date, then the entitlement (when supplied) is debited, then a
// seat is taken.  The debit and the seat reservation commit or roll
// back together.
func (c *Coordinator) Create(ctx context.Context, p CreateParams) (*model.Reservation, error) {
	var (
		res *model.Reservation
		n   Notification
	)
	err := c.run(ctx, func(tx Tx) error {
		if _, err := tx.Student(ctx, p.StudentID); err != nil {
			return err
		}
		slot, err := tx.SlotForUpdate(ctx, p.SlotID)
		if err != nil {
			return err
		}
		if slot.IsCancelled {
			return ErrSlotCancelled
		}
		course, err := tx.Course(ctx, slot.CourseID)
		if err != nil {
			return err
		}
		ok, err := c.policy.IsBookable(ctx, slot.SlotDate)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotBookable
		}
		if p.EntitlementID != nil {
			ent, err := tx.EntitlementForUpdate(ctx, *p.EntitlementID)
			if err != nil {
				return err
			}
			if ent.StudentID != p.StudentID || ent.CourseID != slot.CourseID {
				return ErrInvalidArgument
			}
			if err := Debit(ent, c.clock.Now()); err != nil {
				return err
			}
			if err := tx.SaveEntitlement(ctx, ent); err != nil {
				return err
			}
		}
		if err := ReserveSeat(slot, course.MaxStudents); err != nil {
			return err
		}
		if err := tx.SaveSlot(ctx, slot); err != nil {
			return err
		}
		status := model.ReservationConfirmed
		if p.Pending {
			status = model.ReservationPending
		}
		res = &model.Reservation{
			StudentID:     p.StudentID,
			SlotID:        p.SlotID,
			EntitlementID: p.EntitlementID,
			Status:        status,
			Source:        p.Source,
			Memo:          p.Memo,
		}
		if err := tx.CreateReservation(ctx, res); err != nil {
			return err
		}
		n = Notification{
			Kind:          NotifyReservationCreated,
			ReservationID: res.ID,
			StudentID:     res.StudentID,
			SlotID:        slot.ID,
			SlotDate:      slot.SlotDate,
			StartsAt:      slot.StartsAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.notify(ctx, n)
	return res, nil
}

// Confirm moves a PENDING reservation to CONFIRMED.  Any other current
// status fails with ErrInvalidTransition; the seat and entitlement
// were already consumed at creation, so there are no counter effects.
func (c *Coordinator) Confirm(ctx context.Context, id uint64) (*model.Reservation, error) {
	var (
		res *model.Reservation
		n   Notification
	)
	err := c.run(ctx, func(tx Tx) error {
		r, err := tx.Reservation(ctx, id)
		if err != nil {
			return err
		}
		if r.Status != model.ReservationPending {
			return ErrInvalidTransition
		}
		r.Status = model.ReservationConfirmed
		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}
		res = r
		n = Notification{
			Kind:          NotifyReservationConfirmed,
			ReservationID: r.ID,
			StudentID:     r.StudentID,
			SlotID:        r.SlotID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.notify(ctx, n)
	return res, nil
}

// reverseSideEffects credits the backing entitlement (when present)
// and releases the slot seat.  It is the single reversal path shared
// by Cancel, ForceCancel and Delete, which differ only in their
// preconditions.
func (c *Coordinator) reverseSideEffects(ctx context.Context, tx Tx, r *model.Reservation) error {
	slot, err := tx.SlotForUpdate(ctx, r.SlotID)
	if err != nil {
		return err
	}
	if r.EntitlementID != nil {
		ent, err := tx.EntitlementForUpdate(ctx, *r.EntitlementID)
		if err != nil {
			return err
		}
		Credit(ent, c.clock.Now())
		if err := tx.SaveEntitlement(ctx, ent); err != nil {
			return err
		}
	}
	ReleaseSeat(slot)
	return tx.SaveSlot(ctx, slot)
}

// Cancel performs a student-initiated cancellation of a CONFIRMED
// reservation.  It is allowed only strictly before 18:00 on the day
// before the slot's date; past that instant it fails with
// ErrCancellationWindowClosed and the counters are left untouched.
func (c *Coordinator) Cancel(ctx context.Context, id uint64, reason string) (*model.Reservation, error) {
	return c.cancel(ctx, id, reason, false)
}

// ForceCancel is the administrative override: it cancels any
// non-terminal reservation with the same side effects as Cancel but
// without the deadline check.
func (c *Coordinator) ForceCancel(ctx context.Context, id uint64, reason string) (*model.Reservation, error) {
	return c.cancel(ctx, id, reason, true)
}

func (c *Coordinator) cancel(ctx context.Context, id uint64, reason string, force bool) (*model.Reservation, error) {
	var (
		res *model.Reservation
		n   Notification
	)
	err := c.run(ctx, func(tx Tx) error {
		r, err := tx.Reservation(ctx, id)
		if err != nil {
			return err
		}
		if force {
			if r.Terminal() {
				return ErrInvalidTransition
			}
		} else if r.Status != model.ReservationConfirmed {
			return ErrInvalidTransition
		}
		slot, err := tx.SlotForUpdate(ctx, r.SlotID)
		if err != nil {
			return err
		}
		now := c.clock.Now()
		if !force && !CancelAllowed(now, slot.SlotDate) {
			return ErrCancellationWindowClosed
		}
		if err := c.reverseSideEffects(ctx, tx, r); err != nil {
			return err
		}
		r.Status = model.ReservationCancelled
		r.CancelReason = reason
		r.CancelledAt = &now
		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}
		res = r
		n = Notification{
			Kind:          NotifyReservationCancelled,
			ReservationID: r.ID,
			StudentID:     r.StudentID,
			SlotID:        slot.ID,
			SlotDate:      slot.SlotDate,
			StartsAt:      slot.StartsAt,
			Reason:        reason,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.notify(ctx, n)
	return res, nil
}

// Complete marks an attended CONFIRMED reservation as COMPLETED.  The
// seat and entitlement consumption happened at creation, so nothing
// else changes.
func (c *Coordinator) Complete(ctx context.Context, id uint64) (*model.Reservation, error) {
	return c.finish(ctx, id, model.ReservationCompleted)
}

// MarkNoShow marks a CONFIRMED reservation as NO_SHOW.  No-shows are
// not refunded: the debited lesson stays consumed.
func (c *Coordinator) MarkNoShow(ctx context.Context, id uint64) (*model.Reservation, error) {
	return c.finish(ctx, id, model.ReservationNoShow)
}

func (c *Coordinator) finish(ctx context.Context, id uint64, status string) (*model.Reservation, error) {
	var res *model.Reservation
	err := c.run(ctx, func(tx Tx) error {
		r, err := tx.Reservation(ctx, id)
		if err != nil {
			return err
		}
		if r.Status != model.ReservationConfirmed {
			return ErrInvalidTransition
		}
		r.Status = status
		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Delete removes a reservation record entirely, reversing the credit
// and seat side effects first.  It exists for correcting erroneous
// bookings and does not gate on the cancellation deadline.  Side
// effects are reversed only for non-terminal reservations: a CANCELLED
// one was already reversed, and COMPLETED/NO_SHOW consumption stands.
func (c *Coordinator) Delete(ctx context.Context, id uint64) error {
	return c.run(ctx, func(tx Tx) error {
		r, err := tx.Reservation(ctx, id)
		if err != nil {
			return err
		}
		if !r.Terminal() {
			if err := c.reverseSideEffects(ctx, tx, r); err != nil {
				return err
			}
		}
		return tx.DeleteReservation(ctx, r.ID)
	})
}

// TopUpEntitlement grants additional lessons to an entitlement.
func (c *Coordinator) TopUpEntitlement(ctx context.Context, id uint64, count int) (*model.Entitlement, error) {
	return c.mutateEntitlement(ctx, id, func(e *model.Entitlement) error {
		return TopUp(e, count)
	})
}

// ExtendEntitlementWindow pushes an entitlement's end date forward.
func (c *Coordinator) ExtendEntitlementWindow(ctx context.Context, id uint64, newEndDate time.Time) (*model.Entitlement, error) {
	return c.mutateEntitlement(ctx, id, func(e *model.Entitlement) error {
		return ExtendWindow(e, newEndDate)
	})
}

// AdjustEntitlement applies a signed manual correction to an
// entitlement's counters, recording the reason in the memo.
func (c *Coordinator) AdjustEntitlement(ctx context.Context, id uint64, delta int, reason string) (*model.Entitlement, error) {
	return c.mutateEntitlement(ctx, id, func(e *model.Entitlement) error {
		if err := ManualAdjust(e, delta); err != nil {
			return err
		}
		if reason != "" {
			e.Memo = reason
		}
		return nil
	})
}

func (c *Coordinator) mutateEntitlement(ctx context.Context, id uint64, op func(e *model.Entitlement) error) (*model.Entitlement, error) {
	var ent *model.Entitlement
	err := c.run(ctx, func(tx Tx) error {
		e, err := tx.EntitlementForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := op(e); err != nil {
			return err
		}
		if err := tx.SaveEntitlement(ctx, e); err != nil {
			return err
		}
		ent = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ent, nil
}

// CancelSlot marks a slot as cancelled.  Existing reservations on the
// slot are intentionally left untouched; staff force-cancel them one
// by one when a refund is wanted.
func (c *Coordinator) CancelSlot(ctx context.Context, id uint64, reason string) (*model.Slot, error) {
	return c.mutateSlot(ctx, id, func(s *model.Slot) { CancelSlot(s, reason) })
}

// RestoreSlot clears a slot's cancelled toggle.
func (c *Coordinator) RestoreSlot(ctx context.Context, id uint64) (*model.Slot, error) {
	return c.mutateSlot(ctx, id, RestoreSlot)
}

func (c *Coordinator) mutateSlot(ctx context.Context, id uint64, op func(s *model.Slot)) (*model.Slot, error) {
	var slot *model.Slot
	err := c.run(ctx, func(tx Tx) error {
		s, err := tx.SlotForUpdate(ctx, id)
		if err != nil {
			return err
		}
		op(s)
		if err := tx.SaveSlot(ctx, s); err != nil {
			return err
		}
		slot = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return slot, nil
}
