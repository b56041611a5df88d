package booking

import (
	"time"

	"github.com/hagwon-ops/academy-booking/internal/model"
)

// Ledger operations mutate an entitlement's counters in place and keep
// the invariants RemainingCount == TotalCount - UsedCount and
// RemainingCount >= 0.  They are pure with respect to persistence: the
// coordinator loads the row, applies one of these functions and saves
// the result inside a single unit of work.

// Debit consumes one lesson.  It fails with ErrQuotaExhausted when the
// entitlement has no lessons remaining or `today` falls outside the
// validity window.  Reaching zero remaining deactivates the row.
func Debit(e *model.Entitlement, today time.Time) error {
	if e.RemainingCount <= 0 || !e.WithinWindow(today) {
		return ErrQuotaExhausted
	}
	e.UsedCount++
	e.RemainingCount--
	if e.RemainingCount == 0 {
		e.IsActive = false
	}
	return nil
}

// Credit returns one lesson, typically on cancellation.  It is a
// deliberate no-op when nothing has been used, so repeated reversals
// can never drive the counters negative.  When the entitlement is
// still inside its window the credit reactivates it.
func Credit(e *model.Entitlement, today time.Time) {
	if e.UsedCount == 0 {
		return
	}
	e.UsedCount--
	e.RemainingCount++
	if e.WithinWindow(today) {
		e.IsActive = true
	}
}

// TopUp grants additional lessons and unconditionally reactivates the
// entitlement.  additional must be positive.
func TopUp(e *model.Entitlement, additional int) error {
	if additional <= 0 {
		return ErrInvalidArgument
	}
	e.TotalCount += additional
	e.RemainingCount += additional
	e.IsActive = true
	return nil
}

// ExtendWindow pushes the end of the validity window to newEndDate.
// The new date must not precede the start date.  An entitlement with
// lessons remaining is reactivated by the extension.
func ExtendWindow(e *model.Entitlement, newEndDate time.Time) error {
	if newEndDate.IsZero() || newEndDate.Before(e.StartDate) {
		return ErrInvalidArgument
	}
	e.EndDate = newEndDate
	if e.RemainingCount > 0 {
		e.IsActive = true
	}
	return nil
}

// ManualAdjust applies a signed correction to both TotalCount and
// RemainingCount, used by staff to fix over- or under-grants.  A zero
// delta is rejected as meaningless; a delta that would push either
// counter below zero fails with ErrNegativeQuota.
func ManualAdjust(e *model.Entitlement, delta int) error {
	if delta == 0 {
		return ErrInvalidArgument
	}
	if e.TotalCount+delta < 0 || e.RemainingCount+delta < 0 {
		return ErrNegativeQuota
	}
	e.TotalCount += delta
	e.RemainingCount += delta
	if e.RemainingCount == 0 {
		e.IsActive = false
	} else if delta > 0 {
		e.IsActive = true
	}
	return nil
}
