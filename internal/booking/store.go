package booking

import (
	"context"

	"github.com/hagwon-ops/academy-booking/internal/model"
)

// Tx is the view of the backing store inside one atomic unit of work.
// The ForUpdate lookups must lock the underlying row until the unit
// commits or rolls back, so that the debit-and-reserve pair (and its
// reversal) is serialized per entitlement and slot.
type Tx interface {
	Student(ctx context.Context, id uint64) (*model.Student, error)
	Course(ctx context.Context, id uint64) (*model.Course, error)
	SlotForUpdate(ctx context.Context, id uint64) (*model.Slot, error)
	EntitlementForUpdate(ctx context.Context, id uint64) (*model.Entitlement, error)
	Reservation(ctx context.Context, id uint64) (*model.Reservation, error)

	SaveEntitlement(ctx context.Context, e *model.Entitlement) error
	SaveSlot(ctx context.Context, s *model.Slot) error
	CreateReservation(ctx context.Context, r *model.Reservation) error
	UpdateReservation(ctx context.Context, r *model.Reservation) error
	DeleteReservation(ctx context.Context, id uint64) error
}

// Store runs a function inside one atomic unit of work.  When fn
// returns an error the unit is rolled back and nothing it wrote is
// visible.  Implementations translate their lock/serialization
// failures into ErrConcurrencyConflict so the coordinator can retry.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}
