package booking

import (
	"context"
	"sync"
	"time"

	"github.com/hagwon-ops/academy-booking/internal/model"
)

// memStore is an in-memory Store for coordinator tests.  A mutex held
// for the whole unit of work serializes transactions the way row locks
// do in the real store; writes are staged on the tx and applied only
// when the unit commits.
type memStore struct {
	mu           sync.Mutex
	students     map[uint64]*model.Student
	courses      map[uint64]*model.Course
	slots        map[uint64]*model.Slot
	entitlements map[uint64]*model.Entitlement
	reservations map[uint64]*model.Reservation
	nextResID    uint64

	// conflicts makes the next N transactions fail with
	// ErrConcurrencyConflict before fn runs, to exercise the retry.
	conflicts int
}

func newMemStore() *memStore {
	return &memStore{
		students:     make(map[uint64]*model.Student),
		courses:      make(map[uint64]*model.Course),
		slots:        make(map[uint64]*model.Slot),
		entitlements: make(map[uint64]*model.Entitlement),
		reservations: make(map[uint64]*model.Reservation),
		nextResID:    1,
	}
}

func (s *memStore) InTx(_ context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conflicts > 0 {
		s.conflicts--
		return ErrConcurrencyConflict
	}
	tx := &memTx{s: s}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

type memTx struct {
	s *memStore

	savedSlots   []*model.Slot
	savedEnts    []*model.Entitlement
	createdRes   []*model.Reservation
	updatedRes   []*model.Reservation
	deletedRes   []uint64
	pendingResID uint64
}

func (t *memTx) Student(_ context.Context, id uint64) (*model.Student, error) {
	st, ok := t.s.students[id]
	if !ok {
		return nil, ErrStudentNotFound
	}
	cp := *st
	return &cp, nil
}

func (t *memTx) Course(_ context.Context, id uint64) (*model.Course, error) {
	co, ok := t.s.courses[id]
	if !ok {
		return nil, ErrCourseNotFound
	}
	cp := *co
	return &cp, nil
}

func (t *memTx) SlotForUpdate(_ context.Context, id uint64) (*model.Slot, error) {
	sl, ok := t.s.slots[id]
	if !ok {
		return nil, ErrSlotNotFound
	}
	cp := *sl
	return &cp, nil
}

func (t *memTx) EntitlementForUpdate(_ context.Context, id uint64) (*model.Entitlement, error) {
	e, ok := t.s.entitlements[id]
	if !ok {
		return nil, ErrEntitlementNotFound
	}
	cp := *e
	return &cp, nil
}

func (t *memTx) Reservation(_ context.Context, id uint64) (*model.Reservation, error) {
	r, ok := t.s.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

func (t *memTx) SaveEntitlement(_ context.Context, e *model.Entitlement) error {
	cp := *e
	t.savedEnts = append(t.savedEnts, &cp)
	return nil
}

func (t *memTx) SaveSlot(_ context.Context, s *model.Slot) error {
	cp := *s
	t.savedSlots = append(t.savedSlots, &cp)
	return nil
}

func (t *memTx) CreateReservation(_ context.Context, r *model.Reservation) error {
	r.ID = t.s.nextResID + t.pendingResID
	t.pendingResID++
	r.CreatedAt = time.Now().UTC()
	r.UpdatedAt = r.CreatedAt
	cp := *r
	t.createdRes = append(t.createdRes, &cp)
	return nil
}

func (t *memTx) UpdateReservation(_ context.Context, r *model.Reservation) error {
	if _, ok := t.s.reservations[r.ID]; !ok {
		return ErrReservationNotFound
	}
	cp := *r
	t.updatedRes = append(t.updatedRes, &cp)
	return nil
}

func (t *memTx) DeleteReservation(_ context.Context, id uint64) error {
	if _, ok := t.s.reservations[id]; !ok {
		return ErrReservationNotFound
	}
	t.deletedRes = append(t.deletedRes, id)
	return nil
}

func (t *memTx) commit() {
	for _, e := range t.savedEnts {
		t.s.entitlements[e.ID] = e
	}
	for _, sl := range t.savedSlots {
		t.s.slots[sl.ID] = sl
	}
	for _, r := range t.createdRes {
		t.s.reservations[r.ID] = r
	}
	t.s.nextResID += t.pendingResID
	for _, r := range t.updatedRes {
		t.s.reservations[r.ID] = r
	}
	for _, id := range t.deletedRes {
		delete(t.s.reservations, id)
	}
}
