package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/hagwon-ops/academy-booking/internal/booking"
	"github.com/hagwon-ops/academy-booking/internal/model"
)

// MySQL error numbers that indicate the unit of work lost a lock race
// and may be retried by the coordinator.
const (
	mysqlErrDeadlock        = 1213
	mysqlErrLockWaitTimeout = 1205
)

// BookingStore implements booking.Store over MySQL.  Every unit of
// work is one database transaction; the ForUpdate lookups lock the
// entitlement and slot rows with SELECT ... FOR UPDATE so concurrent
// create/cancel calls against the same pair serialize on commit.
type BookingStore struct {
	db *sql.DB
}

// NewBookingStore returns a BookingStore bound to the given database.
func NewBookingStore(db *sql.DB) *BookingStore { return &BookingStore{db: db} }

// InTx runs fn inside one transaction, rolling back unless the whole
// unit commits.  Deadlock and lock-wait failures are translated into
// booking.ErrConcurrencyConflict for the coordinator's bounded retry.
func (s *BookingStore) InTx(ctx context.Context, fn func(tx booking.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&storeTx{tx: tx}); err != nil {
		return mapLockErr(err)
	}
	if err := tx.Commit(); err != nil {
		return mapLockErr(err)
	}
	committed = true
	return nil
}

// mapLockErr rewraps MySQL lock failures as retryable conflicts and
// passes every other error through unchanged.
func mapLockErr(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && (me.Number == mysqlErrDeadlock || me.Number == mysqlErrLockWaitTimeout) {
		return fmt.Errorf("%w: %v", booking.ErrConcurrencyConflict, err)
	}
	return err
}

// storeTx is the booking.Tx view over one open *sql.Tx.
type storeTx struct {
	tx *sql.Tx
}

func (t *storeTx) Student(ctx context.Context, id uint64) (*model.Student, error) {
	const q = `SELECT id, user_id, name, phone, memo, is_active, created_at, updated_at
	           FROM students WHERE id = ?`
	var (
		st     model.Student
		userID sql.NullInt64
	)
	err := t.tx.QueryRowContext(ctx, q, id).Scan(
		&st.ID, &userID, &st.Name, &st.Phone, &st.Memo, &st.IsActive, &st.CreatedAt, &st.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		uid := uint64(userID.Int64)
		st.UserID = &uid
	}
	return &st, nil
}

func (t *storeTx) Course(ctx context.Context, id uint64) (*model.Course, error) {
	const q = `SELECT id, name, max_students, is_active, created_at, updated_at
	           FROM courses WHERE id = ?`
	var c model.Course
	err := t.tx.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.Name, &c.MaxStudents, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SlotForUpdate locks the slot row for the rest of the unit of work.
func (t *storeTx) SlotForUpdate(ctx context.Context, id uint64) (*model.Slot, error) {
	const q = `SELECT id, course_id, slot_date, starts_at, ends_at, current_students,
	                  is_cancelled, cancel_reason, created_at, updated_at
	           FROM slots WHERE id = ? FOR UPDATE`
	var s model.Slot
	err := t.tx.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.CourseID, &s.SlotDate, &s.StartsAt, &s.EndsAt, &s.CurrentStudents,
		&s.IsCancelled, &s.CancelReason, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// EntitlementForUpdate locks the entitlement row for the rest of the
// unit of work.
func (t *storeTx) EntitlementForUpdate(ctx context.Context, id uint64) (*model.Entitlement, error) {
	const q = `SELECT id, student_id, course_id, enrollment_type, start_date, end_date,
	                  total_count, used_count, remaining_count, is_active, memo,
	                  created_at, updated_at
	           FROM entitlements WHERE id = ? FOR UPDATE`
	var e model.Entitlement
	err := t.tx.QueryRowContext(ctx, q, id).Scan(
		&e.ID, &e.StudentID, &e.CourseID, &e.EnrollmentType, &e.StartDate, &e.EndDate,
		&e.TotalCount, &e.UsedCount, &e.RemainingCount, &e.IsActive, &e.Memo,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrEntitlementNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (t *storeTx) Reservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT id, student_id, slot_id, entitlement_id, status, source, memo,
	                  cancel_reason, cancelled_at, created_at, updated_at
	           FROM reservations WHERE id = ? FOR UPDATE`
	var (
		r      model.Reservation
		entID  sql.NullInt64
		cancAt sql.NullTime
	)
	err := t.tx.QueryRowContext(ctx, q, id).Scan(
		&r.ID, &r.StudentID, &r.SlotID, &entID, &r.Status, &r.Source, &r.Memo,
		&r.CancelReason, &cancAt, &r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	if entID.Valid {
		eid := uint64(entID.Int64)
		r.EntitlementID = &eid
	}
	if cancAt.Valid {
		ts := cancAt.Time
		r.CancelledAt = &ts
	}
	return &r, nil
}

func (t *storeTx) SaveEntitlement(ctx context.Context, e *model.Entitlement) error {
	const q = `UPDATE entitlements
	           SET end_date = ?, total_count = ?, used_count = ?, remaining_count = ?,
	               is_active = ?, memo = ?
	           WHERE id = ?`
	_, err := t.tx.ExecContext(ctx, q,
		e.EndDate, e.TotalCount, e.UsedCount, e.RemainingCount, e.IsActive, e.Memo, e.ID)
	return err
}

func (t *storeTx) SaveSlot(ctx context.Context, s *model.Slot) error {
	const q = `UPDATE slots
	           SET current_students = ?, is_cancelled = ?, cancel_reason = ?
	           WHERE id = ?`
	_, err := t.tx.ExecContext(ctx, q, s.CurrentStudents, s.IsCancelled, s.CancelReason, s.ID)
	return err
}

func (t *storeTx) CreateReservation(ctx context.Context, r *model.Reservation) error {
	const q = `INSERT INTO reservations (student_id, slot_id, entitlement_id, status, source, memo)
	           VALUES (?, ?, ?, ?, ?, ?)`
	var entID interface{}
	if r.EntitlementID != nil {
		entID = *r.EntitlementID
	}
	result, err := t.tx.ExecContext(ctx, q, r.StudentID, r.SlotID, entID, r.Status, r.Source, r.Memo)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = uint64(id)
	// Query back DB-default timestamps so callers return a complete row.
	const sel = `SELECT created_at, updated_at FROM reservations WHERE id = ?`
	return t.tx.QueryRowContext(ctx, sel, r.ID).Scan(&r.CreatedAt, &r.UpdatedAt)
}

func (t *storeTx) UpdateReservation(ctx context.Context, r *model.Reservation) error {
	const q = `UPDATE reservations
	           SET status = ?, memo = ?, cancel_reason = ?, cancelled_at = ?
	           WHERE id = ?`
	var cancAt interface{}
	if r.CancelledAt != nil {
		cancAt = *r.CancelledAt
	}
	_, err := t.tx.ExecContext(ctx, q, r.Status, r.Memo, r.CancelReason, cancAt, r.ID)
	return err
}

func (t *storeTx) DeleteReservation(ctx context.Context, id uint64) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	return err
}
