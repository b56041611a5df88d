package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrReservationNotFound indicates that no reservation row matched.
var ErrReservationNotFound = errors.New("reservation not found")

// ReservationRepo provides read access to reservations for listing and
// detail endpoints.  Status changes and deletion go through the
// booking coordinator, which pairs them with the counter reversals.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// ReservationDetail joins a reservation with its slot and course
// information for display.
type ReservationDetail struct {
	ID            uint64     `json:"id"`
	StudentID     uint64     `json:"student_id"`
	StudentName   string     `json:"student_name"`
	SlotID        uint64     `json:"slot_id"`
	SlotDate      time.Time  `json:"slot_date"`
	StartsAt      string     `json:"starts_at"`
	EndsAt        string     `json:"ends_at"`
	CourseID      uint64     `json:"course_id"`
	CourseName    string     `json:"course_name"`
	EntitlementID *uint64    `json:"entitlement_id,omitempty"`
	Status        string     `json:"status"`
	Source        string     `json:"source"`
	Memo          string     `json:"memo,omitempty"`
	CancelReason  string     `json:"cancel_reason,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

const detailSelect = `SELECT r.id, r.student_id, st.name, r.slot_id, s.slot_date, s.starts_at,
	       s.ends_at, s.course_id, c.name, r.entitlement_id, r.status, r.source,
	       r.memo, r.cancel_reason, r.cancelled_at, r.created_at
	FROM reservations r
	JOIN students st ON st.id = r.student_id
	JOIN slots s ON s.id = r.slot_id
	JOIN courses c ON c.id = s.course_id`

func scanDetail(row interface{ Scan(...interface{}) error }) (*ReservationDetail, error) {
	var (
		d      ReservationDetail
		entID  sql.NullInt64
		cancAt sql.NullTime
	)
	err := row.Scan(
		&d.ID, &d.StudentID, &d.StudentName, &d.SlotID, &d.SlotDate, &d.StartsAt,
		&d.EndsAt, &d.CourseID, &d.CourseName, &entID, &d.Status, &d.Source,
		&d.Memo, &d.CancelReason, &cancAt, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if entID.Valid {
		eid := uint64(entID.Int64)
		d.EntitlementID = &eid
	}
	if cancAt.Valid {
		ts := cancAt.Time
		d.CancelledAt = &ts
	}
	return &d, nil
}

// GetByID fetches one reservation detail.  Returns
// ErrReservationNotFound when the row does not exist.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*ReservationDetail, error) {
	d, err := scanDetail(r.db.QueryRowContext(ctx, detailSelect+` WHERE r.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// GetByIDForStudent fetches one reservation detail, enforcing that it
// belongs to the given student.  ErrForbidden is returned when it
// belongs to someone else.
func (r *ReservationRepo) GetByIDForStudent(ctx context.Context, id, studentID uint64) (*ReservationDetail, error) {
	d, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.StudentID != studentID {
		return nil, ErrForbidden
	}
	return d, nil
}

// ListByStudent returns all reservations of a student, newest first.
func (r *ReservationRepo) ListByStudent(ctx context.Context, studentID uint64) ([]ReservationDetail, error) {
	return r.list(ctx, detailSelect+` WHERE r.student_id = ? ORDER BY r.created_at DESC`, studentID)
}

// ListBySlot returns all reservations against a slot, newest first.
// Used by staff to review a class roster.
func (r *ReservationRepo) ListBySlot(ctx context.Context, slotID uint64) ([]ReservationDetail, error) {
	return r.list(ctx, detailSelect+` WHERE r.slot_id = ? ORDER BY r.created_at DESC`, slotID)
}

func (r *ReservationRepo) list(ctx context.Context, q string, arg uint64) ([]ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ReservationDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}
