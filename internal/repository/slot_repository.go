package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrSlotNotFound indicates that no slot row matched the lookup.
var ErrSlotNotFound = errors.New("slot not found")

// SlotRepo provides read access and scheduling writes for slots.
// Occupancy changes never happen here: current_students moves only
// inside the booking coordinator's unit of work, paired with the
// entitlement debit or credit.
type SlotRepo struct {
	db *sql.DB
}

// NewSlotRepo returns a SlotRepo bound to the given database.
func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{db: db} }

// DB exposes the underlying sql.DB for callers that need to begin
// transactions spanning multiple repositories.
func (r *SlotRepo) DB() *sql.DB { return r.db }

// SlotRecord mirrors the slots table joined with course capacity for
// handler responses.
type SlotRecord struct {
	ID              uint64    `json:"id"`
	CourseID        uint64    `json:"course_id"`
	CourseName      string    `json:"course_name"`
	SlotDate        time.Time `json:"slot_date"`
	StartsAt        string    `json:"starts_at"`
	EndsAt          string    `json:"ends_at"`
	CurrentStudents int       `json:"current_students"`
	MaxStudents     int       `json:"max_students"`
	IsCancelled     bool      `json:"is_cancelled"`
	CancelReason    string    `json:"cancel_reason,omitempty"`
}

// Create inserts a slot scheduled for a course.  starts/ends use the
// DB time format "HH:MM:SS".
func (r *SlotRepo) Create(ctx context.Context, courseID uint64, date time.Time, startsAt, endsAt string) (uint64, error) {
	const q = `INSERT INTO slots (course_id, slot_date, starts_at, ends_at) VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, courseID, date, startsAt, endsAt)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches one slot with its course name and capacity.
func (r *SlotRepo) GetByID(ctx context.Context, id uint64) (*SlotRecord, error) {
	const q = `SELECT s.id, s.course_id, c.name, c.max_students, s.slot_date, s.starts_at,
	                  s.ends_at, s.current_students, s.is_cancelled, s.cancel_reason
	           FROM slots s
	           JOIN courses c ON c.id = s.course_id
	           WHERE s.id = ?`
	var rec SlotRecord
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&rec.ID, &rec.CourseID, &rec.CourseName, &rec.MaxStudents, &rec.SlotDate,
		&rec.StartsAt, &rec.EndsAt, &rec.CurrentStudents, &rec.IsCancelled, &rec.CancelReason,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns slots ordered by date and start time, optionally
// filtered by course and restricted to a date range.  Zero time values
// leave the corresponding bound open.
func (r *SlotRepo) List(ctx context.Context, courseID uint64, from, to time.Time) ([]SlotRecord, error) {
	q := `SELECT s.id, s.course_id, c.name, c.max_students, s.slot_date, s.starts_at,
	             s.ends_at, s.current_students, s.is_cancelled, s.cancel_reason
	      FROM slots s
	      JOIN courses c ON c.id = s.course_id
	      WHERE 1=1`
	args := make([]interface{}, 0, 3)
	if courseID != 0 {
		q += ` AND s.course_id = ?`
		args = append(args, courseID)
	}
	if !from.IsZero() {
		q += ` AND s.slot_date >= ?`
		args = append(args, from)
	}
	if !to.IsZero() {
		q += ` AND s.slot_date <= ?`
		args = append(args, to)
	}
	q += ` ORDER BY s.slot_date, s.starts_at`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]SlotRecord, 0)
	for rows.Next() {
		var rec SlotRecord
		if err := rows.Scan(
			&rec.ID, &rec.CourseID, &rec.CourseName, &rec.MaxStudents, &rec.SlotDate,
			&rec.StartsAt, &rec.EndsAt, &rec.CurrentStudents, &rec.IsCancelled, &rec.CancelReason,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
