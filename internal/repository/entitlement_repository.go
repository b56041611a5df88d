package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrEntitlementNotFound indicates that no entitlement row matched.
var ErrEntitlementNotFound = errors.New("entitlement not found")

// EntitlementRepo provides read access and creation for entitlements.
// Counter mutations never happen here: they go through the booking
// coordinator's unit of work so the ledger invariants hold.
type EntitlementRepo struct {
	db *sql.DB
}

// NewEntitlementRepo returns an EntitlementRepo bound to the database.
func NewEntitlementRepo(db *sql.DB) *EntitlementRepo { return &EntitlementRepo{db: db} }

// EntitlementRecord mirrors the entitlements table for responses.
type EntitlementRecord struct {
	ID             uint64    `json:"id"`
	StudentID      uint64    `json:"student_id"`
	CourseID       uint64    `json:"course_id"`
	CourseName     string    `json:"course_name,omitempty"`
	EnrollmentType string    `json:"enrollment_type"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	TotalCount     int       `json:"total_count"`
	UsedCount      int       `json:"used_count"`
	RemainingCount int       `json:"remaining_count"`
	IsActive       bool      `json:"is_active"`
	Memo           string    `json:"memo,omitempty"`
}

// Create inserts a new entitlement when a student registers a course
// plan.  remaining_count starts equal to total_count.
func (r *EntitlementRepo) Create(ctx context.Context, e *EntitlementRecord) error {
	const q = `INSERT INTO entitlements
	           (student_id, course_id, enrollment_type, start_date, end_date,
	            total_count, used_count, remaining_count, is_active, memo)
	           VALUES (?, ?, ?, ?, ?, ?, 0, ?, 1, ?)`
	result, err := r.db.ExecContext(ctx, q,
		e.StudentID, e.CourseID, e.EnrollmentType, e.StartDate, e.EndDate,
		e.TotalCount, e.TotalCount, e.Memo)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	e.UsedCount = 0
	e.RemainingCount = e.TotalCount
	e.IsActive = true
	return nil
}

// GetByID fetches one entitlement with its course name.
func (r *EntitlementRepo) GetByID(ctx context.Context, id uint64) (*EntitlementRecord, error) {
	const q = `SELECT e.id, e.student_id, e.course_id, c.name, e.enrollment_type,
	                  e.start_date, e.end_date, e.total_count, e.used_count,
	                  e.remaining_count, e.is_active, e.memo
	           FROM entitlements e
	           JOIN courses c ON c.id = e.course_id
	           WHERE e.id = ?`
	var rec EntitlementRecord
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&rec.ID, &rec.StudentID, &rec.CourseID, &rec.CourseName, &rec.EnrollmentType,
		&rec.StartDate, &rec.EndDate, &rec.TotalCount, &rec.UsedCount,
		&rec.RemainingCount, &rec.IsActive, &rec.Memo,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntitlementNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByStudent returns all entitlements of a student, newest first.
func (r *EntitlementRepo) ListByStudent(ctx context.Context, studentID uint64) ([]EntitlementRecord, error) {
	const q = `SELECT e.id, e.student_id, e.course_id, c.name, e.enrollment_type,
	                  e.start_date, e.end_date, e.total_count, e.used_count,
	                  e.remaining_count, e.is_active, e.memo
	           FROM entitlements e
	           JOIN courses c ON c.id = e.course_id
	           WHERE e.student_id = ?
	           ORDER BY e.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]EntitlementRecord, 0)
	for rows.Next() {
		var rec EntitlementRecord
		if err := rows.Scan(
			&rec.ID, &rec.StudentID, &rec.CourseID, &rec.CourseName, &rec.EnrollmentType,
			&rec.StartDate, &rec.EndDate, &rec.TotalCount, &rec.UsedCount,
			&rec.RemainingCount, &rec.IsActive, &rec.Memo,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
