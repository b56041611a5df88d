package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ErrCourseNotFound indicates that no course row matched the lookup.
var ErrCourseNotFound = errors.New("course not found")

// CourseRepo provides read access to courses (the course catalog).
type CourseRepo struct {
	db *sql.DB
}

// NewCourseRepo returns a CourseRepo bound to the given database.
func NewCourseRepo(db *sql.DB) *CourseRepo { return &CourseRepo{db: db} }

// CourseRecord mirrors the courses table for handler responses.
type CourseRecord struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	MaxStudents int    `json:"max_students"`
	IsActive    bool   `json:"is_active"`
}

// GetByID fetches one course.  Returns ErrCourseNotFound when absent.
func (r *CourseRepo) GetByID(ctx context.Context, id uint64) (*CourseRecord, error) {
	const q = `SELECT id, name, max_students, is_active FROM courses WHERE id = ?`
	var c CourseRecord
	err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.MaxStudents, &c.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all active courses ordered by name.
func (r *CourseRepo) List(ctx context.Context) ([]CourseRecord, error) {
	const q = `SELECT id, name, max_students, is_active FROM courses WHERE is_active = 1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]CourseRecord, 0)
	for rows.Next() {
		var c CourseRecord
		if err := rows.Scan(&c.ID, &c.Name, &c.MaxStudents, &c.IsActive); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
