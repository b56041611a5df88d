package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ErrStudentNotFound indicates that no student row matched the lookup.
var ErrStudentNotFound = errors.New("student not found")

// StudentRepo provides read access to the students table outside of
// booking units of work (profile lookups, identity resolution).
type StudentRepo struct {
	db *sql.DB
}

// NewStudentRepo returns a StudentRepo bound to the given database.
func NewStudentRepo(db *sql.DB) *StudentRepo { return &StudentRepo{db: db} }

// StudentRecord mirrors the students table for handler responses.
type StudentRecord struct {
	ID       uint64  `json:"id"`
	UserID   *uint64 `json:"user_id,omitempty"`
	Name     string  `json:"name"`
	Phone    string  `json:"phone"`
	Memo     string  `json:"memo,omitempty"`
	IsActive bool    `json:"is_active"`
}

// GetByID fetches one student.  Returns ErrStudentNotFound when the
// row does not exist.
func (r *StudentRepo) GetByID(ctx context.Context, id uint64) (*StudentRecord, error) {
	const q = `SELECT id, user_id, name, phone, memo, is_active FROM students WHERE id = ?`
	return r.scanOne(ctx, q, id)
}

// GetByUserID resolves the student profile owned by a login account.
// Used to map the JWT subject onto a student for customer endpoints.
func (r *StudentRepo) GetByUserID(ctx context.Context, userID uint64) (*StudentRecord, error) {
	const q = `SELECT id, user_id, name, phone, memo, is_active FROM students WHERE user_id = ?`
	return r.scanOne(ctx, q, userID)
}

func (r *StudentRepo) scanOne(ctx context.Context, q string, arg uint64) (*StudentRecord, error) {
	var (
		st     StudentRecord
		userID sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, q, arg).Scan(
		&st.ID, &userID, &st.Name, &st.Phone, &st.Memo, &st.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStudentNotFound
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
