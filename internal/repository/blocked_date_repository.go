package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// BlockedDateRepo persists the calendar days on which reservations are
// refused.  It satisfies booking.BlockedDateSource.
type BlockedDateRepo struct {
	db *sql.DB
}

// NewBlockedDateRepo returns a BlockedDateRepo bound to the database.
func NewBlockedDateRepo(db *sql.DB) *BlockedDateRepo { return &BlockedDateRepo{db: db} }

// BlockedDateRecord mirrors the blocked_dates table.
type BlockedDateRecord struct {
	ID        uint64    `json:"id"`
	BlockedOn time.Time `json:"blocked_on"`
	Reason    string    `json:"reason,omitempty"`
}

// IsBlocked reports whether the given calendar day is blocked.
func (r *BlockedDateRepo) IsBlocked(ctx context.Context, date time.Time) (bool, error) {
	const q = `SELECT 1 FROM blocked_dates WHERE blocked_on = ? LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, q, date).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create blocks a day.  Blocking an already blocked day returns
// ErrConflict (the table has a unique key on blocked_on).
func (r *BlockedDateRepo) Create(ctx context.Context, date time.Time, reason string) (uint64, error) {
	const q = `INSERT INTO blocked_dates (blocked_on, reason) VALUES (?, ?)`
	result, err := r.db.ExecContext(ctx, q, date, reason)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Delete unblocks by row id.  Returns ErrConflict when nothing was
// deleted so callers can answer 404-style.
func (r *BlockedDateRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blocked_dates WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// List returns upcoming blocked days from the given date on.
func (r *BlockedDateRepo) List(ctx context.Context, from time.Time) ([]BlockedDateRecord, error) {
	const q = `SELECT id, blocked_on, reason FROM blocked_dates WHERE blocked_on >= ? ORDER BY blocked_on`
	rows, err := r.db.QueryContext(ctx, q, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]BlockedDateRecord, 0)
	for rows.Next() {
		var rec BlockedDateRecord
		if err := rows.Scan(&rec.ID, &rec.BlockedOn, &rec.Reason); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
