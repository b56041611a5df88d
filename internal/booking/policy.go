package booking

import (
	"context"
	"time"
)

// BookingWindowPolicy answers whether a reservation may currently be
// placed for a slot on the given date.  A false answer is a hard
// precondition failure for create and is never retried.
type BookingWindowPolicy interface {
	IsBookable(ctx context.Context, date time.Time) (bool, error)
}

// BlockedDateSource reports whether a calendar day has been blocked by
// staff.  repository.BlockedDateRepo satisfies it.
type BlockedDateSource interface {
	IsBlocked(ctx context.Context, date time.Time) (bool, error)
}

// WindowPolicy is the default BookingWindowPolicy: a date is bookable
// when it is not in the past, lies within the open reservation period
// (at most MaxLeadDays ahead of today) and has not been blocked.
type WindowPolicy struct {
	Blocked     BlockedDateSource
	Clock       Clock
	MaxLeadDays int
}

// NewWindowPolicy builds a WindowPolicy.  maxLeadDays caps how far in
// advance students may book; values below 1 fall back to 30 days.
func NewWindowPolicy(blocked BlockedDateSource, clock Clock, maxLeadDays int) *WindowPolicy {
	if maxLeadDays < 1 {
		maxLeadDays = 30
	}
	return &WindowPolicy{Blocked: blocked, Clock: clock, MaxLeadDays: maxLeadDays}
}

// IsBookable implements BookingWindowPolicy.
func (p *WindowPolicy) IsBookable(ctx context.Context, date time.Time) (bool, error) {
	now := p.Clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	if day.Before(today) {
		return false, nil
	}
	if day.After(today.AddDate(0, 0, p.MaxLeadDays)) {
		return false, nil
	}
	blocked, err := p.Blocked.IsBlocked(ctx, day)
	if err != nil {
		return false, err
	}
	return !blocked, nil
}
