package booking

import (
	"context"
	"time"
)

// Notification kinds emitted by the coordinator.
const (
	NotifyReservationCreated   = "reservation.created"
	NotifyReservationConfirmed = "reservation.confirmed"
	NotifyReservationCancelled = "reservation.cancelled"
)

// Notification carries enough context for downstream delivery (SMS,
// push) without another database round trip.
type Notification struct {
	Kind          string
	ReservationID uint64
	StudentID     uint64
	SlotID        uint64
	SlotDate      time.Time
	StartsAt      string
	Reason        string
}

// Notifier delivers notifications fire-and-forget.  Errors are logged
// by the coordinator and never roll back the unit of work that
// produced the notification.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NopNotifier discards notifications.  Used when the broker is not
// configured and in tests.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(context.Context, Notification) error { return nil }
