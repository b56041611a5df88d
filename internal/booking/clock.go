package booking

import "time"

// Clock supplies the wall-clock time to booking logic.  Injecting it
// keeps the cancellation-deadline check deterministic in tests; domain
// code must never call time.Now directly.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }
