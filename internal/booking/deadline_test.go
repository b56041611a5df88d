package booking

import (
	"testing"
	"time"
)

func TestCancelDeadline(t *testing.T) {
	slotDate := day(2026, 4, 15)
	want := time.Date(2026, 4, 14, 18, 0, 0, 0, time.UTC)
	if got := CancelDeadline(slotDate); !got.Equal(want) {
		t.Errorf("deadline=%s, want %s", got, want)
	}
}

func TestCancelAllowedBoundary(t *testing.T) {
	slotDate := day(2026, 4, 15)
	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"one second before", time.Date(2026, 4, 14, 17, 59, 59, 0, time.UTC), true},
		{"exactly at deadline", time.Date(2026, 4, 14, 18, 0, 0, 0, time.UTC), false},
		{"after deadline", time.Date(2026, 4, 14, 18, 0, 1, 0, time.UTC), false},
		{"morning before", time.Date(2026, 4, 14, 9, 0, 0, 0, time.UTC), true},
		{"two days before", time.Date(2026, 4, 13, 23, 0, 0, 0, time.UTC), true},
		{"slot day itself", time.Date(2026, 4, 15, 8, 0, 0, 0, time.UTC), false},
	}
	for _, tc := range cases {
		if got := CancelAllowed(tc.now, slotDate); got != tc.want {
			t.Errorf("%s: CancelAllowed=%v, want %v", tc.name, got, tc.want)
		}
	}
}
