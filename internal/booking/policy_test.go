package booking

import (
	"context"
	"testing"
	"time"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeBlockedDates struct{ blocked map[string]bool }

func (f fakeBlockedDates) IsBlocked(_ context.Context, date time.Time) (bool, error) {
	return f.blocked[date.Format("2006-01-02")], nil
}

func TestWindowPolicy(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	p := NewWindowPolicy(
		fakeBlockedDates{blocked: map[string]bool{"2026-04-20": true}},
		fixedClock{t: now},
		30,
	)
	ctx := context.Background()

	cases := []struct {
		name string
		date time.Time
		want bool
	}{
		{"today", day(2026, 4, 10), true},
		{"yesterday", day(2026, 4, 9), false},
		{"last day of lead", day(2026, 5, 10), true},
		{"past lead", day(2026, 5, 11), false},
		{"blocked day", day(2026, 4, 20), false},
	}
	for _, tc := range cases {
		got, err := p.IsBookable(ctx, tc.date)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s: IsBookable=%v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestWindowPolicyDefaultLead(t *testing.T) {
	p := NewWindowPolicy(fakeBlockedDates{}, fixedClock{t: time.Now()}, 0)
	if p.MaxLeadDays != 30 {
		t.Errorf("MaxLeadDays=%d, want default 30", p.MaxLeadDays)
	}
}
