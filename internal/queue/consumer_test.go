package queue

import (
	"strings"
	"testing"
)

func TestRenderMessage(t *testing.T) {
	base := ReservationEvent{
		ReservationID: 7,
		StudentID:     3,
		SlotID:        100,
		SlotDate:      "2026-04-10",
		StartsAt:      "16:00:00",
		OccurredAt:    "2026-04-01T12:00:00Z",
	}

	created := base
	created.Kind = "reservation.created"
	if got := renderMessage(created); !strings.Contains(got, "2026-04-10") || !strings.Contains(got, "16:00:00") {
		t.Errorf("created message missing slot details: %q", got)
	}

	cancelled := base
	cancelled.Kind = "reservation.cancelled"
	cancelled.Reason = "teacher away"
	if got := renderMessage(cancelled); !strings.Contains(got, "reason=teacher away") {
		t.Errorf("cancelled message missing reason: %q", got)
	}

	cancelled.Reason = ""
	if got := renderMessage(cancelled); !strings.Contains(got, "reason=-") {
		t.Errorf("cancelled message without reason should show dash: %q", got)
	}

	unknown := base
	unknown.Kind = "reservation.rescheduled"
	if got := renderMessage(unknown); !strings.Contains(got, "reservation.rescheduled") {
		t.Errorf("unknown kinds should fall back to a generic line: %q", got)
	}
}
