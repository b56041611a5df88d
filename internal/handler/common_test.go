package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hagwon-ops/academy-booking/internal/booking"
	"github.com/hagwon-ops/academy-booking/internal/repository"
)

func TestBookingErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{booking.ErrReservationNotFound, http.StatusNotFound},
		{booking.ErrSlotNotFound, http.StatusNotFound},
		{booking.ErrInvalidArgument, http.StatusBadRequest},
		{booking.ErrQuotaExhausted, http.StatusConflict},
		{booking.ErrSlotFull, http.StatusConflict},
		{booking.ErrCancellationWindowClosed, http.StatusConflict},
		{booking.ErrInvalidTransition, http.StatusConflict},
		{booking.ErrNegativeQuota, http.StatusConflict},
		{booking.ErrNotBookable, http.StatusConflict},
		{booking.ErrSlotCancelled, http.StatusConflict},
		{booking.ErrConcurrencyConflict, http.StatusServiceUnavailable},
		{repository.ErrForbidden, http.StatusForbidden},
		{repository.ErrConflict, http.StatusConflict},
	}

	e := echo.New()
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if err := bookingError(c, tc.err); err != nil {
			t.Fatalf("%v: %v", tc.err, err)
		}
		if rec.Code != tc.want {
			t.Errorf("%v: status=%d, want %d", tc.err, rec.Code, tc.want)
		}
	}
}

func TestParseDay(t *testing.T) {
	if _, ok := parseDay("2026-04-31"); ok {
		t.Error("impossible date accepted")
	}
	if _, ok := parseDay("20260410"); ok {
		t.Error("wrong format accepted")
	}
	d, ok := parseDay("2026-04-10")
	if !ok {
		t.Fatal("valid date rejected")
	}
	if d.Hour() != 0 || d.Location() != time.UTC {
		t.Errorf("parsed day not UTC midnight: %s", d)
	}
}
