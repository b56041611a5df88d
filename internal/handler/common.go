// Package handler defines the HTTP handlers.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hagwon-ops/academy-booking/internal/booking"
	"github.com/hagwon-ops/academy-booking/internal/repository"
)

// getUserID extracts the user_id placed in the context by the JWT
// middleware and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the :id (or other named) path parameter as a positive
// integer.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// parseDay parses a YYYY-MM-DD string into a UTC midnight time.
func parseDay(s string) (time.Time, bool) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return d.UTC(), true
}

// bookingError maps the booking and repository sentinel errors onto
// HTTP responses.  Not-found lookups become 404, bad input 400,
// business rule violations 409 and an exhausted retry budget 503 so
// clients know the request may be retried.
func bookingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrStudentNotFound),
		errors.Is(err, booking.ErrCourseNotFound),
		errors.Is(err, booking.ErrSlotNotFound),
		errors.Is(err, booking.ErrEntitlementNotFound),
		errors.Is(err, booking.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrInvalidArgument):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrQuotaExhausted),
		errors.Is(err, booking.ErrSlotFull),
		errors.Is(err, booking.ErrSlotCancelled),
		errors.Is(err, booking.ErrNotBookable),
		errors.Is(err, booking.ErrCancellationWindowClosed),
		errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, booking.ErrNegativeQuota),
		errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrConcurrencyConflict):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "busy, please retry"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
