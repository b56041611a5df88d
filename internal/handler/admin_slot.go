package handler

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hagwon-ops/academy-booking/internal/model"
	"github.com/hagwon-ops/academy-booking/internal/repository"
)

var timeOfDayRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d:[0-5]\d$`)

type createSlotReq struct {
	CourseID uint64 `json:"course_id"`
	SlotDate string `json:"slot_date"` // YYYY-MM-DD
	StartsAt string `json:"starts_at"` // HH:MM:SS
	EndsAt   string `json:"ends_at"`   // HH:MM:SS
}

// CreateSlot handles POST /v1/admin/slots.  New slots start with zero
// students and open for booking immediately.
func (h *AdminHandler) CreateSlot(c echo.Context) error {
	var req createSlotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CourseID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "course_id required"})
	}
	day, ok := parseDay(req.SlotDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot_date must be YYYY-MM-DD"})
	}
	if !timeOfDayRe.MatchString(req.StartsAt) || !timeOfDayRe.MatchString(req.EndsAt) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at/ends_at must be HH:MM:SS"})
	}
	if req.EndsAt <= req.StartsAt {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be after starts_at"})
	}

	ctx := c.Request().Context()
	course, err := h.Courses.GetByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	id, err := h.Slots.Create(ctx, course.ID, day, req.StartsAt, req.EndsAt)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create slot failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":        id,
		"course_id": course.ID,
		"slot_date": day.Format("2006-01-02"),
		"starts_at": req.StartsAt,
		"ends_at":   req.EndsAt,
	})
}

type cancelSlotReq struct {
	Reason string `json:"reason"`
}

// CancelSlot handles POST /v1/admin/slots/:id/cancel.  A cancelled
// slot rejects new bookings; existing reservations stay put and are
// force-cancelled individually so each refund is accounted for.
func (h *AdminHandler) CancelSlot(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	var req cancelSlotReq
	_ = c.Bind(&req)
	s, err := h.Coord.CancelSlot(c.Request().Context(), id, req.Reason)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, slotResp(s))
}

// RestoreSlot handles POST /v1/admin/slots/:id/restore, reopening a
// cancelled slot for booking.
func (h *AdminHandler) RestoreSlot(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	s, err := h.Coord.RestoreSlot(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, slotResp(s))
}

func slotResp(s *model.Slot) echo.Map {
	m := echo.Map{
		"id":               s.ID,
		"course_id":        s.CourseID,
		"slot_date":        s.SlotDate.Format("2006-01-02"),
		"starts_at":        s.StartsAt,
		"ends_at":          s.EndsAt,
		"current_students": s.CurrentStudents,
		"is_cancelled":     s.IsCancelled,
	}
	if s.CancelReason != "" {
		m["cancel_reason"] = s.CancelReason
	}
	return m
}

type blockDateReq struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Reason string `json:"reason"`
}

// BlockDate handles POST /v1/admin/blocked-dates.  Blocked days are
// academy-wide holidays; the booking window policy rejects them.
func (h *AdminHandler) BlockDate(c echo.Context) error {
	var req blockDateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	day, ok := parseDay(req.Date)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	id, err := h.BlockedDates.Create(c.Request().Context(), day, req.Reason)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "date already blocked"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "block date failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":     id,
		"date":   day.Format("2006-01-02"),
		"reason": req.Reason,
	})
}

// UnblockDate handles DELETE /v1/admin/blocked-dates/:id.
func (h *AdminHandler) UnblockDate(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid blocked date id"})
	}
	if err := h.BlockedDates.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "blocked date not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unblock date failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListBlockedDates handles GET /v1/admin/blocked-dates.  Past entries
// are omitted; they no longer affect booking.
func (h *AdminHandler) ListBlockedDates(c echo.Context) error {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	items, err := h.BlockedDates.List(c.Request().Context(), today)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"blocked_dates": items})
}
