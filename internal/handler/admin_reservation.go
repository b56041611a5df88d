package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hagwon-ops/academy-booking/internal/booking"
	"github.com/hagwon-ops/academy-booking/internal/model"
	"github.com/hagwon-ops/academy-booking/internal/repository"
)

type adminCreateReservationReq struct {
	StudentID     uint64  `json:"student_id"`
	SlotID        uint64  `json:"slot_id"`
	EntitlementID *uint64 `json:"entitlement_id"`
	Pending       bool    `json:"pending"`
	Memo          string  `json:"memo"`
}

// CreateReservation handles POST /v1/admin/reservations.  Staff may
// book on behalf of any student, omit the entitlement entirely (trial
// lessons and make-up classes) or park the reservation as PENDING for
// phone intake that still needs confirmation.
func (h *AdminHandler) CreateReservation(c echo.Context) error {
	var req adminCreateReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.StudentID == 0 || req.SlotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "student_id and slot_id required"})
	}
	if req.EntitlementID != nil && *req.EntitlementID == 0 {
		req.EntitlementID = nil
	}

	res, err := h.Coord.Create(c.Request().Context(), booking.CreateParams{
		StudentID:     req.StudentID,
		SlotID:        req.SlotID,
		EntitlementID: req.EntitlementID,
		Source:        model.SourceAdmin,
		Memo:          req.Memo,
		Pending:       req.Pending,
	})
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, reservationResp(res))
}

// ConfirmReservation handles POST /v1/admin/reservations/:id/confirm.
// Only PENDING reservations can be confirmed.
func (h *AdminHandler) ConfirmReservation(c echo.Context) error {
	return h.transition(c, h.Coord.Confirm)
}

// CompleteReservation handles POST /v1/admin/reservations/:id/complete
// after the lesson took place.
func (h *AdminHandler) CompleteReservation(c echo.Context) error {
	return h.transition(c, h.Coord.Complete)
}

// NoShowReservation handles POST /v1/admin/reservations/:id/no-show.
// The lesson is consumed; no refund.
func (h *AdminHandler) NoShowReservation(c echo.Context) error {
	return h.transition(c, h.Coord.MarkNoShow)
}

func (h *AdminHandler) transition(c echo.Context, op func(ctx context.Context, id uint64) (*model.Reservation, error)) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := op(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, reservationResp(res))
}

// ForceCancelReservation handles POST
// /v1/admin/reservations/:id/force-cancel.  Staff may cancel past the
// deadline and from PENDING; the refund still applies.
func (h *AdminHandler) ForceCancelReservation(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req cancelReq
	_ = c.Bind(&req)
	res, err := h.Coord.ForceCancel(c.Request().Context(), id, req.Reason)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, reservationResp(res))
}

// DeleteReservation handles DELETE /v1/admin/reservations/:id.  The
// row is removed outright; when the reservation was still active its
// seat and lesson are released first.
func (h *AdminHandler) DeleteReservation(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	if err := h.Coord.Delete(c.Request().Context(), id); err != nil {
		return bookingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetReservation handles GET /v1/admin/reservations/:id.
func (h *AdminHandler) GetReservation(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	d, err := h.Reservations.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, d)
}

// SlotRoster handles GET /v1/admin/slots/:id/reservations, the
// attendance list for one slot.
func (h *AdminHandler) SlotRoster(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	items, err := h.Reservations.ListBySlot(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": items})
}

// StudentReservations handles GET
// /v1/admin/students/:id/reservations.
func (h *AdminHandler) StudentReservations(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid student id"})
	}
	items, err := h.Reservations.ListByStudent(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": items})
}
