package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hagwon-ops/academy-booking/internal/booking"
	"github.com/hagwon-ops/academy-booking/internal/model"
	"github.com/hagwon-ops/academy-booking/internal/repository"
)

// StudentHandler serves the student-facing reservation endpoints.  All
// methods assume JWT authentication and the STUDENT role have already
// been enforced by middleware; the JWT subject is a login account id
// which is resolved to a student profile per request.
type StudentHandler struct {
	Coord        *booking.Coordinator
	Students     *repository.StudentRepo
	Reservations *repository.ReservationRepo
	Entitlements *repository.EntitlementRepo
}

func NewStudentHandler(coord *booking.Coordinator, st *repository.StudentRepo, rs *repository.ReservationRepo, en *repository.EntitlementRepo) *StudentHandler {
	if coord == nil || st == nil || rs == nil || en == nil {
		panic("nil dependency passed to NewStudentHandler")
	}
	return &StudentHandler{Coord: coord, Students: st, Reservations: rs, Entitlements: en}
}

// student resolves the authenticated user to their student profile.
func (h *StudentHandler) student(c echo.Context) (*repository.StudentRecord, error) {
	uid, err := getUserID(c)
	if err != nil {
		return nil, echo.ErrUnauthorized
	}
	st, err := h.Students.GetByUserID(c.Request().Context(), uid)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return nil, echo.NewHTTPError(http.StatusForbidden, "no student profile for this account")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "database error")
	}
	return st, nil
}

type createReservationReq struct {
	SlotID        uint64 `json:"slot_id"`
	EntitlementID uint64 `json:"entitlement_id"`
	Memo          string `json:"memo"`
}

// CreateReservation handles POST /v1/reservations.  Student bookings
// always spend an entitlement lesson, so entitlement_id is required.
// On success the reservation is CONFIRMED and the lesson is debited in
// the same transaction as the seat.
func (h *StudentHandler) CreateReservation(c echo.Context) error {
	st, err := h.student(c)
	if err != nil {
		return err
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.SlotID == 0 || req.EntitlementID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot_id and entitlement_id required"})
	}

	entID := req.EntitlementID
	res, err := h.Coord.Create(c.Request().Context(), booking.CreateParams{
		StudentID:     st.ID,
		SlotID:        req.SlotID,
		EntitlementID: &entID,
		Source:        model.SourceStudent,
		Memo:          req.Memo,
	})
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, reservationResp(res))
}

type cancelReq struct {
	Reason string `json:"reason"`
}

// CancelReservation handles DELETE /v1/reservations/:id.  Only the
// owning student may cancel, only while the reservation is CONFIRMED
// and only before 18:00 on the day before the lesson.  A successful
// cancel refunds the lesson and frees the seat.
func (h *StudentHandler) CancelReservation(c echo.Context) error {
	st, err := h.student(c)
	if err != nil {
		return err
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	// Ownership check before touching the coordinator.
	if _, err := h.Reservations.GetByIDForStudent(c.Request().Context(), id, st.ID); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	var req cancelReq
	_ = c.Bind(&req)

	res, err := h.Coord.Cancel(c.Request().Context(), id, req.Reason)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, reservationResp(res))
}

// GetReservation handles GET /v1/reservations/:id for the owning
// student.
func (h *StudentHandler) GetReservation(c echo.Context) error {
	st, err := h.student(c)
	if err != nil {
		return err
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	d, err := h.Reservations.GetByIDForStudent(c.Request().Context(), id, st.ID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, d)
}

// ListMyReservations handles GET /v1/my-reservations.
func (h *StudentHandler) ListMyReservations(c echo.Context) error {
	st, err := h.student(c)
	if err != nil {
		return err
	}
	items, err := h.Reservations.ListByStudent(c.Request().Context(), st.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": items})
}

// ListMyEntitlements handles GET /v1/my-entitlements so students can
// see remaining lessons and validity windows per course.
func (h *StudentHandler) ListMyEntitlements(c echo.Context) error {
	st, err := h.student(c)
	if err != nil {
		return err
	}
	items, err := h.Entitlements.ListByStudent(c.Request().Context(), st.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"entitlements": items})
}

// reservationResp shapes a coordinator result for JSON output.
func reservationResp(r *model.Reservation) echo.Map {
	m := echo.Map{
		"id":         r.ID,
		"student_id": r.StudentID,
		"slot_id":    r.SlotID,
		"status":     r.Status,
		"source":     r.Source,
		"created_at": r.CreatedAt,
	}
	if r.EntitlementID != nil {
		m["entitlement_id"] = *r.EntitlementID
	}
	if r.Memo != "" {
		m["memo"] = r.Memo
	}
	if r.CancelReason != "" {
		m["cancel_reason"] = r.CancelReason
	}
	if r.CancelledAt != nil {
		m["cancelled_at"] = *r.CancelledAt
	}
	return m
}
