package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hagwon-ops/academy-booking/internal/model"
	"github.com/hagwon-ops/academy-booking/internal/repository"
)

type createEntitlementReq struct {
	StudentID      uint64 `json:"student_id"`
	CourseID       uint64 `json:"course_id"`
	EnrollmentType string `json:"enrollment_type"` // PERIOD | COUNT
	StartDate      string `json:"start_date"`      // YYYY-MM-DD
	EndDate        string `json:"end_date"`        // YYYY-MM-DD
	TotalCount     int    `json:"total_count"`
	Memo           string `json:"memo"`
}

// CreateEntitlement handles POST /v1/admin/entitlements when a student
// registers a course plan.  The plan always carries both a validity
// window and a lesson count; enrollment_type only records which one
// the front desk sold.
func (h *AdminHandler) CreateEntitlement(c echo.Context) error {
	var req createEntitlementReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.StudentID == 0 || req.CourseID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "student_id and course_id required"})
	}
	if req.TotalCount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_count must be positive"})
	}
	start, ok := parseDay(req.StartDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must be YYYY-MM-DD"})
	}
	end, ok := parseDay(req.EndDate)
	if !ok || end.Before(start) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must be YYYY-MM-DD and not before start_date"})
	}
	typ := strings.ToUpper(strings.TrimSpace(req.EnrollmentType))
	if typ != model.EnrollmentPeriod && typ != model.EnrollmentCount {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "enrollment_type must be PERIOD or COUNT"})
	}

	ctx := c.Request().Context()
	if _, err := h.Students.GetByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if _, err := h.Courses.GetByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	rec := repository.EntitlementRecord{
		StudentID:      req.StudentID,
		CourseID:       req.CourseID,
		EnrollmentType: typ,
		StartDate:      start,
		EndDate:        end,
		TotalCount:     req.TotalCount,
		Memo:           req.Memo,
	}
	if err := h.Entitlements.Create(ctx, &rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create entitlement failed"})
	}
	return c.JSON(http.StatusCreated, rec)
}

// GetEntitlement handles GET /v1/admin/entitlements/:id.
func (h *AdminHandler) GetEntitlement(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid entitlement id"})
	}
	rec, err := h.Entitlements.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEntitlementNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entitlement not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, rec)
}

// StudentEntitlements handles GET /v1/admin/students/:id/entitlements.
func (h *AdminHandler) StudentEntitlements(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid student id"})
	}
	items, err := h.Entitlements.ListByStudent(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"entitlements": items})
}

type topUpReq struct {
	AdditionalCount int `json:"additional_count"`
}

// TopUpEntitlement handles POST /v1/admin/entitlements/:id/top-up.
// Adds purchased lessons and reactivates an exhausted plan.
func (h *AdminHandler) TopUpEntitlement(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid entitlement id"})
	}
	var req topUpReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	e, err := h.Coord.TopUpEntitlement(c.Request().Context(), id, req.AdditionalCount)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, entitlementResp(e))
}

type extendReq struct {
	NewEndDate string `json:"new_end_date"` // YYYY-MM-DD
}

// ExtendEntitlement handles POST /v1/admin/entitlements/:id/extend.
// Moves the validity window's end date; shortening is allowed as long
// as the window stays non-empty.
func (h *AdminHandler) ExtendEntitlement(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid entitlement id"})
	}
	var req extendReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	end, parsed := parseDay(req.NewEndDate)
	if !parsed {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "new_end_date must be YYYY-MM-DD"})
	}
	e, err := h.Coord.ExtendEntitlementWindow(c.Request().Context(), id, end)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, entitlementResp(e))
}

type adjustReq struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}

// AdjustEntitlement handles POST /v1/admin/entitlements/:id/adjust for
// manual corrections (billing disputes, goodwill credits).  Delta may
// be negative but may not push any counter below zero.
func (h *AdminHandler) AdjustEntitlement(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid entitlement id"})
	}
	var req adjustReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	e, err := h.Coord.AdjustEntitlement(c.Request().Context(), id, req.Delta, req.Reason)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, entitlementResp(e))
}

// entitlementResp shapes a coordinator result for JSON output.
func entitlementResp(e *model.Entitlement) echo.Map {
	return echo.Map{
		"id":              e.ID,
		"student_id":      e.StudentID,
		"course_id":       e.CourseID,
		"enrollment_type": e.EnrollmentType,
		"start_date":      e.StartDate.Format("2006-01-02"),
		"end_date":        e.EndDate.Format("2006-01-02"),
		"total_count":     e.TotalCount,
		"used_count":      e.UsedCount,
		"remaining_count": e.RemainingCount,
		"is_active":       e.IsActive,
		"memo":            e.Memo,
	}
}

// queryUint parses an optional numeric query parameter, returning 0
// when absent.
func queryUint(c echo.Context, name string) (uint64, bool) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, true
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
