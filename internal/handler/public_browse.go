package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hagwon-ops/academy-booking/internal/repository"
)

// PublicHandler exposes the unauthenticated browse endpoints.  Slot
// and course listings carry no student data, so guests may call them
// while deciding whether to enrol.
type PublicHandler struct {
	Courses *repository.CourseRepo
	Slots   *repository.SlotRepo
}

func NewPublicHandler(co *repository.CourseRepo, sl *repository.SlotRepo) *PublicHandler {
	if co == nil || sl == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Courses: co, Slots: sl}
}

// ListCourses handles GET /v1/courses.
func (h *PublicHandler) ListCourses(c echo.Context) error {
	items, err := h.Courses.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"courses": items})
}

// ListSlots handles GET /v1/slots with optional course_id, from and to
// query parameters.  Each row includes current and maximum occupancy
// so clients can grey out full slots before trying to book.
func (h *PublicHandler) ListSlots(c echo.Context) error {
	courseID, ok := queryUint(c, "course_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course_id"})
	}
	var from, to time.Time
	if raw := strings.TrimSpace(c.QueryParam("from")); raw != "" {
		d, parsed := parseDay(raw)
		if !parsed {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be YYYY-MM-DD"})
		}
		from = d
	}
	if raw := strings.TrimSpace(c.QueryParam("to")); raw != "" {
		d, parsed := parseDay(raw)
		if !parsed {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be YYYY-MM-DD"})
		}
		to = d
	}

	items, err := h.Slots.List(c.Request().Context(), courseID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"slots": items})
}
