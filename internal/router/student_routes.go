package router

import (
	"github.com/labstack/echo/v4"

	"github.com/hagwon-ops/academy-booking/internal/handler"
	"github.com/hagwon-ops/academy-booking/internal/middleware"
)

// RegisterStudent registers the student-scoped endpoints under /v1.
// All routes require a valid JWT with the STUDENT role.  Students can
// book into open slots, cancel their own confirmed reservations before
// the deadline and review their reservations and remaining lessons.
func RegisterStudent(e *echo.Echo, h *handler.StudentHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("STUDENT"),
	)
	g.POST("/reservations", h.CreateReservation)
	g.GET("/reservations/:id", h.GetReservation)
	g.DELETE("/reservations/:id", h.CancelReservation)
	g.GET("/my-reservations", h.ListMyReservations)
	g.GET("/my-entitlements", h.ListMyEntitlements)
}
