package router

import (
	"github.com/labstack/echo/v4"

	"github.com/hagwon-ops/academy-booking/internal/handler"
	"github.com/hagwon-ops/academy-booking/internal/middleware"
)

// RegisterAdmin registers the staff endpoints under /v1/admin.  All
// routes require a valid JWT and the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Reservations ----
	g.POST("/reservations", a.CreateReservation)
	g.GET("/reservations/:id", a.GetReservation)
	g.POST("/reservations/:id/confirm", a.ConfirmReservation)
	g.POST("/reservations/:id/complete", a.CompleteReservation)
	g.POST("/reservations/:id/no-show", a.NoShowReservation)
	g.POST("/reservations/:id/force-cancel", a.ForceCancelReservation)
	g.DELETE("/reservations/:id", a.DeleteReservation)

	// ---- Slots ----
	g.POST("/slots", a.CreateSlot)
	g.POST("/slots/:id/cancel", a.CancelSlot)
	g.POST("/slots/:id/restore", a.RestoreSlot)
	g.GET("/slots/:id/reservations", a.SlotRoster)

	// ---- Students ----
	g.GET("/students/:id/reservations", a.StudentReservations)
	g.GET("/students/:id/entitlements", a.StudentEntitlements)

	// ---- Entitlements ----
	g.POST("/entitlements", a.CreateEntitlement)
	g.GET("/entitlements/:id", a.GetEntitlement)
	g.POST("/entitlements/:id/top-up", a.TopUpEntitlement)
	g.POST("/entitlements/:id/extend", a.ExtendEntitlement)
	g.POST("/entitlements/:id/adjust", a.AdjustEntitlement)

	// ---- Calendar ----
	g.GET("/blocked-dates", a.ListBlockedDates)
	g.POST("/blocked-dates", a.BlockDate)
	g.DELETE("/blocked-dates/:id", a.UnblockDate)
}
