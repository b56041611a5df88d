package handler

import (
	"github.com/hagwon-ops/academy-booking/internal/booking"
	"github.com/hagwon-ops/academy-booking/internal/repository"
)

// AdminHandler bundles everything the staff endpoints need.  Anything
// that moves quota or seats goes through the coordinator; plain reads
// and inserts that have no side effects use the repositories directly.
type AdminHandler struct {
	Coord        *booking.Coordinator
	Students     *repository.StudentRepo
	Courses      *repository.CourseRepo
	Slots        *repository.SlotRepo
	Entitlements *repository.EntitlementRepo
	Reservations *repository.ReservationRepo
	BlockedDates *repository.BlockedDateRepo
}

func NewAdminHandler(coord *booking.Coordinator, st *repository.StudentRepo, co *repository.CourseRepo, sl *repository.SlotRepo, en *repository.EntitlementRepo, rs *repository.ReservationRepo, bd *repository.BlockedDateRepo) *AdminHandler {
	if coord == nil || st == nil || co == nil || sl == nil || en == nil || rs == nil || bd == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{
		Coord:        coord,
		Students:     st,
		Courses:      co,
		Slots:        sl,
		Entitlements: en,
		Reservations: rs,
		BlockedDates: bd,
	}
}
