package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/middleware"
)

// RegisterStaff registers the restaurant staff endpoints under /v1. Every
// route needs a valid JWT; readers may only view, editors and above may
// also create and edit.
func RegisterStaff(e *echo.Echo, r *handler.ReservationHandler, a *handler.AvailabilityHandler,
	rooms *handler.RoomHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	view := middleware.RequireRole(middleware.ViewRoles...)
	edit := middleware.RequireRole(middleware.EditRoles...)

	// ---- Availability ----
	g.GET("/availability", a.Check, view)
	g.GET("/availability/next", a.Next, view)
	g.GET("/availability/end-time", a.EndTime, view)
	g.GET("/rooms/overview", rooms.Overview, view)

	// ---- Reservations ----
	g.GET("/reservations", r.List, view)
	g.GET("/reservations/:id", r.Get, view)
	g.POST("/reservations", r.Create, edit)
	g.PUT("/reservations/:id", r.UpdateInfo, edit)
	g.PUT("/reservations/:id/table", r.AssignTable, edit)
	g.PUT("/reservations/:id/status", r.ChangeStatus, edit)
}
