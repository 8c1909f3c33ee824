package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/availability"
	"github.com/iliyamo/table-reservation/internal/catalog"
	"github.com/iliyamo/table-reservation/internal/service"
)

// AvailabilityHandler exposes the availability checks to staff screens.
type AvailabilityHandler struct {
	Checker *availability.Checker
}

// NewAvailabilityHandler panics on a nil checker.
func NewAvailabilityHandler(checker *availability.Checker) *AvailabilityHandler {
	if checker == nil {
		panic("nil checker passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{Checker: checker}
}

type slotRequest struct {
	Salon string `query:"salon" validate:"required"`
	Masa  string `query:"masa" validate:"required"`
	Date  string `query:"date" validate:"required,date"`
	Time  string `query:"time" validate:"required,clock"`
}

func bindSlot(c echo.Context) (slotRequest, bool, error) {
	var req slotRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return req, false, err
	}
	if err := catalog.ValidTable(req.Salon, req.Masa); err != nil {
		return req, false, c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return req, true, nil
}

// Check handles GET /v1/availability. A taken slot is a normal 200 answer
// with available=false; only a failing store yields an error status.
func (h *AvailabilityHandler) Check(c echo.Context) error {
	req, ok, err := bindSlot(c)
	if !ok {
		return err
	}
	res, err := h.Checker.CheckTableAvailability(c.Request().Context(), req.Salon, req.Masa, req.Date, req.Time)
	if err != nil {
		return writeError(c, err, "could not verify availability")
	}
	return c.JSON(http.StatusOK, res)
}

// Next handles GET /v1/availability/next.
func (h *AvailabilityHandler) Next(c echo.Context) error {
	req, ok, err := bindSlot(c)
	if !ok {
		return err
	}
	next, err := h.Checker.NextAvailableTime(c.Request().Context(), req.Salon, req.Masa, req.Date, req.Time)
	if err != nil {
		return writeError(c, err, "could not verify availability")
	}
	return c.JSON(http.StatusOK, echo.Map{"next_time": next})
}

// EndTime handles GET /v1/availability/end-time.
func (h *AvailabilityHandler) EndTime(c echo.Context) error {
	req, ok, err := bindSlot(c)
	if !ok {
		return err
	}
	end, err := availability.CalculateEndTime(req.Date, req.Time, req.Salon, req.Masa)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	session := ""
	if catalog.IsVIP(req.Salon, req.Masa) {
		session = catalog.SessionOf(req.Time).String()
	}
	return c.JSON(http.StatusOK, echo.Map{"end_time": end, "session": session})
}

// RoomHandler serves the room catalog and the per-table overview.
type RoomHandler struct {
	Svc *service.ReservationService
}

// NewRoomHandler panics on a nil service.
func NewRoomHandler(svc *service.ReservationService) *RoomHandler {
	if svc == nil {
		panic("nil service passed to NewRoomHandler")
	}
	return &RoomHandler{Svc: svc}
}

type overviewRequest struct {
	Date string `query:"date" validate:"required,date"`
	From string `query:"from" validate:"omitempty,clock"`
	To   string `query:"to" validate:"omitempty,clock"`
}

// Rooms handles GET /v1/rooms. The catalog is static, so the route is
// cached.
func (h *RoomHandler) Rooms(c echo.Context) error {
	type room struct {
		ID         string   `json:"id"`
		Name       string   `json:"name"`
		TableCount int      `json:"table_count"`
		VIP        bool     `json:"vip"`
		Tables     []string `json:"tables"`
	}
	rooms := catalog.Rooms()
	out := make([]room, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, room{
			ID: r.ID, Name: r.Name, TableCount: r.TableCount,
			VIP: catalog.IsVIP(r.Name, catalog.TableLabel(1)), Tables: catalog.TableLabels(r),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"rooms":           out,
		"midday_session":  catalog.MiddayWindow,
		"evening_session": catalog.EveningWindow,
	})
}

// Overview handles GET /v1/rooms/overview?date&from&to.
func (h *RoomHandler) Overview(c echo.Context) error {
	var req overviewRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	rooms, err := h.Svc.Overview(c.Request().Context(), req.Date, req.From, req.To)
	if err != nil {
		return writeError(c, err, "could not load overview")
	}
	return c.JSON(http.StatusOK, echo.Map{"date": req.Date, "rooms": rooms})
}
