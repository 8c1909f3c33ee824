package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/middleware"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/service"
)

// ReservationHandler serves the staff reservation endpoints. JWT and role
// checks run in middleware; the acting user is read from the context.
type ReservationHandler struct {
	Svc *service.ReservationService
}

// NewReservationHandler panics on a nil service.
func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	if svc == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{Svc: svc}
}

type infoRequest struct {
	FullName   string `json:"full_name" validate:"required,max=255"`
	Phone      string `json:"phone" validate:"required,max=32"`
	Notes      string `json:"notes" validate:"max=2000"`
	Date       string `json:"date" validate:"required,date"`
	Time       string `json:"time" validate:"required,clock"`
	Guests     int    `json:"guests" validate:"min=1,max=500"`
	ChildCount int    `json:"child_count" validate:"min=0,max=500"`
}

type createRequest struct {
	infoRequest
	Salon string `json:"salon" validate:"required_with=Masa"`
	Masa  string `json:"masa" validate:"required_with=Salon"`
}

type tableRequest struct {
	Salon string `json:"salon" validate:"required"`
	Masa  string `json:"masa" validate:"required"`
}

type statusRequest struct {
	Status model.Status `json:"status" validate:"required,oneof=active cancelled"`
}

type listRequest struct {
	Date   string       `query:"date" validate:"required,date"`
	Status model.Status `query:"status" validate:"omitempty,oneof=active cancelled"`
	Q      string       `query:"q" validate:"max=100"`
}

func (r infoRequest) input() service.InfoInput {
	return service.InfoInput{
		FullName: r.FullName, Phone: r.Phone, Notes: r.Notes,
		Date: r.Date, Time: r.Time, Guests: r.Guests, ChildCount: r.ChildCount,
	}
}

// Create handles POST /v1/reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	info := req.input()
	r, err := h.Svc.Create(c.Request().Context(), service.CreateInput{
		FullName: info.FullName, Phone: info.Phone, Notes: info.Notes,
		Date: info.Date, Time: info.Time, Guests: info.Guests, ChildCount: info.ChildCount,
		Salon: req.Salon, Masa: req.Masa,
	}, middleware.Actor(c))
	if err != nil {
		return writeError(c, err, "could not verify availability")
	}
	return c.JSON(http.StatusCreated, r)
}

// List handles GET /v1/reservations?date=yyyy-MM-dd[&status=active|cancelled][&q=term].
func (h *ReservationHandler) List(c echo.Context) error {
	var req listRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	list, err := h.Svc.List(c.Request().Context(), repository.ListFilter{Date: req.Date, Status: req.Status, Query: req.Q})
	if err != nil {
		return writeError(c, err, "could not list reservations")
	}
	if list == nil {
		list = []model.Reservation{}
	}
	return c.JSON(http.StatusOK, echo.Map{"date": req.Date, "reservations": list})
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	r, err := h.Svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err, "could not load reservation")
	}
	return c.JSON(http.StatusOK, r)
}

// UpdateInfo handles PUT /v1/reservations/:id.
func (h *ReservationHandler) UpdateInfo(c echo.Context) error {
	var req infoRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	r, err := h.Svc.UpdateInfo(c.Request().Context(), c.Param("id"), req.input(), middleware.Actor(c))
	if err != nil {
		return writeError(c, err, "could not verify availability")
	}
	return c.JSON(http.StatusOK, r)
}

// AssignTable handles PUT /v1/reservations/:id/table.
func (h *ReservationHandler) AssignTable(c echo.Context) error {
	var req tableRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	r, err := h.Svc.AssignTable(c.Request().Context(), c.Param("id"), req.Salon, req.Masa, middleware.Actor(c))
	if err != nil {
		return writeError(c, err, "could not verify availability")
	}
	return c.JSON(http.StatusOK, r)
}

// ChangeStatus handles PUT /v1/reservations/:id/status.
func (h *ReservationHandler) ChangeStatus(c echo.Context) error {
	var req statusRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	r, err := h.Svc.ChangeStatus(c.Request().Context(), c.Param("id"), req.Status, middleware.Actor(c))
	if err != nil {
		return writeError(c, err, "could not verify availability")
	}
	return c.JSON(http.StatusOK, r)
}
