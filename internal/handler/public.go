package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/service"
)

// PublicHandler serves unauthenticated guest lookups.
type PublicHandler struct {
	Svc *service.ReservationService
}

// NewPublicHandler panics on a nil service.
func NewPublicHandler(svc *service.ReservationService) *PublicHandler {
	if svc == nil {
		panic("nil service passed to NewPublicHandler")
	}
	return &PublicHandler{Svc: svc}
}

// publicReservation is what a guest holding the code may see. Phone,
// notes and the change log stay internal.
type publicReservation struct {
	Code       string       `json:"code"`
	FullName   string       `json:"full_name"`
	Date       string       `json:"date"`
	Time       string       `json:"time"`
	EndTime    string       `json:"end_time"`
	Guests     int          `json:"guests"`
	ChildCount int          `json:"child_count"`
	Status     model.Status `json:"status"`
	Salon      string       `json:"salon,omitempty"`
	Masa       string       `json:"masa,omitempty"`
}

// GetByCode handles GET /v1/public/reservations/:code.
func (h *PublicHandler) GetByCode(c echo.Context) error {
	r, err := h.Svc.GetByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		return writeError(c, err, "could not load reservation")
	}
	return c.JSON(http.StatusOK, publicReservation{
		Code: r.Code, FullName: r.FullName, Date: r.Date, Time: r.Time, EndTime: r.EndTime,
		Guests: r.Guests, ChildCount: r.ChildCount, Status: r.Status, Salon: r.Salon, Masa: r.Masa,
	})
}
