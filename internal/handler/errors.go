package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/availability"
	"github.com/iliyamo/table-reservation/internal/lock"
	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/service"
)

// writeError maps service and repository errors to JSON responses.
// Unknown errors are logged and answered with 500 and fallback, never with
// a positive result.
func writeError(c echo.Context, err error, fallback string) error {
	var conflict *service.ConflictError
	switch {
	case errors.As(err, &conflict):
		body := echo.Map{"error": conflict.Message}
		if conflict.NextTime != "" {
			body["next_time"] = conflict.NextTime
		}
		return c.JSON(http.StatusConflict, body)
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, availability.ErrVIPTable):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation was modified concurrently, please retry"})
	case errors.Is(err, lock.ErrNotAcquired):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "table is busy, please retry"})
	}
	log.Printf("handler: %s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": fallback})
}

// bindAndValidate binds the request into req and runs the validator. When
// it reports false the 400 response has already been written and err is
// the result of writing it.
func bindAndValidate(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": validationMessage(err)})
	}
	return true, nil
}
