// Package repository holds the MySQL data access for reservations. The
// sentinel errors below let the service and handler layers tell failure
// scenarios apart without inspecting driver errors.
package repository

import "errors"

// ErrReservationNotFound is returned when no reservation matches the given
// id or code. Handlers translate it into an HTTP 404 response.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrDuplicateCode is returned when an insert collides with an existing
// reservation code. The service retries with a fresh code.
var ErrDuplicateCode = errors.New("duplicate reservation code")

// ErrConflict is returned when an update cannot be applied because the row
// changed underneath the caller (for example its date moved while a table
// assignment was waiting for the lock). Handlers translate it into 409.
var ErrConflict = errors.New("conflict")
