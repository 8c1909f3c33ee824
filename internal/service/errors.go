package service

import (
	"errors"
	"fmt"
)

// ErrValidation marks malformed input: bad date or time, out of business
// hours, unknown salon or table, guest counts out of range. Handlers map
// it to HTTP 400.
var ErrValidation = errors.New("validation failed")

// ErrUnavailable marks a rejected booking. It is always carried by a
// *ConflictError holding the user-facing message.
var ErrUnavailable = errors.New("table unavailable")

// ConflictError reports why a table cannot take a reservation and, for
// regular tables, the next free start time.
type ConflictError struct {
	Message  string
	NextTime string
}

func (e *ConflictError) Error() string { return e.Message }

// Unwrap lets errors.Is(err, ErrUnavailable) match.
func (e *ConflictError) Unwrap() error { return ErrUnavailable }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
