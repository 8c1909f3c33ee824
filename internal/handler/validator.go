package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/table-reservation/internal/wallclock"
)

// Validator adapts go-playground/validator to echo.Validator. Besides the
// built-in tags it knows "date" (yyyy-MM-dd) and "clock" (HH:mm).
type Validator struct {
	v *validator.Validate
}

// NewValidator returns a Validator with the reservation tags registered.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	tags := map[string]func(string) bool{
		"date":  wallclock.ValidDate,
		"clock": wallclock.ValidTime,
	}
	for tag, valid := range tags {
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return valid(fl.Field().String())
		}); err != nil {
			panic(fmt.Sprintf("register %q validation: %v", tag, err))
		}
	}
	return &Validator{v: v}
}

// Validate implements echo.Validator.
func (cv *Validator) Validate(i any) error {
	return cv.v.Struct(i)
}

// validationMessage turns validator errors into one readable line.
func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required", "required_with":
			msgs = append(msgs, field+" is required")
		case "date":
			msgs = append(msgs, field+" must be yyyy-MM-dd")
		case "clock":
			msgs = append(msgs, field+" must be HH:mm")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param()))
		}
	}
	return strings.Join(msgs, "; ")
}
