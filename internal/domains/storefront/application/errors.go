package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidInput signals the request violated an input invariant before
	// any remote call was made.
	ErrInvalidInput = errors.New("invalid input")
	// ErrPersistSession wraps durable storage failures during login/registration.
	ErrPersistSession = errors.New("persist session")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput runs struct tag validation and then the domain's own checks.
func validateInput(input any, domainCheck func() error) error {
	if err := validate.Struct(input); err != nil {
		return mapError(err)
	}
	if domainCheck != nil {
		if err := domainCheck(); err != nil {
			return mapError(err)
		}
	}
	return nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, formatFieldError(fe))
		}
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
