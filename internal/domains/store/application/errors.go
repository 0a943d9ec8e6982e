package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/gamestore-client/internal/domains/store/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrConflict signals the order is not in a state that allows the change.
	ErrConflict = errors.New("order conflict")
	// ErrForbidden signals the caller does not own the order.
	ErrForbidden = errors.New("order belongs to another user")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidGameID) ||
		errors.Is(err, domain.ErrInvalidOrderID) ||
		errors.Is(err, domain.ErrInvalidStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, domain.ErrNotPending) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}
