package mockapi

import (
	"errors"

	catalogapp "github.com/Apurer/gamestore-client/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/gamestore-client/internal/domains/catalog/ports"
	storeapp "github.com/Apurer/gamestore-client/internal/domains/store/application"
	storedomain "github.com/Apurer/gamestore-client/internal/domains/store/domain"
	storeports "github.com/Apurer/gamestore-client/internal/domains/store/ports"
	userdomain "github.com/Apurer/gamestore-client/internal/domains/users/domain"
	userapp "github.com/Apurer/gamestore-client/internal/domains/users/application"
	userports "github.com/Apurer/gamestore-client/internal/domains/users/ports"
	apierrors "github.com/Apurer/gamestore-client/internal/shared/errors"
)

var (
	errAlreadyOwned = errors.New("you already own this game")
	errMissingToken = errors.New("authentication required")
	errAdminOnly    = errors.New("admin role required")
)

func newResponder() *apierrors.ChainedResponder {
	return apierrors.NewChainedResponder("", mapNotFound, mapInvalidInput, mapAuth, mapConflict)
}

func mapNotFound(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("Game not found"), true
	case errors.Is(err, storeports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("Order not found"), true
	case errors.Is(err, userports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("User not found"), true
	}
	return apierrors.ProblemDetail{}, false
}

// invalidFields names the request field each domain invariant guards.
var invalidFields = []struct {
	err   error
	field string
}{
	{catalogdomain.ErrEmptyTitle, "title"},
	{catalogdomain.ErrNegativePrice, "price"},
	{userdomain.ErrEmptyUsername, "username"},
	{userdomain.ErrEmptyEmail, "email"},
	{userdomain.ErrInvalidEmail, "email"},
	{userdomain.ErrEmptyPassword, "password"},
	{userdomain.ErrWeakPassword, "password"},
	{userdomain.ErrInvalidStatus, "status"},
	{storedomain.ErrInvalidGameID, "gameId"},
	{storedomain.ErrInvalidOrderID, "id"},
	{storedomain.ErrInvalidStatus, "status"},
}

func mapInvalidInput(err error) (apierrors.ProblemDetail, bool) {
	if !errors.Is(err, catalogapp.ErrInvalidInput) &&
		!errors.Is(err, storeapp.ErrInvalidInput) &&
		!errors.Is(err, userapp.ErrInvalidInput) {
		return apierrors.ProblemDetail{}, false
	}
	fields := make(map[string]string)
	for _, f := range invalidFields {
		if _, seen := fields[f.field]; !seen && errors.Is(err, f.err) {
			fields[f.field] = f.err.Error()
		}
	}
	if len(fields) == 0 {
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.NewValidationProblem(fields), true
}

func mapAuth(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, userdomain.ErrBlocked):
		return apierrors.ErrForbidden.WithDetail("Account is blocked"), true
	case errors.Is(err, userapp.ErrAuthentication):
		return apierrors.NewUnauthorizedProblem("Invalid credentials"), true
	case errors.Is(err, errMissingToken), errors.Is(err, errInvalidToken):
		return apierrors.NewUnauthorizedProblem("Authentication required"), true
	case errors.Is(err, errAdminOnly):
		return apierrors.ErrForbidden.WithDetail("Admin access required"), true
	case errors.Is(err, storeapp.ErrForbidden):
		return apierrors.ErrForbidden.WithDetail("Order belongs to another user"), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapConflict(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, userports.ErrEmailTaken):
		return apierrors.ErrConflict.WithDetail("Email already in use"), true
	case errors.Is(err, errAlreadyOwned):
		return apierrors.ErrConflict.WithDetail("You already own this game"), true
	case errors.Is(err, storeapp.ErrConflict):
		return apierrors.ErrConflict.WithDetail("Order is not pending"), true
	}
	return apierrors.ProblemDetail{}, false
}
