package ports

import (
	"context"
	"errors"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	"github.com/Apurer/gamestore-client/internal/domains/users/domain"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
)

// Repository persists accounts. Emails are unique, compared case-insensitively.
type Repository interface {
	Save(ctx context.Context, account *domain.Account) (*domain.Account, error)
	GetByID(ctx context.Context, id catalog.ID) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
}
