package ports

import (
	"context"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	"github.com/Apurer/gamestore-client/internal/domains/users/domain"
)

// Service exposes account use cases to the mock API.
type Service interface {
	Register(ctx context.Context, registration domain.Registration) (*domain.User, error)
	Authenticate(ctx context.Context, credentials domain.Credentials) (*domain.User, error)
	EnsureAdmin(ctx context.Context, registration domain.Registration) (*domain.User, error)
	GetByID(ctx context.Context, id catalog.ID) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateStatus(ctx context.Context, id catalog.ID, status domain.Status) (*domain.User, error)
	RecordPurchase(ctx context.Context, id, gameID catalog.ID) (*domain.User, error)
}
