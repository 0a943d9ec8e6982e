package ports

import (
	"context"
	"errors"

	"github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
)

var ErrNotFound = errors.New("game not found")

// Repository persists catalog entries.
type Repository interface {
	Save(ctx context.Context, game *domain.Game) (*domain.Game, error)
	GetByID(ctx context.Context, id domain.ID) (*domain.Game, error)
	Delete(ctx context.Context, id domain.ID) error
	List(ctx context.Context) ([]*domain.Game, error)
}

// Service exposes catalog management to the mock API.
type Service interface {
	Create(ctx context.Context, input domain.GameInput, imageURL string) (*domain.Game, error)
	Update(ctx context.Context, id domain.ID, input domain.GameInput, imageURL string) (*domain.Game, error)
	Delete(ctx context.Context, id domain.ID) error
	Get(ctx context.Context, id domain.ID) (*domain.Game, error)
	List(ctx context.Context) ([]*domain.Game, error)
}
