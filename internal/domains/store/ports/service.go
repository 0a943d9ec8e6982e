package ports

import (
	"context"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	"github.com/Apurer/gamestore-client/internal/domains/store/domain"
)

// Service exposes server-side order use cases to the mock API.
type Service interface {
	PlaceOrder(ctx context.Context, userID catalog.ID, game catalog.Game) (*domain.Order, error)
	ConfirmOrder(ctx context.Context, orderID, userID catalog.ID) (*domain.Order, error)
	GetOrderByID(ctx context.Context, id catalog.ID) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	ListUserOrders(ctx context.Context, userID catalog.ID) ([]*domain.Order, error)
}
