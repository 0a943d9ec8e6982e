package application

import (
	"context"
	"time"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	"github.com/Apurer/gamestore-client/internal/domains/store/domain"
	"github.com/Apurer/gamestore-client/internal/domains/store/ports"
)

// Service orchestrates order use cases for the mock marketplace.
type Service struct {
	repo ports.Repository
	now  func() time.Time
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock overrides the time source used for order timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// PlaceOrder records a pending purchase of game at its current price.
func (s *Service) PlaceOrder(ctx context.Context, userID catalog.ID, game catalog.Game) (*domain.Order, error) {
	order, err := domain.NewOrder("", userID, game.ID, game.Price, s.now().UTC())
	if err != nil {
		return nil, mapError(err)
	}
	order.Game = &game
	return s.repo.Save(ctx, order)
}

// ConfirmOrder completes a pending order owned by userID.
func (s *Service) ConfirmOrder(ctx context.Context, orderID, userID catalog.ID) (*domain.Order, error) {
	if orderID.IsZero() {
		return nil, mapError(domain.ErrInvalidOrderID)
	}
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.UserID.Equal(userID) {
		return nil, ErrForbidden
	}
	if err := order.Confirm(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, order)
}

func (s *Service) GetOrderByID(ctx context.Context, id catalog.ID) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListUserOrders(ctx context.Context, userID catalog.ID) ([]*domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

var _ ports.Service = (*Service)(nil)
