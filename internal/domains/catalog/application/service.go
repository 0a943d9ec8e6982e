package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	"github.com/Apurer/gamestore-client/internal/domains/catalog/ports"
)

// ErrInvalidInput signals the request violated a catalog invariant.
var ErrInvalidInput = errors.New("invalid game input")

// Service manages the mock marketplace catalog.
type Service struct {
	repo ports.Repository
	now  func() time.Time
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create adds a game; imageURL may be empty.
func (s *Service) Create(ctx context.Context, input domain.GameInput, imageURL string) (*domain.Game, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, mapError(err)
	}
	game := &domain.Game{CreatedAt: s.now().UTC(), ImageURL: imageURL}
	apply(game, input)
	return s.repo.Save(ctx, game)
}

// Update replaces the game's fields; an empty imageURL keeps the current image.
func (s *Service) Update(ctx context.Context, id domain.ID, input domain.GameInput, imageURL string) (*domain.Game, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, mapError(err)
	}
	game, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(game, input)
	if imageURL != "" {
		game.ImageURL = imageURL
	}
	return s.repo.Save(ctx, game)
}

func (s *Service) Delete(ctx context.Context, id domain.ID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id domain.ID) (*domain.Game, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*domain.Game, error) {
	return s.repo.List(ctx)
}

func apply(game *domain.Game, input domain.GameInput) {
	game.Title = input.Title
	game.Description = input.Description
	game.Price = input.Price
	game.Genre = input.Genre
	game.Platform = input.Platform
}

func mapError(err error) error {
	if errors.Is(err, domain.ErrEmptyTitle) || errors.Is(err, domain.ErrNegativePrice) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

var _ ports.Service = (*Service)(nil)
