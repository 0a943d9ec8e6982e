package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	"github.com/Apurer/gamestore-client/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog.
type Repository struct {
	mu    sync.RWMutex
	games map[domain.ID]*domain.Game
}

func NewRepository() *Repository {
	return &Repository{games: map[domain.ID]*domain.Game{}}
}

func (r *Repository) Save(_ context.Context, game *domain.Game) (*domain.Game, error) {
	if game == nil {
		return nil, errors.New("game is nil")
	}
	clone := *game
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID.IsZero() {
		clone.ID = domain.ID(uuid.NewString())
	}
	r.games[clone.ID] = &clone
	saved := clone
	return &saved, nil
}

func (r *Repository) GetByID(_ context.Context, id domain.ID) (*domain.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	game, ok := r.games[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *game
	return &clone, nil
}

func (r *Repository) Delete(_ context.Context, id domain.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.games, id)
	return nil
}

// List returns games newest first.
func (r *Repository) List(_ context.Context) ([]*domain.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Game, 0, len(r.games))
	for _, game := range r.games {
		clone := *game
		list = append(list, &clone)
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}
