package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	"github.com/Apurer/gamestore-client/internal/domains/users/domain"
	"github.com/Apurer/gamestore-client/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory account store indexed by id and email.
type Repository struct {
	mu       sync.RWMutex
	accounts map[catalog.ID]*domain.Account
	byEmail  map[string]catalog.ID
	order    []catalog.ID
}

func NewRepository() *Repository {
	return &Repository{
		accounts: map[catalog.ID]*domain.Account{},
		byEmail:  map[string]catalog.ID{},
	}
}

func (r *Repository) Save(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if account == nil {
		return nil, errors.New("account is nil")
	}
	clone := account.Clone()
	email := emailKey(clone.Email)

	r.mu.Lock()
	defer r.mu.Unlock()
	if owner, taken := r.byEmail[email]; taken && !owner.Equal(clone.ID) {
		return nil, ports.ErrEmailTaken
	}
	if clone.ID.IsZero() {
		clone.ID = catalog.ID(uuid.NewString())
	}
	if existing, ok := r.accounts[clone.ID]; ok {
		delete(r.byEmail, emailKey(existing.Email))
	} else {
		r.order = append(r.order, clone.ID)
	}
	r.accounts[clone.ID] = clone
	r.byEmail[email] = clone.ID
	return clone.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id catalog.ID) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return account.Clone(), nil
}

func (r *Repository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[emailKey(email)]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return r.accounts[id].Clone(), nil
}

// List returns accounts in registration order.
func (r *Repository) List(_ context.Context) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Account, 0, len(r.order))
	for _, id := range r.order {
		list = append(list, r.accounts[id].Clone())
	}
	return list, nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
