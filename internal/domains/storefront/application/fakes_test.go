package application

import (
	"context"
	"errors"
	"sync"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	store "github.com/Apurer/gamestore-client/internal/domains/store/domain"
	"github.com/Apurer/gamestore-client/internal/domains/storefront/ports"
	users "github.com/Apurer/gamestore-client/internal/domains/users/domain"
)

// fakeAPI records calls and answers from canned values. Unset responses
// behave like an unreachable server.
type fakeAPI struct {
	mu      sync.Mutex
	bearer  string
	bearers []string
	calls   []string

	auth      *ports.AuthResult
	authErr   error
	games     []catalog.Game
	myGames   []catalog.Game
	orders    []store.Order
	order     *store.Order
	users     []users.User
	user      *users.User
	ownership *ports.Ownership
	err       error
}

var errOffline = ports.Unreachable("fake", errors.New("connection refused"))

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Bearer() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bearer
}

func (f *fakeAPI) SetBearer(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bearer = token
	f.bearers = append(f.bearers, token)
}

func (f *fakeAPI) Login(_ context.Context, _ users.Credentials) (*ports.AuthResult, error) {
	f.record("login")
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.auth, nil
}

func (f *fakeAPI) Register(_ context.Context, _ users.Registration) (*ports.AuthResult, error) {
	f.record("register")
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.auth, nil
}

func (f *fakeAPI) ListGames(context.Context) ([]catalog.Game, error) {
	f.record("list games")
	return f.games, f.err
}

func (f *fakeAPI) GetGame(_ context.Context, id catalog.ID) (*catalog.Game, error) {
	f.record("get game")
	if f.err != nil {
		return nil, f.err
	}
	for _, g := range f.games {
		if g.ID.Equal(id) {
			return &g, nil
		}
	}
	return nil, ports.Rejected("get game", 404, "game not found", nil, nil)
}

func (f *fakeAPI) ListMyGames(context.Context) ([]catalog.Game, error) {
	f.record("list my games")
	return f.myGames, f.err
}

func (f *fakeAPI) CheckOwnership(context.Context, catalog.ID) (*ports.Ownership, error) {
	f.record("check ownership")
	if f.err != nil {
		return nil, f.err
	}
	return f.ownership, nil
}

func (f *fakeAPI) CreateGame(_ context.Context, input catalog.GameInput) (*catalog.Game, error) {
	f.record("create game")
	if f.err != nil {
		return nil, f.err
	}
	return &catalog.Game{ID: "new", Title: input.Title, Price: input.Price}, nil
}

func (f *fakeAPI) UpdateGame(_ context.Context, id catalog.ID, input catalog.GameInput) (*catalog.Game, error) {
	f.record("update game")
	if f.err != nil {
		return nil, f.err
	}
	return &catalog.Game{ID: id, Title: input.Title, Price: input.Price}, nil
}

func (f *fakeAPI) DeleteGame(context.Context, catalog.ID) error {
	f.record("delete game")
	return f.err
}

func (f *fakeAPI) ListMyOrders(context.Context) ([]store.Order, error) {
	f.record("list my orders")
	return f.orders, f.err
}

func (f *fakeAPI) ListOrders(context.Context) ([]store.Order, error) {
	f.record("list orders")
	return f.orders, f.err
}

func (f *fakeAPI) CreateOrder(context.Context, catalog.ID) (*store.Order, error) {
	f.record("create order")
	return f.order, f.err
}

func (f *fakeAPI) ConfirmOrder(context.Context, catalog.ID) (*store.Order, error) {
	f.record("confirm order")
	return f.order, f.err
}

func (f *fakeAPI) ListUsers(context.Context) ([]users.User, error) {
	f.record("list users")
	return f.users, f.err
}

func (f *fakeAPI) UpdateUserStatus(_ context.Context, _ catalog.ID, status users.Status) (*users.User, error) {
	f.record("update user status")
	if f.err != nil {
		return nil, f.err
	}
	return &users.User{ID: "5", Status: status}, nil
}

func (f *fakeAPI) CurrentUser(context.Context) (*users.User, error) {
	f.record("current user")
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

// failingStorage fails every write after the first n successful Set calls,
// and any write of the value reject.
type failingStorage struct {
	mu      sync.Mutex
	entries map[string]string
	allowed int
	reject  string
	removed []string
}

var errDiskFull = errors.New("disk full")

func newFailingStorage(allowed int) *failingStorage {
	return &failingStorage{entries: map[string]string{}, allowed: allowed}
}

func (s *failingStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	return v, ok, nil
}

func (s *failingStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.allowed <= 0 || (s.reject != "" && value == s.reject) {
		return errDiskFull
	}
	s.allowed--
	s.entries[key] = value
	return nil
}

func (s *failingStorage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	s.removed = append(s.removed, key)
	return nil
}

var _ ports.API = (*fakeAPI)(nil)
