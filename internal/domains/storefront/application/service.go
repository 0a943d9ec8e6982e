package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	sessiondomain "github.com/Apurer/gamestore-client/internal/domains/session/domain"
	sessionports "github.com/Apurer/gamestore-client/internal/domains/session/ports"
	store "github.com/Apurer/gamestore-client/internal/domains/store/domain"
	"github.com/Apurer/gamestore-client/internal/domains/storefront/ports"
	users "github.com/Apurer/gamestore-client/internal/domains/users/domain"
)

// Service is the client state cache: the single owner of the session and of
// the last fetched catalog slices. Each slice is replaced wholesale under mu;
// concurrent fetches of one slice resolve last-write-wins.
type Service struct {
	api     ports.API
	storage sessionports.Storage
	logger  *slog.Logger

	mu      sync.RWMutex
	session sessiondomain.Session
	games   []catalog.Game
	myGames []catalog.Game
	orders  []store.Order
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(api ports.API, storage sessionports.Storage, opts ...Option) *Service {
	if storage == nil {
		storage = sessionports.NoopStorage
	}
	s := &Service{
		api:     api,
		storage: storage,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Restore loads the session from durable storage. A half-written or corrupt
// session is discarded so token and user stay paired.
func (s *Service) Restore(ctx context.Context) error {
	token, hasToken, err := s.storage.Get(ctx, sessiondomain.KeyToken)
	if err != nil {
		return fmt.Errorf("read stored token: %w", err)
	}
	rawUser, hasUser, err := s.storage.Get(ctx, sessiondomain.KeyUser)
	if err != nil {
		return fmt.Errorf("read stored user: %w", err)
	}
	if !hasToken && !hasUser {
		return nil
	}

	var user *users.User
	if hasUser {
		if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "discarding unreadable stored user", slog.String("error", err.Error()))
			user = nil
		}
	}
	restored := sessiondomain.New(token, user)
	if !restored.IsAuthenticated() {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "discarding incomplete stored session",
			slog.Bool("token", hasToken), slog.Bool("user", hasUser))
		s.removeStoredSession(ctx)
		return nil
	}

	s.mu.Lock()
	s.session = restored
	s.mu.Unlock()
	s.api.SetBearer(restored.Token)
	return nil
}

// Session returns a copy of the current session.
func (s *Service) Session() sessiondomain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Clone()
}

func (s *Service) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.IsAuthenticated()
}

func (s *Service) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.IsAdmin()
}

func (s *Service) CurrentUser() *users.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.User.Clone()
}

func (s *Service) Games() []catalog.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.games)
}

func (s *Service) PurchasedGames() []catalog.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.myGames)
}

func (s *Service) Orders() []store.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.orders)
}

// Login authenticates, persists the session, and sets the default bearer.
// On failure the cache is unchanged.
func (s *Service) Login(ctx context.Context, credentials users.Credentials) (sessiondomain.Session, error) {
	credentials.Normalize()
	if err := validateInput(credentials, credentials.Validate); err != nil {
		return sessiondomain.Session{}, err
	}
	result, err := s.api.Login(ctx, credentials)
	if err != nil {
		return sessiondomain.Session{}, err
	}
	return s.commitSession(ctx, result)
}

// Register creates an account and stores its session.
func (s *Service) Register(ctx context.Context, registration users.Registration) (sessiondomain.Session, error) {
	registration.Normalize()
	if err := validateInput(registration, registration.Validate); err != nil {
		return sessiondomain.Session{}, err
	}
	result, err := s.api.Register(ctx, registration)
	if err != nil {
		return sessiondomain.Session{}, err
	}
	return s.commitSession(ctx, result)
}

// Logout clears the session from memory and durable storage. It cannot fail;
// storage errors are logged.
func (s *Service) Logout(ctx context.Context) {
	s.mu.Lock()
	s.session = sessiondomain.Session{}
	s.mu.Unlock()
	s.api.SetBearer("")
	s.removeStoredSession(ctx)
}

func (s *Service) FetchGames(ctx context.Context) ([]catalog.Game, error) {
	games, err := s.api.ListGames(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.games = cloneSlice(games)
	s.mu.Unlock()
	return games, nil
}

// FetchGame loads one game without touching the cache.
func (s *Service) FetchGame(ctx context.Context, id catalog.ID) (*catalog.Game, error) {
	return s.api.GetGame(ctx, id)
}

func (s *Service) FetchMyGames(ctx context.Context) ([]catalog.Game, error) {
	if err := s.requireToken("fetch my games"); err != nil {
		return nil, err
	}
	games, err := s.api.ListMyGames(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.myGames = cloneSlice(games)
	s.mu.Unlock()
	return games, nil
}

func (s *Service) FetchOrders(ctx context.Context) ([]store.Order, error) {
	if err := s.requireToken("fetch orders"); err != nil {
		return nil, err
	}
	orders, err := s.api.ListMyOrders(ctx)
	if err != nil {
		return nil, err
	}
	s.replaceOrders(orders)
	return orders, nil
}

// FetchAllOrders loads every order; the server enforces the admin role.
func (s *Service) FetchAllOrders(ctx context.Context) ([]store.Order, error) {
	if err := s.requireToken("fetch all orders"); err != nil {
		return nil, err
	}
	orders, err := s.api.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	s.replaceOrders(orders)
	return orders, nil
}

func (s *Service) CreateOrder(ctx context.Context, gameID catalog.ID) (*store.Order, error) {
	if err := s.requireToken("create order"); err != nil {
		return nil, err
	}
	if gameID.IsZero() {
		return nil, mapError(store.ErrInvalidGameID)
	}
	return s.api.CreateOrder(ctx, gameID)
}

func (s *Service) ConfirmOrder(ctx context.Context, orderID catalog.ID) (*store.Order, error) {
	if err := s.requireToken("confirm order"); err != nil {
		return nil, err
	}
	if orderID.IsZero() {
		return nil, mapError(store.ErrInvalidOrderID)
	}
	return s.api.ConfirmOrder(ctx, orderID)
}

func (s *Service) FetchUsers(ctx context.Context) ([]users.User, error) {
	if err := s.requireToken("fetch users"); err != nil {
		return nil, err
	}
	return s.api.ListUsers(ctx)
}

func (s *Service) UpdateUserStatus(ctx context.Context, userID catalog.ID, status users.Status) (*users.User, error) {
	if err := s.requireToken("update user status"); err != nil {
		return nil, err
	}
	parsed, err := users.ParseStatus(string(status))
	if err != nil {
		return nil, mapError(err)
	}
	return s.api.UpdateUserStatus(ctx, userID, parsed)
}

// FetchUserProfile refreshes the cached profile and persists it.
func (s *Service) FetchUserProfile(ctx context.Context) (*users.User, error) {
	if err := s.requireToken("fetch user profile"); err != nil {
		return nil, err
	}
	user, err := s.api.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.session = s.session.WithUser(user)
	current := s.session.Clone()
	s.mu.Unlock()
	if current.IsAuthenticated() {
		if err := s.storeUser(ctx, current.User); err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to persist refreshed profile", slog.String("error", err.Error()))
		}
	}
	return user.Clone(), nil
}

func (s *Service) CreateGame(ctx context.Context, input catalog.GameInput) (*catalog.Game, error) {
	if err := s.requireToken("create game"); err != nil {
		return nil, err
	}
	input.Normalize()
	if err := validateInput(input, input.Validate); err != nil {
		return nil, err
	}
	return s.api.CreateGame(ctx, input)
}

func (s *Service) UpdateGame(ctx context.Context, id catalog.ID, input catalog.GameInput) (*catalog.Game, error) {
	if err := s.requireToken("update game"); err != nil {
		return nil, err
	}
	input.Normalize()
	if err := validateInput(input, input.Validate); err != nil {
		return nil, err
	}
	return s.api.UpdateGame(ctx, id, input)
}

func (s *Service) DeleteGame(ctx context.Context, id catalog.ID) error {
	if err := s.requireToken("delete game"); err != nil {
		return err
	}
	return s.api.DeleteGame(ctx, id)
}

// CheckGameOwnership asks the server; without a session the answer is "not
// owned", and when the call fails the cached purchased-games list decides.
func (s *Service) CheckGameOwnership(ctx context.Context, gameID catalog.ID) ports.Ownership {
	current := s.Session()
	if !current.IsAuthenticated() {
		return ports.Ownership{Owned: false}
	}
	ownership, err := s.api.CheckOwnership(ctx, gameID)
	if err == nil && ownership != nil {
		return *ownership
	}
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "ownership check failed, using cached profile",
			slog.String("game.id", gameID.String()),
			slog.String("error.kind", ports.KindOf(err).String()),
			slog.String("error", err.Error()))
	}
	return ports.Ownership{Owned: current.User.Owns(gameID)}
}

func (s *Service) commitSession(ctx context.Context, result *ports.AuthResult) (sessiondomain.Session, error) {
	next := sessiondomain.New(result.Token, result.User)
	if !next.IsAuthenticated() {
		return sessiondomain.Session{}, ports.Rejected("authenticate", 0, ports.MessageBadResponse, nil, errors.New("missing token or user"))
	}
	if err := s.storeSession(ctx, next); err != nil {
		s.rollbackStoredSession(ctx)
		return sessiondomain.Session{}, fmt.Errorf("%w: %w", ErrPersistSession, err)
	}

	s.mu.Lock()
	s.session = next
	s.mu.Unlock()
	s.api.SetBearer(next.Token)
	return next.Clone(), nil
}

func (s *Service) storeSession(ctx context.Context, session sessiondomain.Session) error {
	if err := s.storage.Set(ctx, sessiondomain.KeyToken, session.Token); err != nil {
		return err
	}
	return s.storeUser(ctx, session.User)
}

// rollbackStoredSession brings storage back in line with the in-memory
// session after a failed write. When the previous session cannot be written
// back it is dropped from memory as well.
func (s *Service) rollbackStoredSession(ctx context.Context) {
	previous := s.Session()
	if !previous.IsAuthenticated() {
		s.removeStoredSession(ctx)
		return
	}
	err := s.storeSession(ctx, previous)
	if err == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to restore previous session, signing out",
		slog.String("error", err.Error()))
	s.Logout(ctx)
}

func (s *Service) storeUser(ctx context.Context, user *users.User) error {
	encoded, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.storage.Set(ctx, sessiondomain.KeyUser, string(encoded))
}

func (s *Service) removeStoredSession(ctx context.Context) {
	for _, key := range []string{sessiondomain.KeyToken, sessiondomain.KeyUser} {
		if err := s.storage.Remove(ctx, key); err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to remove stored session field",
				slog.String("key", key), slog.String("error", err.Error()))
		}
	}
}

func (s *Service) requireToken(op string) error {
	if !s.IsAuthenticated() {
		return ports.NoToken(op)
	}
	return nil
}

func (s *Service) replaceOrders(orders []store.Order) {
	s.mu.Lock()
	s.orders = cloneSlice(orders)
	s.mu.Unlock()
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return append(make([]T, 0, len(in)), in...)
}

var _ ports.Service = (*Service)(nil)
