package application

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	"github.com/Apurer/gamestore-client/internal/domains/users/domain"
	"github.com/Apurer/gamestore-client/internal/domains/users/ports"
)

// Service exposes account use cases for the mock marketplace.
type Service struct {
	repo ports.Repository
	cost int
}

type Option func(*Service)

// WithHashCost sets the bcrypt cost for new passwords.
func WithHashCost(cost int) Option {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.cost = cost
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Register creates an active account with the user role.
func (s *Service) Register(ctx context.Context, registration domain.Registration) (*domain.User, error) {
	return s.create(ctx, registration, domain.RoleUser)
}

// EnsureAdmin creates the admin account unless the email is already taken.
func (s *Service) EnsureAdmin(ctx context.Context, registration domain.Registration) (*domain.User, error) {
	existing, err := s.repo.GetByEmail(ctx, registration.Email)
	if err == nil {
		return existing.Profile(), nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	return s.create(ctx, registration, domain.RoleAdmin)
}

func (s *Service) create(ctx context.Context, registration domain.Registration, role domain.Role) (*domain.User, error) {
	account, err := domain.NewAccount("", registration, role, s.cost)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, account)
	if err != nil {
		return nil, err
	}
	return saved.Profile(), nil
}

// Authenticate checks credentials; blocked accounts cannot sign in.
func (s *Service) Authenticate(ctx context.Context, credentials domain.Credentials) (*domain.User, error) {
	credentials.Normalize()
	if err := credentials.Validate(); err != nil {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	account, err := s.repo.GetByEmail(ctx, credentials.Email)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}
	if !account.CheckPassword(credentials.Password) {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	if account.Status == domain.StatusBlocked {
		return nil, mapError(domain.ErrBlocked)
	}
	return account.Profile(), nil
}

func (s *Service) GetByID(ctx context.Context, id catalog.ID) (*domain.User, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return account.Profile(), nil
}

func (s *Service) List(ctx context.Context) ([]*domain.User, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(accounts))
	for _, account := range accounts {
		users = append(users, account.Profile())
	}
	return users, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id catalog.ID, status domain.Status) (*domain.User, error) {
	parsed, err := domain.ParseStatus(string(status))
	if err != nil {
		return nil, mapError(err)
	}
	return s.update(ctx, id, func(account *domain.Account) { account.Status = parsed })
}

// RecordPurchase adds gameID to the account's purchased games.
func (s *Service) RecordPurchase(ctx context.Context, id, gameID catalog.ID) (*domain.User, error) {
	return s.update(ctx, id, func(account *domain.Account) { account.Purchase(gameID) })
}

func (s *Service) update(ctx context.Context, id catalog.ID, mutate func(*domain.Account)) (*domain.User, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	mutate(account)
	saved, err := s.repo.Save(ctx, account)
	if err != nil {
		return nil, err
	}
	return saved.Profile(), nil
}

var _ ports.Service = (*Service)(nil)
