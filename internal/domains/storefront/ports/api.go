package ports

import (
	"context"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	store "github.com/Apurer/gamestore-client/internal/domains/store/domain"
	users "github.com/Apurer/gamestore-client/internal/domains/users/domain"
)

// AuthResult is returned by the login and registration endpoints.
type AuthResult struct {
	Token string      `json:"token"`
	User  *users.User `json:"user"`
}

// Ownership answers whether the current user owns a game.
type Ownership struct {
	Owned bool `json:"owned"`
}

// API is the remote marketplace as seen by the client state cache. Every
// failure is returned as *Error.
type API interface {
	// SetBearer configures the default Authorization header; empty clears it.
	SetBearer(token string)

	Login(ctx context.Context, credentials users.Credentials) (*AuthResult, error)
	Register(ctx context.Context, registration users.Registration) (*AuthResult, error)

	ListGames(ctx context.Context) ([]catalog.Game, error)
	GetGame(ctx context.Context, id catalog.ID) (*catalog.Game, error)
	ListMyGames(ctx context.Context) ([]catalog.Game, error)
	CheckOwnership(ctx context.Context, gameID catalog.ID) (*Ownership, error)
	CreateGame(ctx context.Context, input catalog.GameInput) (*catalog.Game, error)
	UpdateGame(ctx context.Context, id catalog.ID, input catalog.GameInput) (*catalog.Game, error)
	DeleteGame(ctx context.Context, id catalog.ID) error

	ListMyOrders(ctx context.Context) ([]store.Order, error)
	ListOrders(ctx context.Context) ([]store.Order, error)
	CreateOrder(ctx context.Context, gameID catalog.ID) (*store.Order, error)
	ConfirmOrder(ctx context.Context, orderID catalog.ID) (*store.Order, error)

	ListUsers(ctx context.Context) ([]users.User, error)
	UpdateUserStatus(ctx context.Context, userID catalog.ID, status users.Status) (*users.User, error)
	CurrentUser(ctx context.Context) (*users.User, error)
}
