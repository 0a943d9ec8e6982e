package ports

import (
	"context"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	sessiondomain "github.com/Apurer/gamestore-client/internal/domains/session/domain"
	store "github.com/Apurer/gamestore-client/internal/domains/store/domain"
	users "github.com/Apurer/gamestore-client/internal/domains/users/domain"
)

// SessionView is the read-only slice the navigation guard consults.
type SessionView interface {
	IsAuthenticated() bool
	IsAdmin() bool
}

// Service exposes the client state cache to commands.
type Service interface {
	SessionView

	Restore(ctx context.Context) error
	Session() sessiondomain.Session
	CurrentUser() *users.User
	Games() []catalog.Game
	PurchasedGames() []catalog.Game
	Orders() []store.Order

	Login(ctx context.Context, credentials users.Credentials) (sessiondomain.Session, error)
	Register(ctx context.Context, registration users.Registration) (sessiondomain.Session, error)
	Logout(ctx context.Context)

	FetchGames(ctx context.Context) ([]catalog.Game, error)
	FetchGame(ctx context.Context, id catalog.ID) (*catalog.Game, error)
	FetchMyGames(ctx context.Context) ([]catalog.Game, error)
	FetchOrders(ctx context.Context) ([]store.Order, error)
	FetchAllOrders(ctx context.Context) ([]store.Order, error)
	CreateOrder(ctx context.Context, gameID catalog.ID) (*store.Order, error)
	ConfirmOrder(ctx context.Context, orderID catalog.ID) (*store.Order, error)

	FetchUsers(ctx context.Context) ([]users.User, error)
	UpdateUserStatus(ctx context.Context, userID catalog.ID, status users.Status) (*users.User, error)
	FetchUserProfile(ctx context.Context) (*users.User, error)

	CreateGame(ctx context.Context, input catalog.GameInput) (*catalog.Game, error)
	UpdateGame(ctx context.Context, id catalog.ID, input catalog.GameInput) (*catalog.Game, error)
	DeleteGame(ctx context.Context, id catalog.ID) error

	CheckGameOwnership(ctx context.Context, gameID catalog.ID) Ownership
}
