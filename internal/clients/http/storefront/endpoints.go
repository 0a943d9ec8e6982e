package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/oapi-codegen/runtime"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	store "github.com/Apurer/gamestore-client/internal/domains/store/domain"
	storefrontports "github.com/Apurer/gamestore-client/internal/domains/storefront/ports"
	users "github.com/Apurer/gamestore-client/internal/domains/users/domain"
)

// Operation names, used in errors and telemetry.
const (
	opLogin            = "login"
	opRegister         = "register"
	opListGames        = "list games"
	opGetGame          = "get game"
	opListMyGames      = "list my games"
	opCheckOwnership   = "check ownership"
	opCreateGame       = "create game"
	opUpdateGame       = "update game"
	opDeleteGame       = "delete game"
	opListMyOrders     = "list my orders"
	opListOrders       = "list orders"
	opCreateOrder      = "create order"
	opConfirmOrder     = "confirm order"
	opListUsers        = "list users"
	opUpdateUserStatus = "update user status"
	opCurrentUser      = "current user"
)

// Login exchanges credentials for a token and profile.
func (c *Client) Login(ctx context.Context, credentials users.Credentials) (*storefrontports.AuthResult, error) {
	var out storefrontports.AuthResult
	payload := users.Credentials{Email: credentials.Email, Password: credentials.Password}
	if err := c.doJSON(ctx, opLogin, http.MethodPost, "/auth/login", payload, &out); err != nil {
		return nil, err
	}
	if err := requireAuthResult(opLogin, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns its session.
func (c *Client) Register(ctx context.Context, registration users.Registration) (*storefrontports.AuthResult, error) {
	var out storefrontports.AuthResult
	if err := c.doJSON(ctx, opRegister, http.MethodPost, "/auth/register", registration, &out); err != nil {
		return nil, err
	}
	if err := requireAuthResult(opRegister, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListGames(ctx context.Context) ([]catalog.Game, error) {
	var out []catalog.Game
	if err := c.doJSON(ctx, opListGames, http.MethodGet, "/games", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetGame(ctx context.Context, id catalog.ID) (*catalog.Game, error) {
	segment, err := pathParam(opGetGame, "id", id)
	if err != nil {
		return nil, err
	}
	var out catalog.Game
	if err := c.doJSON(ctx, opGetGame, http.MethodGet, "/games/"+segment, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListMyGames(ctx context.Context) ([]catalog.Game, error) {
	var out []catalog.Game
	if err := c.doJSON(ctx, opListMyGames, http.MethodGet, "/games/my-games", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CheckOwnership(ctx context.Context, gameID catalog.ID) (*storefrontports.Ownership, error) {
	segment, err := pathParam(opCheckOwnership, "id", gameID)
	if err != nil {
		return nil, err
	}
	var out storefrontports.Ownership
	if err := c.doJSON(ctx, opCheckOwnership, http.MethodGet, "/games/"+segment+"/check-ownership", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateGame posts a new game, as multipart form data when an image is attached.
func (c *Client) CreateGame(ctx context.Context, input catalog.GameInput) (*catalog.Game, error) {
	body, contentType, err := encodeGameInput(input)
	if err != nil {
		return nil, storefrontports.SetupFailed(opCreateGame, err)
	}
	var out catalog.Game
	if err := c.send(ctx, opCreateGame, http.MethodPost, "/games", body, contentType, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateGame replaces a game's fields, as multipart form data when an image is attached.
func (c *Client) UpdateGame(ctx context.Context, id catalog.ID, input catalog.GameInput) (*catalog.Game, error) {
	segment, err := pathParam(opUpdateGame, "id", id)
	if err != nil {
		return nil, err
	}
	body, contentType, err := encodeGameInput(input)
	if err != nil {
		return nil, storefrontports.SetupFailed(opUpdateGame, err)
	}
	var out catalog.Game
	if err := c.send(ctx, opUpdateGame, http.MethodPut, "/games/"+segment, body, contentType, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteGame(ctx context.Context, id catalog.ID) error {
	segment, err := pathParam(opDeleteGame, "id", id)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, opDeleteGame, http.MethodDelete, "/games/"+segment, nil, nil)
}

func (c *Client) ListMyOrders(ctx context.Context) ([]store.Order, error) {
	var out []store.Order
	if err := c.doJSON(ctx, opListMyOrders, http.MethodGet, "/orders/my-orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]store.Order, error) {
	var out []store.Order
	if err := c.doJSON(ctx, opListOrders, http.MethodGet, "/orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateOrder(ctx context.Context, gameID catalog.ID) (*store.Order, error) {
	if gameID.IsZero() {
		return nil, storefrontports.SetupFailed(opCreateOrder, store.ErrInvalidGameID)
	}
	payload := map[string]string{"gameId": gameID.String()}
	var out store.Order
	if err := c.doJSON(ctx, opCreateOrder, http.MethodPost, "/orders", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ConfirmOrder(ctx context.Context, orderID catalog.ID) (*store.Order, error) {
	segment, err := pathParam(opConfirmOrder, "id", orderID)
	if err != nil {
		return nil, err
	}
	var out store.Order
	if err := c.doJSON(ctx, opConfirmOrder, http.MethodPost, "/orders/"+segment+"/confirm", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]users.User, error) {
	var out []users.User
	if err := c.doJSON(ctx, opListUsers, http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateUserStatus sets an account status; a response without a status is
// rejected as malformed.
func (c *Client) UpdateUserStatus(ctx context.Context, userID catalog.ID, status users.Status) (*users.User, error) {
	segment, err := pathParam(opUpdateUserStatus, "id", userID)
	if err != nil {
		return nil, err
	}
	payload := map[string]string{"status": string(status)}
	var out users.User
	if err := c.doJSON(ctx, opUpdateUserStatus, http.MethodPut, "/users/"+segment+"/status", payload, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(out.Status)) == "" {
		return nil, storefrontports.Rejected(opUpdateUserStatus, http.StatusOK, storefrontports.MessageBadResponse, nil, errors.New("response is missing status"))
	}
	return &out, nil
}

func (c *Client) CurrentUser(ctx context.Context) (*users.User, error) {
	var out users.User
	if err := c.doJSON(ctx, opCurrentUser, http.MethodGet, "/users/current", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// pathParam renders an identifier as an escaped path segment.
func pathParam(op, name string, id catalog.ID) (string, error) {
	if id.IsZero() {
		return "", storefrontports.SetupFailed(op, fmt.Errorf("%s is required", name))
	}
	segment, err := runtime.StyleParamWithLocation("simple", false, name, runtime.ParamLocationPath, strings.TrimSpace(id.String()))
	if err != nil {
		return "", storefrontports.SetupFailed(op, fmt.Errorf("encode %s: %w", name, err))
	}
	return segment, nil
}

func requireAuthResult(op string, out *storefrontports.AuthResult) error {
	if strings.TrimSpace(out.Token) == "" || out.User == nil {
		return storefrontports.Rejected(op, http.StatusOK, storefrontports.MessageBadResponse, nil, errors.New("response is missing token or user"))
	}
	return nil
}
