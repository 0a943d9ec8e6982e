package mockapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	store "github.com/Apurer/gamestore-client/internal/domains/store/domain"
	users "github.com/Apurer/gamestore-client/internal/domains/users/domain"
)

type authResponse struct {
	Token string      `json:"token"`
	User  *users.User `json:"user"`
}

// Post /auth/login
func (s *Server) login(c *gin.Context) {
	var payload users.Credentials
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.badRequest(c, "email and password are required")
		return
	}
	user, err := s.users.Authenticate(c.Request.Context(), payload)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respondSession(c, http.StatusOK, user)
}

// Post /auth/register
func (s *Server) register(c *gin.Context) {
	var payload users.Registration
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.badRequest(c, "username, email and password are required")
		return
	}
	user, err := s.users.Register(c.Request.Context(), payload)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respondSession(c, http.StatusCreated, user)
}

func (s *Server) respondSession(c *gin.Context, status int, user *users.User) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(status, authResponse{Token: token, User: user})
}

// Get /games
func (s *Server) listGames(c *gin.Context) {
	games, err := s.catalog.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// Get /games/:id
func (s *Server) getGame(c *gin.Context) {
	game, err := s.catalog.Get(c.Request.Context(), catalog.ID(c.Param("id")))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// Get /games/my-games
func (s *Server) listMyGames(c *gin.Context) {
	user := currentUser(c)
	games := make([]*catalog.Game, 0, len(user.PurchasedGames))
	for _, id := range user.PurchasedGames {
		game, err := s.catalog.Get(c.Request.Context(), id)
		if err != nil {
			// Deleted games drop out of the library.
			continue
		}
		games = append(games, game)
	}
	c.JSON(http.StatusOK, games)
}

// Get /games/:id/check-ownership
func (s *Server) checkOwnership(c *gin.Context) {
	owned := currentUser(c).Owns(catalog.ID(c.Param("id")))
	c.JSON(http.StatusOK, gin.H{"owned": owned})
}

// Post /games
func (s *Server) createGame(c *gin.Context) {
	input, imageURL, ok := s.bindGameInput(c)
	if !ok {
		return
	}
	game, err := s.catalog.Create(c.Request.Context(), input, imageURL)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

// Put /games/:id
func (s *Server) updateGame(c *gin.Context) {
	input, imageURL, ok := s.bindGameInput(c)
	if !ok {
		return
	}
	game, err := s.catalog.Update(c.Request.Context(), catalog.ID(c.Param("id")), input, imageURL)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// Delete /games/:id
func (s *Server) deleteGame(c *gin.Context) {
	if err := s.catalog.Delete(c.Request.Context(), catalog.ID(c.Param("id"))); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Game deleted successfully"})
}

// bindGameInput reads JSON or multipart form data. An uploaded image is
// stored and its public URL returned.
func (s *Server) bindGameInput(c *gin.Context) (catalog.GameInput, string, bool) {
	var input catalog.GameInput
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		if err := c.ShouldBindJSON(&input); err != nil {
			s.badRequest(c, "invalid game payload")
			return input, "", false
		}
		return input, "", true
	}

	input.Title = c.PostForm("title")
	input.Description = c.PostForm("description")
	input.Genre = c.PostForm("genre")
	input.Platform = c.PostForm("platform")
	if raw := strings.TrimSpace(c.PostForm("price")); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.validationFailed(c, map[string]string{"price": "must be a number"})
			return input, "", false
		}
		input.Price = price
	}

	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return input, "", true
	}
	if err != nil {
		s.badRequest(c, "invalid image upload")
		return input, "", false
	}
	name, err := s.images.Put(header)
	if err != nil {
		s.badRequest(c, fmt.Sprintf("invalid image upload: %s", err))
		return input, "", false
	}
	return input, s.cfg.BasePath + "/uploads/" + name, true
}

// Get /uploads/:name
func (s *Server) serveImage(c *gin.Context) {
	img, ok := s.images.Get(c.Param("name"))
	if !ok {
		s.responder.NotFound(c, "image", c.Param("name"))
		return
	}
	c.Data(http.StatusOK, img.contentType, img.data)
}

type orderRequest struct {
	GameID catalog.ID `json:"gameId"`
}

// Post /orders
func (s *Server) createOrder(c *gin.Context) {
	var payload orderRequest
	if err := c.ShouldBindJSON(&payload); err != nil || payload.GameID.IsZero() {
		s.badRequest(c, "gameId is required")
		return
	}
	user := currentUser(c)
	if user.Owns(payload.GameID) {
		s.fail(c, errAlreadyOwned)
		return
	}
	game, err := s.catalog.Get(c.Request.Context(), payload.GameID)
	if err != nil {
		s.fail(c, err)
		return
	}
	order, err := s.orders.PlaceOrder(c.Request.Context(), user.ID, *game)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// Post /orders/:id/confirm
func (s *Server) confirmOrder(c *gin.Context) {
	ctx := c.Request.Context()
	user := currentUser(c)
	order, err := s.orders.ConfirmOrder(ctx, catalog.ID(c.Param("id")), user.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	if _, err := s.users.RecordPurchase(ctx, user.ID, order.GameID); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Get /orders/my-orders
func (s *Server) listMyOrders(c *gin.Context) {
	orders, err := s.orders.ListUserOrders(c.Request.Context(), currentUser(c).ID)
	s.respondOrders(c, orders, err)
}

// Get /orders
func (s *Server) listOrders(c *gin.Context) {
	orders, err := s.orders.ListOrders(c.Request.Context())
	s.respondOrders(c, orders, err)
}

func (s *Server) respondOrders(c *gin.Context, orders []*store.Order, err error) {
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Get /users/current
func (s *Server) getCurrentUser(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

// Get /users
func (s *Server) listUsers(c *gin.Context) {
	list, err := s.users.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type statusRequest struct {
	Status users.Status `json:"status"`
}

// Put /users/:id/status
func (s *Server) updateUserStatus(c *gin.Context) {
	var payload statusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.badRequest(c, "status is required")
		return
	}
	user, err := s.users.UpdateStatus(c.Request.Context(), catalog.ID(c.Param("id")), payload.Status)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
