package mockapi

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	users "github.com/Apurer/gamestore-client/internal/domains/users/domain"
)

const (
	requestIDHeader = "X-Request-ID"
	currentUserKey  = "gamestore.currentUser"
)

// requestID echoes the caller's X-Request-ID or assigns one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Set(requestIDHeader, id)
		c.Next()
	}
}

func accessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.LogAttrs(c.Request.Context(), slog.LevelInfo, "request handled",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request.id", c.GetString(requestIDHeader)),
		)
	}
}

// authenticate resolves the bearer token to an active user.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			s.fail(c, errMissingToken)
			return
		}
		userID, err := s.tokens.Verify(raw)
		if err != nil {
			s.fail(c, err)
			return
		}
		user, err := s.users.GetByID(c.Request.Context(), userID)
		if err != nil {
			s.fail(c, errInvalidToken)
			return
		}
		if user.Status == users.StatusBlocked {
			s.fail(c, users.ErrBlocked)
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentUser(c).IsAdmin() {
			s.fail(c, errAdminOnly)
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *users.User {
	if v, ok := c.Get(currentUserKey); ok {
		if user, ok := v.(*users.User); ok {
			return user
		}
	}
	return nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
