package mockapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	users "github.com/Apurer/gamestore-client/internal/domains/users/domain"
)

const tokenIssuer = "gamestore-mock"

var errInvalidToken = errors.New("invalid or expired token")

// claims is the JWT payload handed to clients.
type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// tokens signs and verifies HS256 bearer tokens.
type tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func newTokens(secret string, ttl time.Duration) *tokens {
	return &tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *tokens) Issue(user *users.User) (string, error) {
	now := t.now()
	c := claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the user id carried by a valid token.
func (t *tokens) Verify(raw string) (catalog.ID, error) {
	var parsed claims
	_, err := jwt.ParseWithClaims(raw, &parsed, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errInvalidToken, err)
	}
	if parsed.Subject == "" {
		return "", errInvalidToken
	}
	return catalog.ID(parsed.Subject), nil
}
