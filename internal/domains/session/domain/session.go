// Package domain models the authenticated session held by the client.
package domain

import (
	"strings"

	users "github.com/Apurer/gamestore-client/internal/domains/users/domain"
)

// Durable storage keys for the session fields.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Session pairs a bearer token with the profile it was issued for. Token and
// User are set and cleared together.
type Session struct {
	Token string
	User  *users.User
}

// New builds a session; an empty token or nil user yields the empty session.
func New(token string, user *users.User) Session {
	token = strings.TrimSpace(token)
	if token == "" || user == nil {
		return Session{}
	}
	return Session{Token: token, User: user.Clone()}
}

// IsAuthenticated reports whether a bearer token is present.
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}

// IsAdmin reports whether the session belongs to an administrator.
func (s Session) IsAdmin() bool {
	return s.IsAuthenticated() && s.User.IsAdmin()
}

// WithUser returns a copy carrying a refreshed profile. The token is kept.
func (s Session) WithUser(user *users.User) Session {
	if !s.IsAuthenticated() || user == nil {
		return s
	}
	return Session{Token: s.Token, User: user.Clone()}
}

// Clone returns a deep copy.
func (s Session) Clone() Session {
	return Session{Token: s.Token, User: s.User.Clone()}
}
