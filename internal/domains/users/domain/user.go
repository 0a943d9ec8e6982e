package domain

import (
	"errors"
	"strings"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
)

var (
	ErrEmptyEmail    = errors.New("email is required")
	ErrEmptyPassword = errors.New("password is required")
	ErrInvalidEmail  = errors.New("email must contain '@'")
	ErrWeakPassword  = errors.New("password must be at least 4 characters")
	ErrEmptyUsername = errors.New("username is required")
	ErrInvalidStatus = errors.New("user status is invalid")
)

// Role names the permission tier of an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Status enumerates account states an administrator can set.
type Status string

const (
	StatusActive  Status = "active"
	StatusBlocked Status = "blocked"
)

// ParseStatus validates a user supplied status string.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case StatusActive, StatusBlocked:
		return status, nil
	default:
		return "", ErrInvalidStatus
	}
}

// User is the profile record the marketplace returns for an account.
type User struct {
	ID             catalog.ID   `json:"id"`
	Email          string       `json:"email"`
	Username       string       `json:"username,omitempty"`
	Role           Role         `json:"role"`
	Status         Status       `json:"status,omitempty"`
	PurchasedGames []catalog.ID `json:"purchasedGames,omitempty"`
}

// IsAdmin reports whether the profile carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Owns reports whether gameID is in the purchased games list.
func (u *User) Owns(gameID catalog.ID) bool {
	if u == nil {
		return false
	}
	return catalog.ContainsID(u.PurchasedGames, gameID)
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.PurchasedGames != nil {
		clone.PurchasedGames = append([]catalog.ID(nil), u.PurchasedGames...)
	}
	return &clone
}
