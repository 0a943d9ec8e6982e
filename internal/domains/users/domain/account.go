package domain

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
)

// ErrBlocked is returned when a blocked account tries to sign in.
var ErrBlocked = errors.New("account is blocked")

// Account is the server-side record behind a User: the public profile plus
// the password hash.
type Account struct {
	User
	PasswordHash []byte
}

// NewAccount hashes the registration password with the given bcrypt cost.
func NewAccount(id catalog.ID, registration Registration, role Role, cost int) (*Account, error) {
	registration.Normalize()
	if err := registration.Validate(); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(registration.Password), cost)
	if err != nil {
		return nil, err
	}
	return &Account{
		User: User{
			ID:       id,
			Email:    registration.Email,
			Username: registration.Username,
			Role:     role,
			Status:   StatusActive,
		},
		PasswordHash: hash,
	}, nil
}

// CheckPassword compares password against the stored hash.
func (a *Account) CheckPassword(password string) bool {
	if a == nil || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)) == nil
}

// Profile returns a copy of the public profile.
func (a *Account) Profile() *User {
	if a == nil {
		return nil
	}
	return a.User.Clone()
}

// Purchase adds gameID to the purchased list once.
func (a *Account) Purchase(gameID catalog.ID) {
	if !a.Owns(gameID) {
		a.PurchasedGames = append(a.PurchasedGames, gameID)
	}
}

// Clone returns a deep copy.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	return &Account{
		User:         *a.User.Clone(),
		PasswordHash: append([]byte(nil), a.PasswordHash...),
	}
}
