package domain

import "strings"

// Credentials are submitted to obtain a session.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Normalize trims the email; passwords are sent verbatim.
func (c *Credentials) Normalize() {
	c.Email = strings.TrimSpace(c.Email)
}

// Validate checks the credentials before any call is made.
func (c Credentials) Validate() error {
	email := strings.TrimSpace(c.Email)
	if email == "" {
		return ErrEmptyEmail
	}
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	if c.Password == "" {
		return ErrEmptyPassword
	}
	return nil
}

// Registration carries the fields for a new account.
type Registration struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
}

// Normalize trims username and email.
func (r *Registration) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
}

// Validate applies the basic account invariants.
func (r Registration) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return ErrEmptyUsername
	}
	if err := (Credentials{Email: r.Email, Password: r.Password}).Validate(); err != nil {
		return err
	}
	if len(r.Password) < 4 {
		return ErrWeakPassword
	}
	return nil
}
