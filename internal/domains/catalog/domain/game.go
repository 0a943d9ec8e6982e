package domain

import (
	"errors"
	"io"
	"strings"
	"time"
)

var (
	ErrEmptyTitle    = errors.New("game title is required")
	ErrNegativePrice = errors.New("game price must not be negative")
)

// Game is a catalog entry as served by the marketplace API.
type Game struct {
	ID          ID        `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Genre       string    `json:"genre,omitempty"`
	Platform    string    `json:"platform,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
}

// Attachment is a file uploaded alongside a game mutation.
type Attachment struct {
	Filename string
	Content  io.Reader
}

// GameInput carries the fields for creating or updating a game.
type GameInput struct {
	Title       string      `json:"title" validate:"required,max=200"`
	Description string      `json:"description,omitempty" validate:"max=5000"`
	Price       float64     `json:"price" validate:"gte=0"`
	Genre       string      `json:"genre,omitempty"`
	Platform    string      `json:"platform,omitempty"`
	Image       *Attachment `json:"-"`
}

// Normalize trims textual fields in place.
func (in *GameInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Genre = strings.TrimSpace(in.Genre)
	in.Platform = strings.TrimSpace(in.Platform)
}

// Validate enforces the invariants the server expects from a game mutation.
func (in GameInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrEmptyTitle
	}
	if in.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// HasImage reports whether the mutation carries a file and must be sent as
// multipart form data.
func (in GameInput) HasImage() bool {
	return in.Image != nil && in.Image.Content != nil
}
