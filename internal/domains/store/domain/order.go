package domain

import (
	"errors"
	"time"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var (
	ErrInvalidGameID  = errors.New("game id is required")
	ErrInvalidOrderID = errors.New("order id is required")
	ErrInvalidStatus  = errors.New("order status is invalid")
	ErrNotPending     = errors.New("only pending orders can be confirmed")
)

// Order models a purchase of a single game.
type Order struct {
	ID        catalog.ID    `json:"id"`
	UserID    catalog.ID    `json:"userId,omitempty"`
	GameID    catalog.ID    `json:"gameId"`
	Game      *catalog.Game `json:"game,omitempty"`
	Amount    float64       `json:"amount"`
	Status    Status        `json:"status"`
	CreatedAt time.Time     `json:"createdAt,omitzero"`
}

// NewOrder validates and constructs a pending order.
func NewOrder(id, userID, gameID catalog.ID, amount float64, createdAt time.Time) (*Order, error) {
	order := &Order{
		ID:        id,
		UserID:    userID,
		GameID:    gameID,
		Amount:    amount,
		CreatedAt: createdAt,
	}
	if err := order.UpdateStatus(order.Status); err != nil {
		return nil, err
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the order.
func (o *Order) Validate() error {
	if o.GameID.IsZero() {
		return ErrInvalidGameID
	}
	if !isValidStatus(o.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// UpdateStatus ensures only known states are accepted and defaults to pending.
func (o *Order) UpdateStatus(status Status) error {
	if status == "" {
		status = StatusPending
	}
	if !isValidStatus(status) {
		return ErrInvalidStatus
	}
	o.Status = status
	return nil
}

// Confirm completes a pending order.
func (o *Order) Confirm() error {
	if o.Status != StatusPending {
		return ErrNotPending
	}
	o.Status = StatusCompleted
	return nil
}

func isValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}
