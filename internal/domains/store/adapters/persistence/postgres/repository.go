package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	"github.com/Apurer/gamestore-client/internal/domains/store/domain"
	"github.com/Apurer/gamestore-client/internal/domains/store/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate to a relational table. The game is a
// snapshot taken when the order was placed.
type orderRecord struct {
	ID        string        `gorm:"primaryKey;column:id;size:64"`
	UserID    string        `gorm:"column:user_id;size:64;index"`
	GameID    string        `gorm:"column:game_id;size:64;index"`
	Game      *catalog.Game `gorm:"column:game;type:text;serializer:json"`
	Amount    float64       `gorm:"column:amount"`
	Status    string        `gorm:"column:status;type:varchar(32);index"`
	CreatedAt time.Time     `gorm:"column:created_at;index"`
	UpdatedAt time.Time     `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Save inserts or updates an order.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := *order
	if err := clone.UpdateStatus(clone.Status); err != nil {
		return nil, err
	}
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	if clone.ID.IsZero() {
		clone.ID = catalog.ID(uuid.NewString())
	}
	record := toRecord(&clone)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"status":     record.Status,
				"amount":     record.Amount,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, clone.ID)
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id catalog.ID) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns every order, oldest first.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.find(ctx, r.db)
}

// ListByUser returns the orders placed by userID, oldest first.
func (r *Repository) ListByUser(ctx context.Context, userID catalog.ID) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.find(ctx, r.db.Where("user_id = ?", userID.String()))
}

func (r *Repository) find(ctx context.Context, query *gorm.DB) ([]*domain.Order, error) {
	var records []orderRecord
	if err := query.WithContext(ctx).Order("created_at ASC, id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	record := orderRecord{
		ID:        order.ID.String(),
		UserID:    order.UserID.String(),
		GameID:    order.GameID.String(),
		Amount:    order.Amount,
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
	}
	if order.Game != nil {
		game := *order.Game
		record.Game = &game
	}
	return record
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:        catalog.ID(r.ID),
		UserID:    catalog.ID(r.UserID),
		GameID:    catalog.ID(r.GameID),
		Game:      r.Game,
		Amount:    r.Amount,
		Status:    domain.Status(r.Status),
		CreatedAt: r.CreatedAt,
	}
}
