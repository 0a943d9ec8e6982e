package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	"github.com/Apurer/gamestore-client/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists catalog entries in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type gameRecord struct {
	ID          string    `gorm:"primaryKey;column:id;size:64"`
	Title       string    `gorm:"column:title;size:200"`
	Description string    `gorm:"column:description;type:text"`
	Price       float64   `gorm:"column:price"`
	Genre       string    `gorm:"column:genre;size:64"`
	Platform    string    `gorm:"column:platform;size:64"`
	ImageURL    string    `gorm:"column:image_url"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (gameRecord) TableName() string { return "games" }

// Save inserts or updates a game.
func (r *Repository) Save(ctx context.Context, game *domain.Game) (*domain.Game, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if game == nil {
		return nil, errors.New("game is nil")
	}
	record := toRecord(game)
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "description", "price", "genre", "platform", "image_url", "updated_at"}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, domain.ID(record.ID))
}

// GetByID fetches a game by identifier.
func (r *Repository) GetByID(ctx context.Context, id domain.ID) (*domain.Game, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record gameRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Delete removes a game by identifier.
func (r *Repository) Delete(ctx context.Context, id domain.ID) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&gameRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns games newest first.
func (r *Repository) List(ctx context.Context) ([]*domain.Game, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []gameRecord
	if err := r.db.WithContext(ctx).Order("created_at DESC, id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	games := make([]*domain.Game, 0, len(records))
	for i := range records {
		games = append(games, records[i].toDomain())
	}
	return games, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres game repository not configured")
	}
	return nil
}

func toRecord(game *domain.Game) gameRecord {
	return gameRecord{
		ID:          game.ID.String(),
		Title:       game.Title,
		Description: game.Description,
		Price:       game.Price,
		Genre:       game.Genre,
		Platform:    game.Platform,
		ImageURL:    game.ImageURL,
		CreatedAt:   game.CreatedAt,
	}
}

func (r gameRecord) toDomain() *domain.Game {
	return &domain.Game{
		ID:          domain.ID(r.ID),
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Genre:       r.Genre,
		Platform:    r.Platform,
		ImageURL:    r.ImageURL,
		CreatedAt:   r.CreatedAt,
	}
}
