package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	"github.com/Apurer/gamestore-client/internal/domains/users/domain"
	"github.com/Apurer/gamestore-client/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists accounts in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// accountRecord keeps a lowercased copy of the email under a unique index so
// lookups and conflicts ignore case.
type accountRecord struct {
	ID             string       `gorm:"primaryKey;column:id;size:64"`
	Email          string       `gorm:"column:email"`
	EmailKey       string       `gorm:"column:email_key;uniqueIndex"`
	Username       string       `gorm:"column:username"`
	Role           string       `gorm:"column:role;type:varchar(16)"`
	Status         string       `gorm:"column:status;type:varchar(16)"`
	PurchasedGames []catalog.ID `gorm:"column:purchased_games;type:text;serializer:json"`
	PasswordHash   []byte       `gorm:"column:password_hash"`
	CreatedAt      time.Time    `gorm:"column:created_at;index"`
	UpdatedAt      time.Time    `gorm:"column:updated_at"`
}

func (accountRecord) TableName() string { return "accounts" }

// Save inserts or updates an account keyed by id.
func (r *Repository) Save(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errors.New("account is nil")
	}
	clone := account.Clone()
	if clone.ID.IsZero() {
		clone.ID = catalog.ID(uuid.NewString())
	}
	record := toRecord(clone)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner accountRecord
		err := tx.Select("id").First(&owner, "email_key = ?", record.EmailKey).Error
		switch {
		case err == nil && owner.ID != record.ID:
			return ports.ErrEmailTaken
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "email_key", "username", "role", "status", "purchased_games", "password_hash", "updated_at"}),
		}).Create(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, clone.ID)
}

// GetByID fetches an account by identifier.
func (r *Repository) GetByID(ctx context.Context, id catalog.ID) (*domain.Account, error) {
	return r.first(ctx, "id = ?", id.String())
}

// GetByEmail fetches an account by email, ignoring case.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.first(ctx, "email_key = ?", emailKey(email))
}

// List returns accounts in registration order.
func (r *Repository) List(ctx context.Context) ([]*domain.Account, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []accountRecord
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	accounts := make([]*domain.Account, 0, len(records))
	for i := range records {
		accounts = append(accounts, records[i].toDomain())
	}
	return accounts, nil
}

func (r *Repository) first(ctx context.Context, query string, arg any) (*domain.Account, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record accountRecord
	if err := r.db.WithContext(ctx).First(&record, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres account repository not configured")
	}
	return nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toRecord(account *domain.Account) accountRecord {
	return accountRecord{
		ID:             account.ID.String(),
		Email:          account.Email,
		EmailKey:       emailKey(account.Email),
		Username:       account.Username,
		Role:           string(account.Role),
		Status:         string(account.Status),
		PurchasedGames: account.PurchasedGames,
		PasswordHash:   account.PasswordHash,
	}
}

func (r accountRecord) toDomain() *domain.Account {
	return &domain.Account{
		User: domain.User{
			ID:             catalog.ID(r.ID),
			Email:          r.Email,
			Username:       r.Username,
			Role:           domain.Role(r.Role),
			Status:         domain.Status(r.Status),
			PurchasedGames: r.PurchasedGames,
		},
		PasswordHash: r.PasswordHash,
	}
}
