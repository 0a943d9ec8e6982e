package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	sessionports "github.com/Apurer/gamestore-client/internal/domains/session/ports"
)

// DefaultProfile namespaces entries when no profile is configured.
const DefaultProfile = "default"

// Storage persists session fields in PostgreSQL, one row per profile and key.
type Storage struct {
	db      *gorm.DB
	profile string
}

// NewStorage wires a PostgreSQL-backed storage. Caller owns DB lifecycle.
func NewStorage(db *gorm.DB, profile string) *Storage {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		profile = DefaultProfile
	}
	return &Storage{db: db, profile: profile}
}

type storageRecord struct {
	Profile   string    `gorm:"primaryKey;column:profile;size:128"`
	Key       string    `gorm:"primaryKey;column:key;size:64"`
	Value     string    `gorm:"column:value;type:text"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;index"`
}

func (storageRecord) TableName() string { return "client_storage" }

// Get loads the value stored under key for the configured profile.
func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	if err := s.ensureDB(); err != nil {
		return "", false, err
	}
	var rec storageRecord
	err := s.db.WithContext(ctx).
		Where("profile = ? AND key = ?", s.profile, key).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return rec.Value, true, nil
}

// Set upserts the value for key.
func (s *Storage) Set(ctx context.Context, key, value string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("storage key is required")
	}
	rec := storageRecord{Profile: s.profile, Key: key, Value: value}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&rec).Error
}

// Remove deletes key for the configured profile.
func (s *Storage) Remove(ctx context.Context, key string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Delete(&storageRecord{}, "profile = ? AND key = ?", s.profile, key).Error
}

func (s *Storage) ensureDB() error {
	if s == nil || s.db == nil {
		return sessionports.ErrStorageUnavailable
	}
	return nil
}

var _ sessionports.Storage = (*Storage)(nil)
