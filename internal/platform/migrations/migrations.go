package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the schema used by the PostgreSQL session storage.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(&storageRecord{})
}

// RunMarketplace applies the schema of the mock marketplace repositories.
func RunMarketplace(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&gameRecord{},
		&orderRecord{},
		&accountRecord{},
	)
}

// Storage schema mirrors the session postgres adapter.
type storageRecord struct {
	Profile   string    `gorm:"primaryKey;column:profile;size:128"`
	Key       string    `gorm:"primaryKey;column:key;size:64"`
	Value     string    `gorm:"column:value;type:text"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;index"`
}

func (storageRecord) TableName() string { return "client_storage" }

// Game schema mirrors the catalog postgres adapter.
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

// Order schema mirrors the store postgres adapter.
type orderRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:64"`
	UserID    string    `gorm:"column:user_id;size:64;index"`
	GameID    string    `gorm:"column:game_id;size:64;index"`
	Game      string    `gorm:"column:game;type:text"`
	Amount    float64   `gorm:"column:amount"`
	Status    string    `gorm:"column:status;type:varchar(32);index"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Account schema mirrors the users postgres adapter.
type accountRecord struct {
	ID             string    `gorm:"primaryKey;column:id;size:64"`
	Email          string    `gorm:"column:email"`
	EmailKey       string    `gorm:"column:email_key;uniqueIndex"`
	Username       string    `gorm:"column:username"`
	Role           string    `gorm:"column:role;type:varchar(16)"`
	Status         string    `gorm:"column:status;type:varchar(16)"`
	PurchasedGames string    `gorm:"column:purchased_games;type:text"`
	PasswordHash   []byte    `gorm:"column:password_hash"`
	CreatedAt      time.Time `gorm:"column:created_at;index"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (accountRecord) TableName() string { return "accounts" }
