package mockapi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries environment-driven settings for the mock marketplace.
type Config struct {
	Port          string        `env:"PORT" envDefault:"3000"`
	BasePath      string        `env:"MOCK_BASE_PATH" envDefault:"/api"`
	JWTSecret     string        `env:"MOCK_JWT_SECRET" envDefault:"gamestore-dev-secret"`
	TokenTTL      time.Duration `env:"MOCK_TOKEN_TTL" envDefault:"24h"`
	AdminEmail    string        `env:"MOCK_ADMIN_EMAIL" envDefault:"admin@gamestore.local"`
	AdminPassword string        `env:"MOCK_ADMIN_PASSWORD" envDefault:"admin123"`
	SeedGames     bool          `env:"MOCK_SEED_GAMES" envDefault:"true"`
	// HashCost is the bcrypt cost for stored passwords.
	HashCost int `env:"MOCK_HASH_COST" envDefault:"10"`
	// PostgresDSN switches storage from memory to PostgreSQL when set.
	PostgresDSN string `env:"MOCK_POSTGRES_DSN"`
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate normalizes the base path and checks required values.
func (c *Config) Validate() error {
	c.BasePath = "/" + strings.Trim(strings.TrimSpace(c.BasePath), "/")
	if c.BasePath == "/" {
		c.BasePath = ""
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("MOCK_JWT_SECRET must not be empty")
	}
	if c.TokenTTL <= 0 {
		return errors.New("MOCK_TOKEN_TTL must be positive")
	}
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("PORT must not be empty")
	}
	return nil
}

// Addr is the listen address.
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}
