package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix  = "GAMESTORE"
	configName = "gamestore"
)

// Storage backends for the persisted session.
const (
	StorageSQLite   = "sqlite"
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config carries the CLI settings after flags, env and the config file are merged.
type Config struct {
	APIURL      string        `mapstructure:"api_url" validate:"required,url"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Storage     string        `mapstructure:"storage" validate:"oneof=sqlite memory postgres"`
	StoragePath string        `mapstructure:"storage_path" validate:"required_if=Storage sqlite"`
	PostgresDSN string        `mapstructure:"postgres_dsn" validate:"required_if=Storage postgres"`
	// Profile partitions postgres storage between CLI users.
	Profile  string `mapstructure:"profile" validate:"required,max=128"`
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("api_url", "http://localhost:3000/api")
	v.SetDefault("timeout", 10*time.Second)
	v.SetDefault("storage", StorageSQLite)
	v.SetDefault("storage_path", defaultStoragePath())
	v.SetDefault("postgres_dsn", "")
	v.SetDefault("profile", "default")
	v.SetDefault("log_level", "warn")

	// Environment variable support: GAMESTORE_API_URL
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// The web client read its base URL from VUE_APP_API_URL.
	_ = v.BindEnv("api_url", envPrefix+"_API_URL", "VUE_APP_API_URL")
	return v
}

// LoadConfig loads envFile into the process environment, reads the config file
// and returns the validated result. Flags must already be bound to v.
func LoadConfig(v *viper.Viper, configFile, envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if configFile == "" {
		configFile = findConfigFile()
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.APIURL = strings.TrimSpace(cfg.APIURL)
	cfg.StoragePath = expandHome(strings.TrimSpace(cfg.StoragePath))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the struct tags and reports every failing key.
func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
	})
	if err := v.Struct(c); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		switch fe.Tag() {
		case "required", "required_if":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "url":
			msgs = append(msgs, fmt.Sprintf("%s must be an absolute URL", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be positive", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// findConfigFile looks for gamestore.yaml or .yml in the working directory
// and ~/.gamestore.
func findConfigFile() string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".gamestore"))
	}
	for _, dir := range paths {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, configName+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".gamestore", "session.db")
	}
	return filepath.Join(home, ".gamestore", "session.db")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
