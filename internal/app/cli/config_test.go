package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GAMESTORE_API_URL", "")
	t.Setenv("VUE_APP_API_URL", "")

	cfg, err := LoadConfig(newViper(), "", "")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:3000/api", cfg.APIURL)
	require.Equal(t, 10*time.Second, cfg.Timeout)
	require.Equal(t, StorageSQLite, cfg.Storage)
	require.Equal(t, filepath.Join(home, ".gamestore", "session.db"), cfg.StoragePath)
	require.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfig_LegacyEnvName(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GAMESTORE_API_URL", "")
	t.Setenv("VUE_APP_API_URL", "https://shop.example.com/api")

	cfg, err := LoadConfig(newViper(), "", "")
	require.NoError(t, err)
	require.Equal(t, "https://shop.example.com/api", cfg.APIURL)

	t.Setenv("GAMESTORE_API_URL", "https://primary.example.com/api")
	cfg, err = LoadConfig(newViper(), "", "")
	require.NoError(t, err)
	require.Equal(t, "https://primary.example.com/api", cfg.APIURL)
}

func TestLoadConfig_FileAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("GAMESTORE_API_URL", "")
	t.Setenv("VUE_APP_API_URL", "")
	t.Setenv("GAMESTORE_TIMEOUT", "")

	configFile := filepath.Join(dir, "gamestore.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("storage: memory\ntimeout: 3s\nstorage_path: ~/sessions/s.db\n"), 0o600))
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("GAMESTORE_LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("GAMESTORE_LOG_LEVEL") })

	cfg, err := LoadConfig(newViper(), configFile, envFile)
	require.NoError(t, err)
	require.Equal(t, StorageMemory, cfg.Storage)
	require.Equal(t, 3*time.Second, cfg.Timeout)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, filepath.Join(dir, "sessions", "s.db"), cfg.StoragePath)
}

func TestLoadConfig_MissingDotEnvIsIgnored(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, err := LoadConfig(newViper(), "", filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		APIURL:      "http://localhost:3000/api",
		Timeout:     time.Second,
		Storage:     StorageSQLite,
		StoragePath: "/tmp/session.db",
		Profile:     "default",
		LogLevel:    "warn",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		message string
	}{
		{name: "relative url", mutate: func(c *Config) { c.APIURL = "/api" }, message: "api_url must be an absolute URL"},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, message: "timeout must be positive"},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Storage = StoragePostgres }, message: "postgres_dsn is required"},
		{name: "sqlite without path", mutate: func(c *Config) { c.StoragePath = "" }, message: "storage_path is required"},
		{name: "unknown level", mutate: func(c *Config) { c.LogLevel = "loud" }, message: "log_level must be one of"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestTokenExpiry(t *testing.T) {
	// {"alg":"HS256","typ":"JWT"} . {"exp":1700000000}
	raw := "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJleHAiOjE3MDAwMDAwMDB9.c2ln"
	expiry, ok := tokenExpiry(raw)
	require.True(t, ok)
	require.Equal(t, int64(1700000000), expiry.Unix())

	_, ok = tokenExpiry("opaque-token")
	require.False(t, ok)
}

func TestContinueAt(t *testing.T) {
	require.Equal(t, "/my-orders", continueAt("/my-orders", nil))
	require.Equal(t, "/games", continueAt("https://evil.example", nil))
	require.Equal(t, "/games", continueAt("", nil))
}
