//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	sessiondomain "github.com/Apurer/gamestore-client/internal/domains/session/domain"
	"github.com/Apurer/gamestore-client/internal/platform/migrations"
)

func setupStoragePostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("gamestore_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		_ = pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestStorage_SetGetRemove(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupStoragePostgresContainer(t)
	defer cleanup()

	store := NewStorage(db, "")
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, sessiondomain.KeyToken, "t1"))
	require.NoError(t, store.Set(ctx, sessiondomain.KeyToken, "t2"))

	value, ok, err := store.Get(ctx, sessiondomain.KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "t2", value)

	require.NoError(t, store.Remove(ctx, sessiondomain.KeyToken))
	_, ok, err = store.Get(ctx, sessiondomain.KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStorage_ProfilesAreIsolated(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupStoragePostgresContainer(t)
	defer cleanup()

	ctx := context.Background()
	alice := NewStorage(db, "alice")
	bob := NewStorage(db, "bob")

	require.NoError(t, alice.Set(ctx, sessiondomain.KeyToken, "alice-token"))

	_, ok, err := bob.Get(ctx, sessiondomain.KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	value, ok, err := alice.Get(ctx, sessiondomain.KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alice-token", value)
}
