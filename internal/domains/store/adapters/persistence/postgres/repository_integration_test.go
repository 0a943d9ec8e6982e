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

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	"github.com/Apurer/gamestore-client/internal/domains/store/domain"
	"github.com/Apurer/gamestore-client/internal/domains/store/ports"
	"github.com/Apurer/gamestore-client/internal/platform/migrations"
)

func setupStorePostgresContainer(t *testing.T) (*gorm.DB, func()) {
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

	err = migrations.RunMarketplace(db)
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

func TestRepository_SaveAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupStorePostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order, err := domain.NewOrder("", "u1", "g1", 29.99, time.Now().UTC())
	require.NoError(t, err)
	order.Game = &catalog.Game{ID: "g1", Title: "Starfall Tactics", Price: 29.99}

	saved, err := repo.Save(ctx, order)
	require.NoError(t, err)
	require.False(t, saved.ID.IsZero())
	assert.Equal(t, domain.StatusPending, saved.Status)

	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, catalog.ID("g1"), fetched.GameID)
	assert.Equal(t, catalog.ID("u1"), fetched.UserID)
	require.NotNil(t, fetched.Game)
	assert.Equal(t, "Starfall Tactics", fetched.Game.Title)
	assert.WithinDuration(t, order.CreatedAt, fetched.CreatedAt, time.Millisecond)
}

func TestRepository_Confirm(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupStorePostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order, err := domain.NewOrder("", "u1", "g1", 10, time.Now().UTC())
	require.NoError(t, err)
	saved, err := repo.Save(ctx, order)
	require.NoError(t, err)

	require.NoError(t, saved.Confirm())
	updated, err := repo.Save(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Status)
	assert.Equal(t, saved.ID, updated.ID)
}

func TestRepository_ListByUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupStorePostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().UTC()
	for i, user := range []catalog.ID{"u1", "u2", "u1"} {
		order, err := domain.NewOrder("", user, "g1", 5, base.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
		_, err = repo.Save(ctx, order)
		require.NoError(t, err)
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.True(t, mine[0].CreatedAt.Before(mine[1].CreatedAt))

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
