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

	"github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	"github.com/Apurer/gamestore-client/internal/domains/catalog/ports"
	"github.com/Apurer/gamestore-client/internal/platform/migrations"
)

func setupCatalogPostgresContainer(t *testing.T) (*gorm.DB, func()) {
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

func TestRepository_SaveUpdateDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	saved, err := repo.Save(ctx, &domain.Game{Title: "Lantern Road", Price: 14.99, Genre: "Adventure", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	require.False(t, saved.ID.IsZero())

	saved.Price = 9.99
	saved.ImageURL = "/api/uploads/cover.png"
	updated, err := repo.Save(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, 9.99, updated.Price)
	assert.Equal(t, "/api/uploads/cover.png", updated.ImageURL)

	require.NoError(t, repo.Delete(ctx, saved.ID))
	_, err = repo.GetByID(ctx, saved.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, saved.ID), ports.ErrNotFound)
}

func TestRepository_ListNewestFirst(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().UTC()
	for i, title := range []string{"Older", "Newer"} {
		_, err := repo.Save(ctx, &domain.Game{Title: title, Price: 1, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}

	games, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "Newer", games[0].Title)
}
