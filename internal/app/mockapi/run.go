package mockapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	catalogpostgres "github.com/Apurer/gamestore-client/internal/domains/catalog/adapters/persistence/postgres"
	storepostgres "github.com/Apurer/gamestore-client/internal/domains/store/adapters/persistence/postgres"
	userpostgres "github.com/Apurer/gamestore-client/internal/domains/users/adapters/persistence/postgres"
	"github.com/Apurer/gamestore-client/internal/platform/migrations"
	platformobservability "github.com/Apurer/gamestore-client/internal/platform/observability"
	platformpostgres "github.com/Apurer/gamestore-client/internal/platform/postgres"
)

// Run boots the mock marketplace and serves until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	opts := []Option{
		WithLogger(logger),
		WithTelemetry(instruments.Tracer("internal.app.mockapi"), instruments.Meter("internal.app.mockapi")),
	}
	if cfg.PostgresDSN != "" {
		storage, closeDB := postgresStorage(ctx, cfg.PostgresDSN, logger)
		defer closeDB()
		opts = append(opts, storage)
	}

	server, err := NewServer(cfg, opts...)
	if err != nil {
		return err
	}
	if err := server.Seed(ctx); err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("mock marketplace listening", slog.String("addr", cfg.Addr()), slog.String("base_path", cfg.BasePath))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("mock marketplace exited", slog.String("addr", cfg.Addr()), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	logger.Info("mock marketplace stopped")
	return nil
}

// postgresStorage connects and migrates the marketplace schema. On failure
// it logs and leaves the in-memory repositories in place.
func postgresStorage(ctx context.Context, dsn string, logger *slog.Logger) (Option, func()) {
	db, cleanup := platformpostgres.ConnectDSN(ctx, dsn, logger)
	if db == nil {
		return nil, cleanup
	}
	if err := migrations.RunMarketplace(db); err != nil {
		logger.Warn("failed to migrate marketplace schema, falling back to in-memory storage", slog.String("error", err.Error()))
		cleanup()
		return nil, func() {}
	}
	return WithRepositories(
		catalogpostgres.NewRepository(db),
		storepostgres.NewRepository(db),
		userpostgres.NewRepository(db),
	), cleanup
}
