package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	storefrontclient "github.com/Apurer/gamestore-client/internal/clients/http/storefront"
	"github.com/Apurer/gamestore-client/internal/domains/navigation"
	sessionmemory "github.com/Apurer/gamestore-client/internal/domains/session/adapters/memory"
	sessionpostgres "github.com/Apurer/gamestore-client/internal/domains/session/adapters/persistence/postgres"
	sessionsqlite "github.com/Apurer/gamestore-client/internal/domains/session/adapters/persistence/sqlite"
	sessionports "github.com/Apurer/gamestore-client/internal/domains/session/ports"
	storefrontobs "github.com/Apurer/gamestore-client/internal/domains/storefront/adapters/observability"
	storefrontapp "github.com/Apurer/gamestore-client/internal/domains/storefront/application"
	storefrontports "github.com/Apurer/gamestore-client/internal/domains/storefront/ports"
	"github.com/Apurer/gamestore-client/internal/platform/migrations"
	platformobservability "github.com/Apurer/gamestore-client/internal/platform/observability"
	platformpostgres "github.com/Apurer/gamestore-client/internal/platform/postgres"
)

const serviceName = "gamestore-cli"

// App holds the wired storefront for one CLI invocation.
type App struct {
	cfg        Config
	logger     *slog.Logger
	storefront storefrontports.Service
	guard      *navigation.Guard
	closers    []func()
}

// NewApp wires observability, session storage, the API client and the
// storefront cache, then restores the persisted session.
func NewApp(ctx context.Context, cfg Config, logOutput io.Writer) (*App, error) {
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName,
		platformobservability.WithLogOutput(logOutput),
		platformobservability.WithLogLevel(platformobservability.ParseLevel(cfg.LogLevel)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	logger := instruments.Logger
	app := &App{cfg: cfg, logger: logger, guard: navigation.MustNewGuard(navigation.Routes)}
	app.closers = append(app.closers, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	})

	storage, err := app.openStorage(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	client, err := storefrontclient.NewClient(cfg.APIURL,
		storefrontclient.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		storefrontclient.WithUserAgent(serviceName),
	)
	if err != nil {
		app.Close()
		return nil, err
	}
	core := storefrontapp.NewService(client, storage, storefrontapp.WithLogger(logger))
	app.storefront = storefrontobs.New(core,
		storefrontobs.WithLogger(logger),
		storefrontobs.WithTracer(instruments.Tracer("internal.storefront.application")),
		storefrontobs.WithMeter(instruments.Meter("internal.storefront.application")),
	)
	if err := app.storefront.Restore(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// openStorage selects the session storage. An unreachable postgres falls
// back to memory so read-only commands keep working.
func (a *App) openStorage(ctx context.Context) (sessionports.Storage, error) {
	switch a.cfg.Storage {
	case StorageMemory:
		return sessionmemory.NewStorage(), nil
	case StoragePostgres:
		db, cleanup := platformpostgres.ConnectDSN(ctx, a.cfg.PostgresDSN, a.logger)
		if db == nil {
			return sessionmemory.NewStorage(), nil
		}
		a.closers = append(a.closers, cleanup)
		if err := migrations.Run(db); err != nil {
			return nil, fmt.Errorf("migrate session storage: %w", err)
		}
		return sessionpostgres.NewStorage(db, a.cfg.Profile), nil
	default:
		storage, err := sessionsqlite.Open(ctx, a.cfg.StoragePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = storage.Close() })
		a.logger.Debug("session storage opened", slog.String("path", a.cfg.StoragePath))
		return storage, nil
	}
}

// Storefront exposes the wired cache.
func (a *App) Storefront() storefrontports.Service {
	return a.storefront
}

// Navigate asks the guard whether path may be opened with the current session.
func (a *App) Navigate(path string) error {
	decision := a.guard.Check(a.storefront, path)
	a.logger.Debug("navigation",
		slog.String("path", path),
		slog.String("route", decision.Route),
		slog.String("outcome", decision.Outcome.String()))
	if decision.Outcome == navigation.Allowed {
		return nil
	}
	return &RedirectError{Path: path, Decision: decision}
}

// Close releases storage and flushes telemetry, newest resource first.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// RedirectError reports a navigation the guard turned away.
type RedirectError struct {
	Path     string
	Decision navigation.Decision
}

func (e *RedirectError) Error() string {
	if e.Decision.Outcome == navigation.RedirectToLogin {
		return fmt.Sprintf("login required (continue at %s)", e.Decision.Location)
	}
	return fmt.Sprintf("%s is not available to this account (redirected to %s)", e.Path, e.Decision.Location)
}
