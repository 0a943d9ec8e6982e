package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	sessiondomain "github.com/Apurer/gamestore-client/internal/domains/session/domain"
	store "github.com/Apurer/gamestore-client/internal/domains/store/domain"
	"github.com/Apurer/gamestore-client/internal/domains/storefront/ports"
	users "github.com/Apurer/gamestore-client/internal/domains/users/domain"
)

const tracerName = "github.com/Apurer/gamestore-client/internal/domains/storefront/adapters/observability/service"

// Service decorates the storefront cache with tracing, logging, and metrics.
// Read projections pass straight through.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the storefront service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) IsAuthenticated() bool { return s.inner.IsAuthenticated() }
func (s *Service) IsAdmin() bool { return s.inner.IsAdmin() }
func (s *Service) Session() sessiondomain.Session { return s.inner.Session() }
func (s *Service) CurrentUser() *users.User { return s.inner.CurrentUser() }
func (s *Service) Games() []catalog.Game { return s.inner.Games() }
func (s *Service) PurchasedGames() []catalog.Game { return s.inner.PurchasedGames() }
func (s *Service) Orders() []store.Order { return s.inner.Orders() }

func (s *Service) Restore(ctx context.Context) error {
	_, err := observe(ctx, s, "Restore", nil, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.inner.Restore(ctx)
	})
	if err == nil {
		s.logInfo(ctx, "session restored", slog.Bool("authenticated", s.inner.IsAuthenticated()))
	}
	return err
}

func (s *Service) Login(ctx context.Context, credentials users.Credentials) (sessiondomain.Session, error) {
	session, err := observe(ctx, s, "Login", nil, func(ctx context.Context) (sessiondomain.Session, error) {
		return s.inner.Login(ctx, credentials)
	})
	if err == nil {
		s.logInfo(ctx, "logged in", slog.String("user.id", session.User.ID.String()), slog.String("user.role", string(session.User.Role)))
	}
	return session, err
}

func (s *Service) Register(ctx context.Context, registration users.Registration) (sessiondomain.Session, error) {
	session, err := observe(ctx, s, "Register", nil, func(ctx context.Context) (sessiondomain.Session, error) {
		return s.inner.Register(ctx, registration)
	})
	if err == nil {
		s.logInfo(ctx, "registered", slog.String("user.id", session.User.ID.String()))
	}
	return session, err
}

func (s *Service) Logout(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.Logout")
	defer span.End()

	s.inner.Logout(ctx)
	s.metrics.recordCall(ctx, "Logout", nil)
	s.logInfo(ctx, "logged out")
}

func (s *Service) FetchGames(ctx context.Context) ([]catalog.Game, error) {
	games, err := observe(ctx, s, "FetchGames", nil, s.inner.FetchGames)
	if err == nil {
		s.logInfo(ctx, "games fetched", slog.Int("games.count", len(games)))
	}
	return games, err
}

func (s *Service) FetchGame(ctx context.Context, id catalog.ID) (*catalog.Game, error) {
	return observe(ctx, s, "FetchGame", gameAttrs(id), func(ctx context.Context) (*catalog.Game, error) {
		return s.inner.FetchGame(ctx, id)
	})
}

func (s *Service) FetchMyGames(ctx context.Context) ([]catalog.Game, error) {
	games, err := observe(ctx, s, "FetchMyGames", nil, s.inner.FetchMyGames)
	if err == nil {
		s.logInfo(ctx, "purchased games fetched", slog.Int("games.count", len(games)))
	}
	return games, err
}

func (s *Service) FetchOrders(ctx context.Context) ([]store.Order, error) {
	return observe(ctx, s, "FetchOrders", nil, s.inner.FetchOrders)
}

func (s *Service) FetchAllOrders(ctx context.Context) ([]store.Order, error) {
	return observe(ctx, s, "FetchAllOrders", nil, s.inner.FetchAllOrders)
}

func (s *Service) CreateOrder(ctx context.Context, gameID catalog.ID) (*store.Order, error) {
	order, err := observe(ctx, s, "CreateOrder", gameAttrs(gameID), func(ctx context.Context) (*store.Order, error) {
		return s.inner.CreateOrder(ctx, gameID)
	})
	if err == nil {
		s.logInfo(ctx, "order created", slog.String("order.id", order.ID.String()), slog.String("order.status", string(order.Status)))
	}
	return order, err
}

func (s *Service) ConfirmOrder(ctx context.Context, orderID catalog.ID) (*store.Order, error) {
	attrs := []attribute.KeyValue{attribute.String("order.id", orderID.String())}
	order, err := observe(ctx, s, "ConfirmOrder", attrs, func(ctx context.Context) (*store.Order, error) {
		return s.inner.ConfirmOrder(ctx, orderID)
	})
	if err == nil {
		s.logInfo(ctx, "order confirmed", slog.String("order.id", orderID.String()), slog.String("order.status", string(order.Status)))
	}
	return order, err
}

func (s *Service) FetchUsers(ctx context.Context) ([]users.User, error) {
	return observe(ctx, s, "FetchUsers", nil, s.inner.FetchUsers)
}

func (s *Service) UpdateUserStatus(ctx context.Context, userID catalog.ID, status users.Status) (*users.User, error) {
	attrs := []attribute.KeyValue{attribute.String("user.id", userID.String()), attribute.String("user.status", string(status))}
	return observe(ctx, s, "UpdateUserStatus", attrs, func(ctx context.Context) (*users.User, error) {
		return s.inner.UpdateUserStatus(ctx, userID, status)
	})
}

func (s *Service) FetchUserProfile(ctx context.Context) (*users.User, error) {
	return observe(ctx, s, "FetchUserProfile", nil, s.inner.FetchUserProfile)
}

func (s *Service) CreateGame(ctx context.Context, input catalog.GameInput) (*catalog.Game, error) {
	attrs := []attribute.KeyValue{attribute.Bool("game.image", input.HasImage())}
	return observe(ctx, s, "CreateGame", attrs, func(ctx context.Context) (*catalog.Game, error) {
		return s.inner.CreateGame(ctx, input)
	})
}

func (s *Service) UpdateGame(ctx context.Context, id catalog.ID, input catalog.GameInput) (*catalog.Game, error) {
	attrs := append(gameAttrs(id), attribute.Bool("game.image", input.HasImage()))
	return observe(ctx, s, "UpdateGame", attrs, func(ctx context.Context) (*catalog.Game, error) {
		return s.inner.UpdateGame(ctx, id, input)
	})
}

func (s *Service) DeleteGame(ctx context.Context, id catalog.ID) error {
	_, err := observe(ctx, s, "DeleteGame", gameAttrs(id), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.inner.DeleteGame(ctx, id)
	})
	return err
}

func (s *Service) CheckGameOwnership(ctx context.Context, gameID catalog.ID) ports.Ownership {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.CheckGameOwnership", trace.WithAttributes(gameAttrs(gameID)...))
	defer span.End()

	result := s.inner.CheckGameOwnership(ctx, gameID)
	span.SetAttributes(attribute.Bool("game.owned", result.Owned))
	s.metrics.recordCall(ctx, "CheckGameOwnership", nil)
	return result
}

// observe runs call inside a span and records its outcome.
func observe[T any](ctx context.Context, s *Service, op string, attrs []attribute.KeyValue, call func(context.Context) (T, error)) (T, error) {
	ctx, span := s.tracer.Start(ctx, "StorefrontService."+op, trace.WithAttributes(attrs...))
	defer span.End()

	s.logDebug(ctx, "storefront call", slog.String("op", op))
	result, err := call(ctx)
	s.metrics.recordCall(ctx, op, err)
	if err != nil {
		var zero T
		return zero, s.handleError(ctx, span, err, "storefront call failed",
			slog.String("op", op), slog.String("error.kind", ports.KindOf(err).String()))
	}
	return result, nil
}

func gameAttrs(id catalog.ID) []attribute.KeyValue {
	return []attribute.KeyValue{attribute.String("game.id", id.String())}
}

func (s *Service) logDebug(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	calls    metric.Int64Counter
	failures metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	calls, _ := m.Int64Counter("storefront.service.calls", metric.WithDescription("Number of storefront operations"))
	failures, _ := m.Int64Counter("storefront.service.failures", metric.WithDescription("Number of failed storefront operations by error kind"))
	return serviceMetrics{calls: calls, failures: failures}
}

func (m serviceMetrics) recordCall(ctx context.Context, op string, err error) {
	if m.calls != nil {
		m.calls.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
	}
	if err != nil && m.failures != nil {
		m.failures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("op", op),
			attribute.String("error.kind", ports.KindOf(err).String()),
		))
	}
}

var _ ports.Service = (*Service)(nil)
