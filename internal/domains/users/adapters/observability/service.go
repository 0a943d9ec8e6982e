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
	userdomain "github.com/Apurer/gamestore-client/internal/domains/users/domain"
	userports "github.com/Apurer/gamestore-client/internal/domains/users/ports"
)

const tracerName = "github.com/Apurer/gamestore-client/internal/domains/users/adapters/observability/service"

// Service decorates the account service with tracing, logging, and metrics.
type Service struct {
	inner   userports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core account service.
func New(inner userports.Service, opts ...Option) userports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
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
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) Register(ctx context.Context, registration userdomain.Registration) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Register")
	defer span.End()
	result, err := s.inner.Register(ctx, registration)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register user")
	}
	span.SetAttributes(attribute.String("user.id", result.ID.String()))
	s.metrics.recordRegistered(ctx, result.Role)
	s.logInfo(ctx, "user registered", slog.String("user.id", result.ID.String()))
	return result, nil
}

func (s *Service) Authenticate(ctx context.Context, credentials userdomain.Credentials) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Authenticate")
	defer span.End()
	result, err := s.inner.Authenticate(ctx, credentials)
	if err != nil {
		s.metrics.recordLogin(ctx, false)
		return nil, s.handleError(ctx, span, err, "login failed")
	}
	span.SetAttributes(attribute.String("user.id", result.ID.String()), attribute.String("user.role", string(result.Role)))
	s.metrics.recordLogin(ctx, true)
	return result, nil
}

func (s *Service) EnsureAdmin(ctx context.Context, registration userdomain.Registration) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.EnsureAdmin")
	defer span.End()
	result, err := s.inner.EnsureAdmin(ctx, registration)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to ensure admin account")
	}
	s.logInfo(ctx, "admin account ready", slog.String("user.id", result.ID.String()))
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, id catalog.ID) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetByID", trace.WithAttributes(attribute.String("user.id", id.String())))
	defer span.End()
	return s.inner.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.List")
	defer span.End()
	result, err := s.inner.List(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list users")
	}
	span.SetAttributes(attribute.Int("users.count", len(result)))
	return result, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id catalog.ID, status userdomain.Status) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.UpdateStatus",
		trace.WithAttributes(attribute.String("user.id", id.String()), attribute.String("user.status", string(status))))
	defer span.End()
	result, err := s.inner.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update user status", slog.String("user.id", id.String()))
	}
	s.metrics.recordStatusChange(ctx, status)
	s.logInfo(ctx, "user status updated", slog.String("user.id", id.String()), slog.String("status", string(status)))
	return result, nil
}

func (s *Service) RecordPurchase(ctx context.Context, id, gameID catalog.ID) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.RecordPurchase",
		trace.WithAttributes(attribute.String("user.id", id.String()), attribute.String("game.id", gameID.String())))
	defer span.End()
	result, err := s.inner.RecordPurchase(ctx, id, gameID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to record purchase", slog.String("user.id", id.String()))
	}
	return result, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
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

type serviceMetrics struct {
	registered    metric.Int64Counter
	logins        metric.Int64Counter
	statusChanges metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	registered, _ := m.Int64Counter("users.service.registered", metric.WithDescription("Number of accounts registered"))
	logins, _ := m.Int64Counter("users.service.logins", metric.WithDescription("Number of login attempts by result"))
	statusChanges, _ := m.Int64Counter("users.service.status_changes", metric.WithDescription("Number of account status changes"))
	return serviceMetrics{registered: registered, logins: logins, statusChanges: statusChanges}
}

func (m serviceMetrics) recordRegistered(ctx context.Context, role userdomain.Role) {
	if m.registered != nil {
		m.registered.Add(ctx, 1, metric.WithAttributes(attribute.String("user.role", string(role))))
	}
}

func (m serviceMetrics) recordLogin(ctx context.Context, ok bool) {
	if m.logins != nil {
		m.logins.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", ok)))
	}
}

func (m serviceMetrics) recordStatusChange(ctx context.Context, status userdomain.Status) {
	if m.statusChanges != nil {
		m.statusChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("user.status", string(status))))
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ userports.Service = (*Service)(nil)
