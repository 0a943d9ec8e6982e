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
	storedomain "github.com/Apurer/gamestore-client/internal/domains/store/domain"
	storeports "github.com/Apurer/gamestore-client/internal/domains/store/ports"
)

const tracerName = "github.com/Apurer/gamestore-client/internal/domains/store/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   storeports.Service
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

// New wraps the core order service.
func New(inner storeports.Service, opts ...Option) storeports.Service {
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

func (s *Service) PlaceOrder(ctx context.Context, userID catalog.ID, game catalog.Game) (*storedomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.PlaceOrder",
		trace.WithAttributes(attribute.String("user.id", userID.String()), attribute.String("order.game_id", game.ID.String())))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.String("user.id", userID.String()), slog.String("order.game_id", game.ID.String()))
	result, err := s.inner.PlaceOrder(ctx, userID, game)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.String("order.game_id", game.ID.String()))
	}
	s.metrics.recordPlaced(ctx, result.Status)
	s.logInfo(ctx, "order placed", slog.String("order.id", result.ID.String()), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) ConfirmOrder(ctx context.Context, orderID, userID catalog.ID) (*storedomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.ConfirmOrder", trace.WithAttributes(attribute.String("order.id", orderID.String())))
	defer span.End()

	s.logInfo(ctx, "confirming order", slog.String("order.id", orderID.String()))
	result, err := s.inner.ConfirmOrder(ctx, orderID, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to confirm order", slog.String("order.id", orderID.String()))
	}
	s.metrics.recordConfirmed(ctx)
	s.logInfo(ctx, "order confirmed", slog.String("order.id", result.ID.String()))
	return result, nil
}

func (s *Service) GetOrderByID(ctx context.Context, id catalog.ID) (*storedomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.GetOrderByID", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	result, err := s.inner.GetOrderByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", id.String()))
	}
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context) ([]*storedomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.ListOrders")
	defer span.End()

	result, err := s.inner.ListOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) ListUserOrders(ctx context.Context, userID catalog.ID) ([]*storedomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.ListUserOrders", trace.WithAttributes(attribute.String("user.id", userID.String())))
	defer span.End()

	result, err := s.inner.ListUserOrders(ctx, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list user orders", slog.String("user.id", userID.String()))
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
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
	ordersPlaced    metric.Int64Counter
	ordersConfirmed metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("store.service.orders_placed", metric.WithDescription("Number of orders placed"))
	ordersConfirmed, _ := m.Int64Counter("store.service.orders_confirmed", metric.WithDescription("Number of orders confirmed"))
	return serviceMetrics{ordersPlaced: ordersPlaced, ordersConfirmed: ordersConfirmed}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, status storedomain.Status) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordConfirmed(ctx context.Context) {
	if m.ordersConfirmed != nil {
		m.ordersConfirmed.Add(ctx, 1)
	}
}

var _ storeports.Service = (*Service)(nil)
