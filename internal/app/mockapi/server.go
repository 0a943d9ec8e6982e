// Package mockapi is an in-memory marketplace API for local development and
// contract tests of the storefront client.
package mockapi

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	catalogmemory "github.com/Apurer/gamestore-client/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/gamestore-client/internal/domains/catalog/application"
	catalogports "github.com/Apurer/gamestore-client/internal/domains/catalog/ports"
	storememory "github.com/Apurer/gamestore-client/internal/domains/store/adapters/memory"
	storeobs "github.com/Apurer/gamestore-client/internal/domains/store/adapters/observability"
	storeapp "github.com/Apurer/gamestore-client/internal/domains/store/application"
	storeports "github.com/Apurer/gamestore-client/internal/domains/store/ports"
	usermemory "github.com/Apurer/gamestore-client/internal/domains/users/adapters/memory"
	userobs "github.com/Apurer/gamestore-client/internal/domains/users/adapters/observability"
	userapp "github.com/Apurer/gamestore-client/internal/domains/users/application"
	userports "github.com/Apurer/gamestore-client/internal/domains/users/ports"
	apierrors "github.com/Apurer/gamestore-client/internal/shared/errors"
)

const serviceName = "gamestore-mock"

// Server wires the marketplace use cases behind a gin router.
type Server struct {
	cfg       Config
	logger    *slog.Logger
	catalog   catalogports.Service
	orders    storeports.Service
	users     userports.Service
	tokens    *tokens
	images    *imageStore
	responder *apierrors.ChainedResponder
	router    *gin.Engine
}

type Option func(*options)

type options struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	meter   metric.Meter
	games   catalogports.Repository
	orders  storeports.Repository
	members userports.Repository
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTelemetry instruments the order and account services.
func WithTelemetry(tracer trace.Tracer, meter metric.Meter) Option {
	return func(o *options) {
		o.tracer = tracer
		o.meter = meter
	}
}

// WithRepositories replaces the in-memory storage. Nil repositories keep
// their in-memory default.
func WithRepositories(games catalogports.Repository, orders storeports.Repository, members userports.Repository) Option {
	return func(o *options) {
		o.games = games
		o.orders = orders
		o.members = members
	}
}

// NewServer builds an empty marketplace, in memory unless WithRepositories
// says otherwise. Call Seed to add the admin account and sample games.
func NewServer(cfg Config, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if o.games == nil {
		o.games = catalogmemory.NewRepository()
	}
	if o.orders == nil {
		o.orders = storememory.NewRepository()
	}
	if o.members == nil {
		o.members = usermemory.NewRepository()
	}

	orderOpts := []storeobs.Option{storeobs.WithLogger(o.logger)}
	userOpts := []userobs.Option{userobs.WithLogger(o.logger)}
	if o.tracer != nil {
		orderOpts = append(orderOpts, storeobs.WithTracer(o.tracer))
		userOpts = append(userOpts, userobs.WithTracer(o.tracer))
	}
	if o.meter != nil {
		orderOpts = append(orderOpts, storeobs.WithMeter(o.meter))
		userOpts = append(userOpts, userobs.WithMeter(o.meter))
	}

	s := &Server{
		cfg:       cfg,
		logger:    o.logger,
		catalog:   catalogapp.NewService(o.games),
		orders:    storeobs.New(storeapp.NewService(o.orders), orderOpts...),
		users:     userobs.New(userapp.NewService(o.members, userapp.WithHashCost(cfg.HashCost)), userOpts...),
		tokens:    newTokens(cfg.JWTSecret, cfg.TokenTTL),
		images:    newImageStore(),
		responder: newResponder(),
	}
	s.router = s.routes()
	return s, nil
}

// Handler exposes the router for http.Server and httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName), requestID(), accessLog(s.logger))

	api := router.Group(s.cfg.BasePath)
	auth := s.authenticate()
	admin := s.requireAdmin()

	api.POST("/auth/login", s.login)
	api.POST("/auth/register", s.register)

	api.GET("/games", s.listGames)
	api.GET("/games/my-games", auth, s.listMyGames)
	api.GET("/games/:id", s.getGame)
	api.GET("/games/:id/check-ownership", auth, s.checkOwnership)
	api.POST("/games", auth, admin, s.createGame)
	api.PUT("/games/:id", auth, admin, s.updateGame)
	api.DELETE("/games/:id", auth, admin, s.deleteGame)

	api.GET("/orders/my-orders", auth, s.listMyOrders)
	api.GET("/orders", auth, admin, s.listOrders)
	api.POST("/orders", auth, s.createOrder)
	api.POST("/orders/:id/confirm", auth, s.confirmOrder)

	api.GET("/users/current", auth, s.getCurrentUser)
	api.GET("/users", auth, admin, s.listUsers)
	api.PUT("/users/:id/status", auth, admin, s.updateUserStatus)

	api.GET("/uploads/:name", s.serveImage)
	return router
}

func (s *Server) fail(c *gin.Context, err error) {
	s.logger.LogAttrs(c.Request.Context(), slog.LevelDebug, "request failed",
		slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	s.responder.RespondError(c, err)
	c.Abort()
}

func (s *Server) badRequest(c *gin.Context, detail string) {
	s.responder.BadRequest(c, detail)
	c.Abort()
}

func (s *Server) validationFailed(c *gin.Context, fieldErrors map[string]string) {
	s.responder.ValidationFailed(c, fieldErrors)
	c.Abort()
}
