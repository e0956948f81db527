package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/pmppiyas/GSRS-Blood-Server/docs"
	"github.com/pmppiyas/GSRS-Blood-Server/internal/api/handler"
	"github.com/pmppiyas/GSRS-Blood-Server/internal/api/metrics"
	"github.com/pmppiyas/GSRS-Blood-Server/internal/api/middleware"
	"github.com/pmppiyas/GSRS-Blood-Server/internal/core/ports"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Users       ports.UserService
	Health      map[string]handler.PingFunc
	CORSOrigins []string
	Logger      zerolog.Logger
	// Registerer and Gatherer default to the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(middleware.CORS(deps.CORSOrigins))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "gsrs",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- User routes ---
	userHandler := handler.NewUserHandler(deps.Users, metrics.New(deps.Registerer))

	e.GET("/", userHandler.Root)
	e.POST("/user", userHandler.Create)
	e.GET("/users", userHandler.List)
	e.GET("/user/:email", userHandler.Get)

	// --- Operations ---
	healthHandler := handler.NewHealthHandler(deps.Health)

	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
