package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/inkmatch/trust-core/internal/api/handler"
	"github.com/inkmatch/trust-core/internal/api/middleware"
	"github.com/inkmatch/trust-core/internal/core/ports"
)

// Deps carries the assembled services the router exposes.
type Deps struct {
	Identity      ports.IdentityService
	Authorization ports.AuthorizationService
	Recorder      ports.SecurityRecorder
	Intake        ports.ObjectIntakeService
	Alerts        ports.AlertRepository

	Mongo     *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	auth := middleware.Auth(d.JWTSecret)

	// --- Trigger surface (service-to-service) ---
	identityHandler := handler.NewIdentityHandler(d.Identity)
	accessHandler := handler.NewAccessHandler(d.Authorization, d.Recorder)
	objectHandler := handler.NewObjectHandler(d.Intake)

	v1 := e.Group("/v1", auth, middleware.RBAC(middleware.RoleService, middleware.RoleOperator))
	v1.POST("/identities/validate", identityHandler.Validate)
	v1.POST("/identities/:id/email", identityHandler.ChangeEmail)
	v1.POST("/access/portfolio-view", accessHandler.CheckPortfolioView)
	v1.POST("/objects/finalized", objectHandler.Finalized)

	// --- Operator surface ---
	alertHandler := handler.NewAlertHandler(d.Alerts)
	ops := e.Group("/v1/alerts", auth, middleware.RBAC(middleware.RoleOperator))
	ops.GET("", alertHandler.List)
	ops.PATCH("/:id/status", alertHandler.UpdateStatus)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
