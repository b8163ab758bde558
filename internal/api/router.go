package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/kindapp/marketplace/docs"
	"github.com/kindapp/marketplace/internal/api/handler"
	"github.com/kindapp/marketplace/internal/api/middleware"
	"github.com/kindapp/marketplace/internal/core/ports"
	"github.com/kindapp/marketplace/internal/infrastructure/http/handlers"
	"github.com/kindapp/marketplace/pkg/logger"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Auth            ports.AuthService
	Users           ports.UserService
	ContactRequests ports.ContactRequestService
	Messages        ports.MessageService

	JWTSecret string
	Logger    zerolog.Logger

	// RateLimits backs the POST /messages limiter; nil disables limiting.
	RateLimits        middleware.RateLimitStore
	MessageRateLimit  int
	MessageRateWindow time.Duration

	// ReadinessChecks are run by GET /health/ready.
	ReadinessChecks map[string]handlers.Check

	// Metrics mounts the prometheus middleware and /metrics. Off in tests,
	// where repeated registration would panic.
	Metrics bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(logger.RequestLogger(deps.Logger))
	e.Use(echomiddleware.CORS())
	if deps.Metrics {
		e.Use(echoprometheus.NewMiddleware("marketplace"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(deps.ReadinessChecks).Readiness)

	authHandler := handler.NewAuthHandler(deps.Auth, deps.Users)
	userHandler := handler.NewUserHandler(deps.Users)
	contactHandler := handler.NewContactRequestHandler(deps.ContactRequests)
	messageHandler := handler.NewMessageHandler(deps.Messages)

	bearer := middleware.Auth(deps.JWTSecret)
	adminOnly := middleware.AdminOnly()
	limiter := middleware.NewRateLimiter(deps.RateLimits, deps.Logger)

	// --- Auth ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/me", authHandler.Me, bearer)

	// --- Directory ---
	e.GET("/providers", userHandler.SearchProviders)
	e.GET("/users/:id", userHandler.Get)
	e.PUT("/users/:id", userHandler.Update, bearer)

	e.GET("/users", userHandler.List, bearer, adminOnly)
	e.DELETE("/users/:id", userHandler.Delete, bearer, adminOnly)

	// --- Approvals ---
	e.GET("/admin/pending-providers", userHandler.PendingProviders, bearer, adminOnly)
	e.PUT("/admin/providers/:id/status", userHandler.SetProviderStatus, bearer, adminOnly)

	// --- Contact requests ---
	e.POST("/contact-requests", contactHandler.Create)
	e.GET("/contact-requests/client/:clientId", contactHandler.ListForClient)
	e.GET("/contact-requests/provider/:providerId", contactHandler.ListForProvider)
	e.GET("/contact-requests", contactHandler.ListAll, bearer, adminOnly)
	e.PUT("/contact-requests/:id", contactHandler.UpdateStatus, bearer, adminOnly)

	// --- Messages ---
	e.POST("/messages", messageHandler.Post, limiter.Limit(middleware.RateLimitRule{
		Name:   "messages",
		Limit:  deps.MessageRateLimit,
		Window: deps.MessageRateWindow,
	}))
	e.GET("/messages/:contactRequestId", messageHandler.List)
	e.PUT("/messages/:id/read", messageHandler.MarkRead)

	return e
}
