package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	_ "github.com/martshop/store-api/docs"
	"github.com/martshop/store-api/internal/api/handler"
	"github.com/martshop/store-api/internal/api/middleware"
	"github.com/martshop/store-api/internal/core/ports"
)

// authRateLimit bounds login/register attempts per client IP.
const (
	authRateLimit  = 20
	authRateWindow = time.Minute
)

// Dependencies carries everything the router needs. Repositories were
// already bound to one backend by the caller; the router never sees the
// backend selector.
type Dependencies struct {
	AuthService    ports.AuthService
	UserService    ports.UserService
	ProductService ports.ProductService
	JWTSecret      string
	// Redis enables rate limiting on the auth routes when non-nil.
	Redis *redis.Client
	// HealthChecks are pinged by the readiness probe.
	HealthChecks map[string]handler.DependencyCheck
	Logger       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Authorization is laid out route by route rather than inferred: every
// admin-only route names the gate explicitly, and user deletion is the one
// mutation that needs authentication only.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("store"))

	// --- Gates ---
	authn := middleware.Auth(deps.JWTSecret)
	adminOnly := middleware.RBAC("admin")

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	userHandler := handler.NewUserHandler(deps.UserService)
	productHandler := handler.NewProductHandler(deps.ProductService)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	if deps.Redis != nil {
		auth.Use(middleware.RateLimit(deps.Redis, authRateLimit, authRateWindow))
	}
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// --- User routes ---
	users := e.Group("/api/users")
	users.GET("", userHandler.List, authn, adminOnly)
	users.POST("", userHandler.Create, authn, adminOnly)
	users.GET("/:id", userHandler.Get, authn, adminOnly)
	users.PATCH("/:id", userHandler.Update, authn, adminOnly)
	users.DELETE("/:id", userHandler.Delete, authn) // self-delete: no admin gate

	// --- Product routes ---
	products := e.Group("/api/products")
	products.GET("", productHandler.List)
	products.GET("/category/:category", productHandler.ListByCategory)
	products.GET("/:id", productHandler.Get)
	products.POST("", productHandler.Create, authn, adminOnly)
	products.PUT("/:id", productHandler.Update, authn, adminOnly)
	products.DELETE("/:id", productHandler.Delete, authn, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.HealthChecks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
