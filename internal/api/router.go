package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hirewave/portal-gateway/internal/api/cookies"
	"github.com/hirewave/portal-gateway/internal/api/handler"
	"github.com/hirewave/portal-gateway/internal/api/middleware"
	"github.com/hirewave/portal-gateway/internal/core/ports"
	"github.com/hirewave/portal-gateway/internal/infrastructure/config"
	redisinfra "github.com/hirewave/portal-gateway/internal/infrastructure/db/redis"
)

// RouterParams carries the wired dependencies into NewRouter.
type RouterParams struct {
	Config      *config.Config
	AuthService ports.AuthService
	APIClient   ports.APIClient
	Store       *cookies.Store
	// Redis is optional; nil disables the login limiter and its readiness check.
	Redis  *redis.Client
	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(p RouterParams) *echo.Echo {
	cfg := p.Config

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(p.Logger)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("portal_gateway"))
	e.Use(middleware.Auth(middleware.AuthConfig{
		Store:                  p.Store,
		FetchUser:              p.AuthService.GetCurrentUser,
		PublicRoutes:           cfg.Auth.PublicRoutes,
		LoginPath:              cfg.Auth.LoginPath,
		DefaultRedirectPath:    cfg.Auth.DefaultRedirectPath,
		NoRedirectPreservation: noRedirectPreservation(cfg),
		Logger:                 p.Logger,
	}))

	// --- Dependencies ---
	var limiter *redisinfra.LoginLimiter
	if p.Redis != nil && cfg.Auth.LoginRateLimit > 0 {
		limiter = redisinfra.NewLoginLimiter(
			p.Redis,
			cfg.Auth.LoginRateLimit,
			time.Duration(cfg.Auth.LoginRateWindowSecs)*time.Second,
		)
	}
	authHandler := handler.NewAuthHandler(handler.AuthHandlerParams{
		Service: p.AuthService,
		Store:   p.Store,
		Limiter: limiter,
		Google: handler.GoogleOAuth{
			ClientID:    cfg.Google.ClientID,
			RedirectURL: cfg.Google.RedirectURL,
			AuthURL:     cfg.Google.AuthURL,
		},
		LoginPath:           cfg.Auth.LoginPath,
		DefaultRedirectPath: cfg.Auth.DefaultRedirectPath,
		Insecure:            cfg.Dev(),
		Logger:              p.Logger,
	})

	// --- Auth routes (public via the gate's route set) ---
	e.GET(cfg.Auth.LoginPath, authHandler.LoginForm)
	e.POST(cfg.Auth.LoginPath, authHandler.Login)
	e.POST("/register", authHandler.Register)
	e.GET("/login/google", authHandler.GoogleStart)
	e.GET("/authorize", authHandler.Authorize)
	e.GET("/logout", authHandler.Logout)

	// --- Session routes (protected by the gate) ---
	e.GET("/me", authHandler.Me)
	e.POST("/change-password", authHandler.ChangePassword)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(p.APIClient, p.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}

// noRedirectPreservation returns the configured exemption list; an empty
// result lets the gate fall back to its default.
func noRedirectPreservation(cfg *config.Config) []string {
	if len(cfg.Auth.NoRedirectPreservation) > 0 {
		return cfg.Auth.NoRedirectPreservation
	}
	return nil
}
