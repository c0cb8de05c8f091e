package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hirewave/portal-gateway/internal/api"
	"github.com/hirewave/portal-gateway/internal/api/cookies"
	"github.com/hirewave/portal-gateway/internal/core/service"
	"github.com/hirewave/portal-gateway/internal/infrastructure/backend"
	"github.com/hirewave/portal-gateway/internal/infrastructure/config"
	redisinfra "github.com/hirewave/portal-gateway/internal/infrastructure/db/redis"
	"github.com/hirewave/portal-gateway/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Dev(),
		Service: "portal-gateway",
	})

	ctx := context.Background()

	// --- Redis (optional; absent address disables the login limiter) ---
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		var err error
		redisClient, err = redisinfra.Connect(ctx, redisinfra.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, continuing without login limiter")
			redisClient = nil
		}
	}

	// --- Backend API client ---
	apiClient := backend.New(backend.Options{
		BaseURL:      cfg.Backend.BaseURL,
		Transport:    &http.Client{Timeout: 15 * time.Second},
		DefaultToken: cfg.Backend.Token,
		Logger:       log,
	})
	authService := service.NewAuthService(apiClient)

	// --- Cookie session store ---
	store := cookies.NewStore(cookies.Options{
		AccessTokenName:  cfg.Cookies.AccessTokenName,
		RefreshTokenName: cfg.Cookies.RefreshTokenName,
		Domain:           cfg.Cookies.Domain,
		MaxAgeSeconds:    cfg.Cookies.MaxAgeSeconds,
		SameSite:         cfg.Cookies.SameSite,
		Insecure:         cfg.Dev(),
		Logger:           log,
	})

	e := api.NewRouter(api.RouterParams{
		Config:      cfg,
		AuthService: authService,
		APIClient:   apiClient,
		Store:       store,
		Redis:       redisClient,
		Logger:      log,
	})

	// --- Serve with graceful shutdown ---
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("portal gateway listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}
