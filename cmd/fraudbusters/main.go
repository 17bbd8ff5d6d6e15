package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shubhamshk/fraudBusters-App/internal/app"
	"github.com/shubhamshk/fraudBusters-App/internal/auth"
	"github.com/shubhamshk/fraudBusters-App/internal/certificates"
	"github.com/shubhamshk/fraudBusters-App/internal/observability"
	"github.com/shubhamshk/fraudBusters-App/internal/platform/cache"
	"github.com/shubhamshk/fraudBusters-App/internal/platform/db"
	"github.com/shubhamshk/fraudBusters-App/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		logger.Error("apply migrations", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	userRepo := users.NewRepository(pool)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	cookies := auth.NewCookieManager(cfg.TokenTTL, cfg.IsProduction())
	authMiddleware := auth.Middleware{
		Logger:  logger,
		Tokens:  tokens,
		Cookies: cookies,
		Users:   userRepo,
	}
	authService := auth.NewService(userRepo, tokens)
	authHandler := auth.NewHandler(logger, authService, cookies, authMiddleware)

	certRepo := certificates.NewRepository(pool)
	certService := certificates.NewService(certRepo, certificates.StaticVerifier{}, redisClient, logger)
	certHandler := certificates.NewHandler(logger, certService, authMiddleware)

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		Metrics:             observability.NewMetrics(),
		AuthHandler:         authHandler,
		CertificatesHandler: certHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
