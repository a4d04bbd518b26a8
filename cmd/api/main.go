// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelamos/marketplace-api/internal/admin"
	"github.com/angelamos/marketplace-api/internal/auth"
	"github.com/angelamos/marketplace-api/internal/config"
	"github.com/angelamos/marketplace-api/internal/core"
	"github.com/angelamos/marketplace-api/internal/health"
	"github.com/angelamos/marketplace-api/internal/mail"
	"github.com/angelamos/marketplace-api/internal/middleware"
	"github.com/angelamos/marketplace-api/internal/seller"
	"github.com/angelamos/marketplace-api/internal/server"
	"github.com/angelamos/marketplace-api/internal/session"
	"github.com/angelamos/marketplace-api/internal/token"
	"github.com/angelamos/marketplace-api/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	mailer := mail.New(cfg.Mail)
	logger.Info("mailer initialized", "driver", cfg.Mail.Driver)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)

	sessionRepo := session.NewRepository(db.DB)
	sessionValidator := session.NewValidator(sessionRepo, userSvc, cfg.Session)

	tokenRepo := token.NewRepository(db.DB)
	tokenSvc := token.NewService(tokenRepo, cfg.Token)

	authSvc := auth.NewService(
		userSvc,
		sessionRepo,
		tokenSvc,
		mailer,
		core.Argon2Hasher{},
		cfg.App,
	)
	authHandler := auth.NewHandler(authSvc, cfg.Session, cfg.App)

	userHandler := user.NewHandler(userSvc, tokenSvc, mailer, sessionRepo)

	sellerRepo := seller.NewRepository(db.DB)
	sellerSvc := seller.NewService(sellerRepo)
	sellerHandler := seller.NewHandler(sellerSvc)

	adminRepo := admin.NewRepository(db.DB)
	adminHandler := admin.NewHandler(userSvc, adminRepo)

	healthHandler := health.NewHandler(db, redis)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Route("/v1", func(r chi.Router) {
		r.Use(sessionValidator.Middleware(cfg.Session))

		authHandler.RegisterRoutes(r)
		userHandler.RegisterRoutes(r)
		sellerHandler.RegisterRoutes(r)
		adminHandler.RegisterRoutes(r)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
