// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/carterperez-dev/templates/tiered-events/internal/auth"
	"github.com/carterperez-dev/templates/tiered-events/internal/config"
	"github.com/carterperez-dev/templates/tiered-events/internal/core"
	"github.com/carterperez-dev/templates/tiered-events/internal/event"
	"github.com/carterperez-dev/templates/tiered-events/internal/health"
	"github.com/carterperez-dev/templates/tiered-events/internal/identity"
	"github.com/carterperez-dev/templates/tiered-events/internal/membership"
	"github.com/carterperez-dev/templates/tiered-events/internal/middleware"
	"github.com/carterperez-dev/templates/tiered-events/internal/server"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before config")
	flag.Parse()

	if err := run(*configPath, *envFile); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap wiring
func run(configPath, envFile string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

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
	if cfg.IsDevelopment() {
		logger.Warn("development mode, session cookies are sent without Secure")
	}

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

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}

	identitySvc := identity.NewService(identity.NewRepository(db.DB))
	identityHandler := identity.NewHandler(identitySvc)

	blacklist := auth.NewRedisBlacklist(redis.Client)
	authSvc := auth.NewService(
		auth.NewRepository(db.DB),
		auth.SQLTx(db.DB),
		jwtManager,
		identitySvc,
		blacklist,
		logger,
	)
	authHandler := auth.NewHandler(authSvc, cfg.IsProduction())
	authenticator := middleware.Authenticator(
		auth.NewVerifier(jwtManager, blacklist, identitySvc),
	)

	eventRepo := event.NewRepository(db.DB)
	fetcher := event.NewFetcher(
		eventRepo,
		event.RetryPolicyFromConfig(cfg.Events.Retry),
		event.WithLogger(logger),
	)
	eventHandler := event.NewHandler(event.NewService(fetcher, identitySvc), logger)

	membershipSvc := membership.NewService(
		identitySvc,
		membership.NewRepository(db.DB),
		logger,
	)
	membershipHandler := membership.NewHandler(membershipSvc, logger)

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
		health.Dependency{Name: "catalog", Checker: health.CheckFunc(
			func(ctx context.Context) error {
				_, err := eventRepo.Count(ctx)
				return err
			},
		)},
	)

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
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.JWKSHandler())

	// Per-user quotas sized by tier; applied after the session is verified.
	tiered := middleware.TieredRateLimiter(redis.Client, middleware.DefaultTierQuotas())
	sessionRequired := func(next http.Handler) http.Handler {
		return authenticator(tiered(next))
	}

	router.Route("/api", func(r chi.Router) {
		eventHandler.RegisterRoutes(r, sessionRequired)
		membershipHandler.RegisterRoutes(r, sessionRequired)
	})

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)
		identityHandler.RegisterRoutes(r, sessionRequired)
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
