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

	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/admin"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/config"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/core"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/health"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/identity"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/kv"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/middleware"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/notification"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/report"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/reward"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/server"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	genKeys := flag.Bool("generate-keys", false, "generate a JWT key pair and exit")
	privateKeyPath := flag.String("private-key", "keys/private.pem", "JWT private key path for -generate-keys")
	publicKeyPath := flag.String("public-key", "keys/public.pem", "JWT public key path for -generate-keys")
	flag.Parse()

	if *genKeys {
		if err := identity.GenerateKeyPair(*privateKeyPath, *publicKeyPath); err != nil {
			slog.Error("key generation error", "error", err)
			os.Exit(1)
		}
		slog.Info("JWT key pair generated",
			"private_key", *privateKeyPath,
			"public_key", *publicKeyPath,
		)
		return
	}

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

	if err := kv.RunMigrations(ctx, db.DB.DB); err != nil {
		return err
	}
	logger.Info("migrations applied")

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := identity.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	store := kv.NewPostgresStore(db.DB)

	userRepo := user.NewRepository(store)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	identitySvc := identity.NewService(
		userRepo,
		jwtManager,
		redis.Client,
		cfg.Admin,
	)
	identityHandler := identity.NewHandler(identitySvc)

	ledger := reward.NewLedger(userRepo, cfg.Reward, logger)

	notificationRepo := notification.NewRepository(store)
	notificationSvc := notification.NewService(notificationRepo)
	notificationHandler := notification.NewHandler(notificationSvc)

	reportRepo := report.NewRepository(store)
	reportSvc := report.NewService(
		reportRepo,
		userRepo,
		ledger,
		notificationSvc,
		cfg.Reward.PointsPerReport,
		logger,
	)
	reportHandler := report.NewHandler(reportSvc)

	healthHandler := health.NewHandler()
	healthHandler.AddCheck("database", db)
	healthHandler.AddCheck("redis", redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Community:  admin.NewCommunityStats(userSvc, reportSvc),
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

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

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	authenticator := middleware.Authenticator(identitySvc)
	adminOnly := middleware.RequireAdmin

	router.Route("/v1", func(r chi.Router) {
		identityHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterRoutes(r, authenticator)
		reportHandler.RegisterRoutes(r, authenticator)
		notificationHandler.RegisterRoutes(r, authenticator)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
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
