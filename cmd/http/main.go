package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rsvshop/rsvshop/internal/infrastructure/configs"
	"github.com/rsvshop/rsvshop/internal/infrastructure/logging"
	"github.com/rsvshop/rsvshop/internal/infrastructure/metrics"
	"github.com/rsvshop/rsvshop/internal/infrastructure/ratelimiter"
	"github.com/rsvshop/rsvshop/internal/infrastructure/tracing"
	"github.com/rsvshop/rsvshop/internal/infrastructure/uptime"
	"github.com/rsvshop/rsvshop/internal/presentation/api"
	"github.com/rsvshop/rsvshop/internal/presentation/handler/admin"
	"github.com/rsvshop/rsvshop/internal/presentation/handler/health"
	"github.com/rsvshop/rsvshop/internal/presentation/handler/ping"
)

const metricsNamespace = "rsvshop_admin"

func main() {
	// Best-effort: .env files only exist in local development.
	_ = godotenv.Load(".env", "../../.env")

	configPath, err := configs.DetermineConfigPath(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.NewLogger(logging.NewConfig(cfg.App.Name, cfg.Logger))
	defer logger.Sync()

	if configPath == "" {
		logger.Warn(logging.Config, logging.Startup, "no config file found, using defaults and environment", nil)
	} else {
		logger.Info(logging.Config, logging.Startup, "config loaded", map[logging.ExtraKey]any{logging.Path: configPath})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracing.InitTracer(ctx, tracing.NewConfig(*cfg))
	if err != nil {
		logger.Fatal(logging.Tracing, logging.Startup, "failed to initialize the tracer", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error(logging.Tracing, logging.Shutdown, "failed to flush traces", map[logging.ExtraKey]any{
				logging.ErrorMessage: err.Error(),
			})
		}
	}()

	clock := uptime.Process()

	var limiter ratelimiter.Limiter
	if cfg.RateLimiter.Enabled {
		rl := ratelimiter.New(ratelimiter.Options{
			MaxRatePerSecond: cfg.RateLimiter.MaxRatePerSecond,
			MaxBurst:         cfg.RateLimiter.MaxBurst,
			CacheTTL:         cfg.RateLimiter.CacheTTL,
			SourceHeaderKey:  cfg.RateLimiter.SourceHeaderKey,
		})
		defer rl.Close()
		limiter = rl
	}

	pingHandler := ping.NewHandler(clock, logger)
	healthHandler := health.NewHandler(clock, cfg.App.Version, logger)
	adminHandler := admin.NewHandler(cfg.UI, logger)

	app := api.NewApplication(
		*cfg,
		pingHandler,
		healthHandler,
		adminHandler,
		metrics.New(metricsNamespace, clock),
		logger,
		limiter,
	)

	if err := app.Run(ctx, app.Mount()); err != nil {
		logger.Error(logging.General, logging.Shutdown, "server exited with error", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		os.Exit(1)
	}
}
