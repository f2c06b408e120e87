package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	httpapi "github.com/AdiKsOnDev/climatetime-sub000/internal/api/http"
	"github.com/AdiKsOnDev/climatetime-sub000/internal/cache"
	"github.com/AdiKsOnDev/climatetime-sub000/internal/climate"
	"github.com/AdiKsOnDev/climatetime-sub000/internal/climate/providers"
	"github.com/AdiKsOnDev/climatetime-sub000/internal/config"
	"github.com/AdiKsOnDev/climatetime-sub000/internal/observability"
	"github.com/AdiKsOnDev/climatetime-sub000/internal/ratelimit"
	"github.com/AdiKsOnDev/climatetime-sub000/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	sugar := zlog.Sugar()

	metrics := observability.NewMetrics()

	// Shared HTTP client for outbound upstream calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Result cache with a scheduled sweep owning expired-entry cleanup.
	resultCache := cache.New()
	sweeper := scheduler.New(resultCache, cfg.CacheSweepInterval, sugar)
	if err := sweeper.Start(); err != nil {
		sugar.Fatalw("failed to start cache sweeper", "error", err)
	}
	defer sweeper.Stop()

	// Upstream clients with resilience (backoff + circuit breaker).
	archive := providers.NewArchiveProvider(httpClient, cfg.ArchiveBaseURL, metrics)
	model := providers.NewClimateModelProvider(httpClient, cfg.ClimateBaseURL, metrics)

	// Pacer keeps archive requests under the upstream daily quota.
	pacer := ratelimit.New(cfg.FetchDelay)

	history := climate.NewHistoryService(archive, pacer, resultCache, metrics, sugar, cfg.HistoryCacheTTL)
	projections := climate.NewProjectionService(model, resultCache, metrics, sugar, cfg.ProjectionCacheTTL)

	app := fiber.New(fiber.Config{
		AppName:               "climatetime",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// Multi-year fetches block for years_requested x delay, so the
		// write timeout has to cover a 50-year paced trend fetch.
		WriteTimeout: 5 * time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "climatetime",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpapi.RegisterRoutes(app, history, projections)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			sugar.Errorw("fiber server stopped", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		sugar.Errorw("error during shutdown", "error", err)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
