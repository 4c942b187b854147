package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/i474232898/activity-finder/internal/activity"
	"github.com/i474232898/activity-finder/internal/activity/providers"
	httpapi "github.com/i474232898/activity-finder/internal/api/http"
	"github.com/i474232898/activity-finder/internal/config"
	"github.com/i474232898/activity-finder/internal/scheduler"
	"github.com/i474232898/activity-finder/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := cfg.NewLogger()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// Shared HTTP client for outbound provider calls.
	httpCfg := providers.HTTPClientConfig{
		Client:    &http.Client{Timeout: cfg.HTTPTimeout},
		UserAgent: cfg.UserAgent,
		Breaker: providers.BreakerConfig{
			Timeout:             cfg.BreakerTimeout,
			ConsecutiveFailures: uint32(cfg.BreakerFailures),
		},
	}

	var geocoder activity.Geocoder = providers.NewNominatimGeocoder(httpCfg, cfg.NominatimURL)
	if cfg.GoogleGeocoderAPIKey != "" {
		geocoder = providers.NewGoogleGeocoder(cfg.GoogleGeocoderAPIKey, httpCfg.Breaker)
	}
	var forecaster activity.Forecaster = providers.NewNWSForecaster(httpCfg, cfg.NWSURL)
	if cfg.ForecastProvider == "openmeteo" {
		forecaster = providers.NewOpenMeteoForecaster(httpCfg, cfg.OpenMeteoURL)
	}
	venues := providers.NewOverpassFinder(httpCfg, cfg.OverpassURL, cfg.OverpassTimeout)

	zlog.Info("providers configured",
		zap.String("geocoder", geocoder.Name()),
		zap.String("forecaster", forecaster.Name()),
		zap.String("venues", venues.Name()),
	)

	// Core service orchestrating the search pipeline.
	service := activity.NewService(geocoder, forecaster, venues, activity.NewPresenter(cfg.MapZoom), zlog)

	// Map sessions and their periodic cleanup.
	maps := store.NewMemoryStore(cfg.MaxSessions, cfg.SessionMaxAge)
	sched := scheduler.New(maps, service, cfg.SweepInterval, zlog)
	if err := sched.Start(); err != nil {
		zlog.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "activity-finder",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// A search makes several sequential upstream calls.
		WriteTimeout: 3 * cfg.HTTPTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
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

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "activity-finder",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, maps)

	go func() {
		zlog.Info("starting server", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Warn("fiber server stopped", zap.Error(err))
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zlog.Error("error during shutdown", zap.Error(err))
	}
}
