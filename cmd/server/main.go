package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resort-picker/internal/api"
	"resort-picker/internal/cache"
	"resort-picker/internal/catalog"
	"resort-picker/internal/config"
	"resort-picker/internal/models"
	"resort-picker/internal/scheduler"
	"resort-picker/internal/services"
	"resort-picker/pkg/client"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	logger.Info("Starting Resort Picker Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Load resort catalog
	resortCatalog := catalog.NewService(cfg.Catalog.DataFile, logger)
	if err := resortCatalog.Load(); err != nil {
		logger.Fatal("Failed to load resort catalog", zap.Error(err))
	}

	// Provider caches
	var (
		weatherCache   *cache.TTLCache[*models.WeatherRecord]
		snowCache      *cache.TTLCache[*models.SnowConditions]
		transportCache *cache.TTLCache[*models.Journey]
	)
	if cfg.Cache.Enabled {
		weatherCache = cache.New[*models.WeatherRecord](cfg.Cache.SweepInterval, logger)
		snowCache = cache.New[*models.SnowConditions](cfg.Cache.SweepInterval, logger)
		transportCache = cache.New[*models.Journey](cfg.Cache.SweepInterval, logger)
	}

	// Provider clients
	clientConfig := client.ClientConfig{
		Timeout:        cfg.Providers.Timeout,
		MaxRetries:     cfg.Retry.MaxRetries,
		RetryDelay:     cfg.Retry.Delay,
		Multiplier:     cfg.Retry.Multiplier,
		BreakerTimeout: cfg.CircuitBreaker.Timeout,
	}

	weatherClient := client.NewOpenWeatherClient(cfg.Providers.OpenWeatherURL, cfg.Providers.OpenWeatherAPIKey, clientConfig, logger)
	snowClient := client.NewOpenMeteoSnowClient(cfg.Providers.OpenMeteoURL, clientConfig, logger)
	transportClient := client.NewTransportClient(cfg.Providers.TransportURL, clientConfig, logger)
	llmClient := client.NewLLMClient(cfg.LLM.Endpoint, cfg.LLM.APIKey, cfg.LLM.Model, clientConfig, logger)

	// Domain services
	concurrency := cfg.Providers.FetchConcurrency
	weatherService := services.NewWeatherService(weatherClient, weatherCache, cfg.Cache.WeatherTTL, concurrency, logger)
	snowService := services.NewSnowService(snowClient, snowCache, cfg.Cache.SnowTTL, concurrency, logger)
	transportService := services.NewTransportService(transportClient, transportCache, cfg.Cache.TransportTTL, concurrency, cfg.Recommend.StartLocation, logger)
	summarizer := services.NewLLMSummarizer(llmClient, cfg.LLM.Timeout, logger)

	recommender := services.NewRecommender(
		resortCatalog,
		weatherService,
		snowService,
		transportService,
		summarizer,
		cfg.Recommend.DefaultLimit,
		logger,
	)

	// Cache prewarmer
	var prewarmer *scheduler.Prewarmer
	if cfg.Prewarm.Enabled && cfg.Cache.Enabled {
		prewarmer = scheduler.NewPrewarmer(
			resortCatalog,
			weatherService,
			snowService,
			transportService,
			cfg.Prewarm.CronSpec,
			logger,
		)
		if err := prewarmer.Start(); err != nil {
			logger.Fatal("Failed to start cache prewarmer", zap.Error(err))
		}
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: errorHandler,
	})

	// Setup handlers and routes
	handler := api.NewHandler(recommender, resortCatalog, weatherService, transportService, logger)
	api.SetupRoutes(app, handler, cfg.Server.CORSOrigins, logger)

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Starting server", zap.String("address", addr))

		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if prewarmer != nil {
		prewarmer.Stop()
	}

	// Shutdown Fiber app
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	if weatherCache != nil {
		weatherCache.Stop()
		snowCache.Stop()
		transportCache.Stop()
	}

	logger.Info("Server stopped")
}

func errorHandler(c *fiber.Ctx, err error) error {
	zap.L().Error("HTTP error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))

	// Default to 500 status code
	code := fiber.StatusInternalServerError

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   err.Error(),
		"success": false,
	})
}
