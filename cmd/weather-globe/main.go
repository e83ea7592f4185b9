package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httpapi "github.com/i474232898/weather-globe/internal/api/http"
	"github.com/i474232898/weather-globe/internal/config"
	"github.com/i474232898/weather-globe/internal/dashboard"
	"github.com/i474232898/weather-globe/internal/logging"
	"github.com/i474232898/weather-globe/internal/metrics"
	"github.com/i474232898/weather-globe/internal/scheduler"
	"github.com/i474232898/weather-globe/internal/store"
	"github.com/i474232898/weather-globe/internal/tracing"
	"github.com/i474232898/weather-globe/internal/weather"
	"github.com/i474232898/weather-globe/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := tracing.Init("weather-globe", cfg.ZipkinURL, logger)
	if err != nil {
		logger.Fatal("failed to init tracing", zap.Error(err))
	}

	recorder := metrics.NewRecorder()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	provider := newProvider(cfg, httpClient)

	// In-memory store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
	service := weather.NewService(provider, memStore, logger.Named("weather"), recorder)

	state, err := dashboard.NewState(cfg.SceneConfig(), cfg.Locations, logger.Named("dashboard"), time.Now)
	if err != nil {
		logger.Fatal("failed to build dashboard", zap.Error(err))
	}
	app := dashboard.NewApp(state, cfg.FrameInterval, logger.Named("loop"), recorder)
	service.Subscribe(app)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loopDone := make(chan error, 1)
	go func() { loopDone <- app.Run(ctx) }()

	// Scheduler that fetches the cities at startup and then periodically.
	sched := scheduler.New(cfg.Locations, cfg.RefreshInterval, cfg.UpdateTimeout, service, logger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	server := httpapi.NewServer(app, sched, httpapi.Options{
		Metrics:   recorder.Handler(),
		AssetsDir: cfg.AssetsDir,
		AccessLog: true,
	})

	go func() {
		logger.Info("http server listening", zap.String("port", cfg.Port))
		if err := server.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", zap.Error(err))
			stop()
		}
	}()

	// Wait for termination signal
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("error during shutdown", zap.Error(err))
	}
	if err := <-loopDone; err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("dashboard loop exited with error", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("error flushing traces", zap.Error(err))
	}
}

func newProvider(cfg *config.AppConfig, client *http.Client) weather.Provider {
	backoff := providers.BackoffConfig{
		MaxRetries:      cfg.MaxRetries,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}

	if cfg.Provider == "weatherapi" {
		return providers.NewWeatherAPIProvider(client, cfg.WeatherAPIKey, cfg.WeatherAPIURL, backoff)
	}

	opts := []providers.OpenWeatherOption{
		providers.WithBaseURL(cfg.OpenWeatherURL),
		providers.WithBackoff(backoff),
	}
	if cfg.GeocoderAPIKey != "" {
		opts = append(opts, providers.WithResolver(providers.NewGoogleResolver(cfg.GeocoderAPIKey)))
	}
	return providers.NewOpenWeatherProvider(client, cfg.OpenWeatherAPIKey, opts...)
}
