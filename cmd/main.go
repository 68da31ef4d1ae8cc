package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/compass/internal/config"
	"github.com/UnknownOlympus/compass/internal/geocoding"
	"github.com/UnknownOlympus/compass/internal/httpapi"
	"github.com/UnknownOlympus/compass/internal/location"
	"github.com/UnknownOlympus/compass/internal/mapview"
	"github.com/UnknownOlympus/compass/internal/metrics"
	"github.com/UnknownOlympus/compass/internal/routing"
	"github.com/UnknownOlympus/compass/internal/scene"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// Providers are selected at runtime by the factories (Google, Nominatim, Visicom, OSRM, ...).
	geocodingKey := cfg.Geocoder.APIKey
	if geocodingKey == "" {
		geocodingKey = cfg.APIKey
	}
	geocoder, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.Geocoder.Type),
		APIKey:    geocodingKey,
		RateLimit: cfg.RateLimit,
		Language:  cfg.Geocoder.Language,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("Failed to create geocoding provider: %v", err)
	}

	router, err := routing.NewProvider(routing.ProviderConfig{
		Type:      routing.ProviderType(cfg.Routing.Type),
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.Routing.BaseURL,
		RateLimit: cfg.RateLimit,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("Failed to create routing provider: %v", err)
	}

	scenes, err := scene.NewProvider(scene.ProviderConfig{
		Type:      scene.ProviderType(cfg.Scene.Type),
		APIKey:    cfg.APIKey,
		Radius:    cfg.Scene.Radius,
		RateLimit: cfg.RateLimit,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("Failed to create scene provider: %v", err)
	}

	locator, err := location.NewProvider(location.ProviderConfig{
		Type:         location.ProviderType(cfg.Location.Type),
		APIKey:       cfg.APIKey,
		RateLimit:    cfg.RateLimit,
		PollInterval: cfg.Location.PollInterval,
		Initial:      cfg.Location.Initial,
		Logger:       logger,
	})
	if err != nil {
		log.Fatalf("Failed to create location provider: %v", err)
	}

	logger.InfoContext(ctx, "Providers initialized",
		"geocoder", cfg.Geocoder.Type,
		"routing", cfg.Routing.Type,
		"scene", cfg.Scene.Type,
		"location", cfg.Location.Type,
	)

	view := mapview.New(mapview.Dependencies{
		Geocoder: geocoder,
		Router:   router,
		Scenes:   scenes,
		Locator:  locator,
		Metrics:  appMetrics,
		Logger:   logger,
	})
	// Only the static provider accepts fixes pushed over the API.
	publisher, _ := locator.(httpapi.Publisher)
	api := httpapi.NewServer(view, publisher, logger, appMetrics, httpapi.DefaultRequestTimeout)

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	// Start the monitoring server in a goroutine to allow main to listen for signals.
	go startMonitoringServer(ctx, logger, reg, view, cfg.MonitoringPort)

	go view.Run(ctx)

	go func() {
		if err := api.Listen(cfg.HTTPPort); err != nil {
			logger.ErrorContext(ctx, "API server failed", "error", err)
			stop()
		}
	}()

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	// Log that a shutdown signal has been received.
	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	shutdownTimeout := 10
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownTimeout)*time.Second)
	defer cancel()
	if err := api.Shutdown(shutdownCtx); err != nil {
		logger.ErrorContext(shutdownCtx, "Failed to stop API server", "error", err)
	}
	<-view.Done()

	// Log graceful shutdown completion.
	logger.InfoContext(shutdownCtx, "Application stopped gracefully.")
}

// startMonitoringServer starts an HTTP server that provides health check and metrics endpoints.
// It listens on the specified port and logs the server's status and any errors encountered.
//
// Parameters:
// - ctx: A context.Context for managing cancellation and timeouts.
// - log: A logger for logging server events and errors.
// - reg: A registry with Prometheus collectors.
// - view: The map view whose owner loop must be running for the service to be healthy.
// - port: The port number on which the server will listen.
func startMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	view *mapview.MapView,
	port int,
) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, _ *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		status, body := http.StatusOK, "OK"
		select {
		case <-view.Done():
			status, body = http.StatusServiceUnavailable, "map view stopped"
		default:
		}
		writer.WriteHeader(status)
		_, err := writer.Write([]byte(body))
		if err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", status)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	readTimeout := 5
	writeTimeout := 10
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelWarn,
				ReplaceAttr: dropTime,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelError,
				ReplaceAttr: dropTime,
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}

func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
