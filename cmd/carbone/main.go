package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"carbone/internal/amqp"
	"carbone/internal/calendar"
	gcal "carbone/internal/calendar/google"
	"carbone/internal/config"
	"carbone/internal/core"
	apphttp "carbone/internal/http"
	applog "carbone/internal/log"
	"carbone/internal/metrics"
	"carbone/internal/services"
	"carbone/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := applog.New(applog.Config{Level: slog.LevelInfo, Component: applog.ComponentApp})
	applog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite repository for forecast runs and alert history
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Alert publisher: AMQP broker when configured, otherwise alerts are
	// logged and written to storage directly.
	var publisher services.AlertPublisher
	if cfg.AlertSink == "amqp" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("AMQP alert sink initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Log alert sink initialized - alerts recorded locally")
	}

	// Calendar backend for publishing plan actions (optional)
	var actionPublisher calendar.ActionPublisher
	if cfg.GoogleCalendarID != "" {
		calClient, err := gcal.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Calendar client", "error", err)
			os.Exit(1)
		}
		actionPublisher = calClient
		logger.Info("Google Calendar client initialized", "calendar_id", cfg.GoogleCalendarID)
	} else {
		logger.Info("Google Calendar disabled - no GOOGLE_CALENDAR_ID provided")
	}

	collector := metrics.NewCollector("carbone")

	forecastSvc := services.NewForecastService(repo, publisher, collector)
	planSvc := services.NewPlanService(calendar.Exporter{
		AppName: cfg.AppName,
		AppURL:  cfg.AppURL,
	}, actionPublisher)

	srv := apphttp.NewServer(apphttp.Options{
		Addr:      ":" + cfg.Port,
		Forecasts: forecastSvc,
		Plans:     planSvc,
		Alerts:    repo,
		Collector: collector,
		Defaults: apphttp.Defaults{
			Periods:   cfg.DefaultPeriods,
			Frequency: core.Granularity(cfg.DefaultFrequency),
			Language:  cfg.DefaultLanguage,
		},
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
	})

	// Configure server timeouts and limits
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting carbone server", "port", cfg.Port, "alert_sink", cfg.AlertSink)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
