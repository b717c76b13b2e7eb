package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"carbone/internal/amqp"
	"carbone/internal/config"
	applog "carbone/internal/log"
	"carbone/internal/storage"
	"carbone/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := applog.New(applog.Config{Level: slog.LevelInfo, Component: applog.ComponentWorker})
	applog.SetDefault(logger)

	logger.Info("Starting carbone-worker")

	// Load configuration
	cfg := config.Load()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite repository to persist consumed alerts
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Initialize AMQP client for consuming alert messages
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	alertWorker := worker.NewAlertWorker(repo)

	// Log the current alert totals at startup so restarts are visible
	if err := alertWorker.LogAlertTotals(ctx); err != nil {
		logger.Error("Failed to read alert totals", "error", err)
		// Don't exit - continue with normal operation
	}

	// Start alert consumption
	go func() {
		handler := func(msg *amqp.AlertMessage) error {
			return alertWorker.HandleAlertMessage(ctx, msg)
		}
		if err := amqpClient.ConsumeAlerts(ctx, handler); err != nil {
			if err != context.Canceled {
				logger.Error("Alert consumption failed", "error", err)
			}
			cancel()
		}
	}()

	// Periodic summary of alert totals per severity
	ticker := time.NewTicker(cfg.SummaryInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := alertWorker.LogAlertTotals(ctx); err != nil {
					logger.Error("Periodic alert summary failed", "error", err)
				}
			}
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Give worker time to finish current operations
	logger.Info("Shutting down worker...")
	cancel()

	// Wait for shutdown or timeout
	select {
	case <-shutdownCtx.Done():
		logger.Warn("Shutdown timeout reached")
	case <-time.After(5 * time.Second):
		logger.Info("Worker shutdown complete")
	}
}
