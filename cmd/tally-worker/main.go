package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tally/internal/amqp"
	"tally/internal/config"
	"tally/internal/log"
	"tally/internal/storage"
	"tally/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.Config{Component: log.ComponentWorker})
	log.SetDefault(logger)

	logger.Info("Starting tally-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	// The worker reads transactions from the shared SQLite database.
	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository",
			log.FieldError, err,
			"path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	auditWorker := worker.NewAuditWorker(repo, cfg.AuditLogPath, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Consuming transaction events",
		"queue", cfg.AMQPQueue,
		"audit_log", cfg.AuditLogPath)

	// Reconnect and retry until shutdown; the connection dies when the
	// broker goes away.
	for ctx.Err() == nil {
		err := consume(ctx, cfg, auditWorker)
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			break
		}
		logger.Error("Event consumption failed, retrying",
			log.FieldError, err,
			"retry_in", cfg.ConsumeRetry)

		select {
		case <-ctx.Done():
		case <-time.After(cfg.ConsumeRetry):
		}
	}

	logger.Info("Worker stopped gracefully", log.FieldOperation, log.OpShutdown)
}

// consume opens a fresh AMQP connection and delivers events to the
// worker until the context ends or the connection fails.
func consume(ctx context.Context, cfg *config.Config, auditWorker *worker.AuditWorker) error {
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return err
	}
	defer amqpClient.Close()

	return amqpClient.Consume(ctx, auditWorker.HandleEvent)
}
