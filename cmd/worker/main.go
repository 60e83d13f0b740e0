package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"ezproduct/internal/config"
	"ezproduct/internal/database"
	"ezproduct/internal/logger"
	"ezproduct/internal/store"
	"ezproduct/internal/worker"
	"ezproduct/internal/worker/processors"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	if len(cfg.KafkaBrokers) == 0 {
		logger.Fatal().Msg("KAFKA_BROKERS is not set; events are processed inline by the API")
	}

	db, err := database.New(cfg.DatabaseURL, cfg.LogLevel)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	processor := processors.NewEventProcessor(store.NewSessionStore(db.DB, logger), logger)

	// Initialize worker
	w := worker.New(cfg, processor, logger)
	defer w.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start worker
	if err := w.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("worker stopped with error")
	}
	logger.Info().Msg("worker shut down")
}
