package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	"ezproduct/internal/api"
	"ezproduct/internal/batch"
	"ezproduct/internal/config"
	"ezproduct/internal/database"
	"ezproduct/internal/events"
	"ezproduct/internal/logger"
	"ezproduct/internal/metrics"
	"ezproduct/internal/services/ai"
	"ezproduct/internal/services/generation"
	"ezproduct/internal/services/shopify"
	"ezproduct/internal/store"
	"ezproduct/internal/worker/processors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App is the wired API process: database, event publisher, OAuth state and
// the HTTP server.
type App struct {
	Server *api.Server

	db        *database.Database
	publisher events.Publisher
	states    shopify.StateStore
}

// New connects to the database and Redis (when configured) and builds the
// HTTP server.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	db, err := database.New(cfg.DatabaseURL, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	sessions := store.NewSessionStore(db.DB, log)
	history := store.NewHistoryStore(db.DB)
	processor := processors.NewEventProcessor(sessions, log)
	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, processor, log)

	states, err := shopify.NewStateStore(ctx, cfg.RedisURL)
	if err != nil {
		publisher.Close()
		db.Close()
		return nil, err
	}

	generator := ai.NewGenerator(ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.AITimeout), cfg.GeminiModel, log, m)
	pipeline := generation.NewPipeline(generator, shopify.NewSyncer(log, m), sessions, history, publisher, m, log)

	server, err := api.New(cfg, log, api.Dependencies{
		Sessions:  sessions,
		Pipeline:  pipeline,
		Batch:     batch.NewRunner(pipeline, cfg.BatchDelay, log),
		OAuth:     shopify.NewOAuthService(cfg, log),
		Tokens:    shopify.NewSessionTokens(cfg.ShopifyAPIKey, cfg.ShopifyAPISecret),
		States:    states,
		Publisher: publisher,
		DB:        sqlDB,
		Metrics:   m,
		Gatherer:  registry,
	})
	if err != nil {
		closeStates(states)
		publisher.Close()
		db.Close()
		return nil, err
	}

	return &App{
		Server:    server,
		db:        db,
		publisher: publisher,
		states:    states,
	}, nil
}

// Close flushes the publisher and releases connections.
func (a *App) Close() error {
	return errors.Join(a.publisher.Close(), closeStates(a.states), a.db.Close())
}

func closeStates(states shopify.StateStore) error {
	if c, ok := states.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
