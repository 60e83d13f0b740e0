package handler

import (
	"context"
	"net/http"
	"sync"

	"ezproduct/internal/bootstrap"
	"ezproduct/internal/config"
	"ezproduct/internal/logger"
)

var (
	once    sync.Once
	router  http.Handler
	initErr error
)

// Handler is the serverless entry point. The app is built on the first
// request and reused while the instance stays warm.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			initErr = err
			return
		}
		log := logger.New(cfg.LogLevel)
		app, err := bootstrap.New(context.Background(), cfg, log)
		if err != nil {
			log.Error().Err(err).Msg("failed to initialize app")
			initErr = err
			return
		}
		router = app.Server.GetRouter()
	})

	if initErr != nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	router.ServeHTTP(w, r)
}
