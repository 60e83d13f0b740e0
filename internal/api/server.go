package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ezproduct/internal/api/handlers"
	"ezproduct/internal/api/middleware"
	"ezproduct/internal/api/templates"
	"ezproduct/internal/batch"
	"ezproduct/internal/config"
	"ezproduct/internal/events"
	"ezproduct/internal/logger"
	"ezproduct/internal/metrics"
	"ezproduct/internal/models"
	"ezproduct/internal/services/shopify"
	"ezproduct/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the services the HTTP layer routes to.
type Dependencies struct {
	Sessions  *store.SessionStore
	Pipeline  handlers.GenerationService
	Batch     *batch.Runner
	OAuth     *shopify.OAuthService
	States    shopify.StateStore
	Publisher events.Publisher
	DB        handlers.Pinger
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	// Tokens defaults to session tokens keyed by the app's API credentials.
	Tokens *shopify.SessionTokens
	// Clients defaults to ClientFactory(cfg, ...).
	Clients handlers.ClientFactory
}

type Server struct {
	config *config.Config
	logger *logger.Logger
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, deps Dependencies) (*Server, error) {
	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := templates.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	clients := deps.Clients
	if clients == nil {
		clients = ClientFactory(cfg, logger, deps.Metrics)
	}

	tokens := deps.Tokens
	if tokens == nil {
		tokens = shopify.NewSessionTokens(cfg.ShopifyAPIKey, cfg.ShopifyAPISecret)
	}

	// Initialize handlers
	appHandler := handlers.NewAppHandler(deps.Pipeline, clients, cfg.ShopifyAPIKey, logger)
	batchHandler := handlers.NewBatchHandler(deps.Batch, clients, logger)
	authHandler := handlers.NewAuthHandler(deps.OAuth, deps.States, deps.Sessions, tokens, cfg.ShopifyAppURL, cfg.ShopifyAPIKey, cfg.Scopes, logger)
	webhookHandler := handlers.NewWebhookHandler(deps.OAuth, deps.Publisher, logger)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	// Routes
	router.GET("/", root)
	router.GET("/healthz", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	router.GET("/privacy", middleware.Language(), handlers.Privacy)

	// Webhook bodies must reach HMAC verification unread.
	router.GET("/webhooks", webhookHandler.Status)
	router.POST("/webhooks", webhookHandler.Receive)

	auth := router.Group("/auth", middleware.Language())
	{
		auth.GET("", authHandler.Begin)
		auth.GET("/callback", authHandler.Callback)
		auth.GET("/login", authHandler.LoginForm)
		auth.POST("/login", authHandler.Login)
		auth.GET("/exit-iframe", authHandler.ExitIframe)
	}

	router.GET("/app/batch/template", middleware.Language(), batchHandler.Template)

	// The upload limit has to apply before Language and ShopifyAuth read the
	// form.
	appAuth := middleware.ShopifyAuth(deps.Sessions, deps.OAuth, tokens, deps.Metrics, logger)
	router.GET("/app", middleware.Language(), appAuth, appHandler.Index)
	router.POST("/app", middleware.Language(), appAuth, appHandler.Generate)
	router.POST("/app/batch", middleware.BodyLimit(handlers.MaxUploadBytes), middleware.Language(), appAuth, batchHandler.Upload)

	return &Server{
		config: cfg,
		logger: logger,
		router: router,
	}, nil
}

// ClientFactory builds Admin API clients whose 401 answers redirect to the
// install flow of the session's shop.
func ClientFactory(cfg *config.Config, logger *logger.Logger, m *metrics.Metrics) handlers.ClientFactory {
	return func(session *models.Session) shopify.AdminAPI {
		return shopify.NewClient(session.Shop, session.AccessToken, shopify.ClientOptions{
			APIVersion: cfg.ShopifyAPIVersion,
			ReauthURL:  middleware.AuthPath(session.Shop),
			Logger:     logger,
			Metrics:    m,
		})
	}
}

func root(c *gin.Context) {
	if c.Query("shop") != "" {
		c.Redirect(http.StatusFound, "/app?"+c.Request.URL.RawQuery)
		return
	}
	c.Redirect(http.StatusFound, "/auth/login")
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		// A batch upload runs every row inside one request.
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info().Str("addr", addr).Msg("starting server")
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info().Msg("shutting down server")
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// GetRouter returns the Gin router for serverless entry points.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
