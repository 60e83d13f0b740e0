package handlers

import (
	"net/http"

	"ezproduct/internal/events"
	"ezproduct/internal/logger"
	"ezproduct/internal/services/shopify"

	"github.com/gin-gonic/gin"
)

type WebhookVerifier interface {
	VerifyWebhook(r *http.Request) bool
}

// webhookEvents maps Shopify topics to the events that clean up after them.
// Topics not listed are acknowledged only.
var webhookEvents = map[string]string{
	"app/uninstalled": events.TypeAppUninstalled,
	"shop/redact":     events.TypeShopRedact,
}

type WebhookHandler struct {
	verifier  WebhookVerifier
	publisher events.Publisher
	logger    *logger.Logger
}

func NewWebhookHandler(verifier WebhookVerifier, publisher events.Publisher, logger *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		verifier:  verifier,
		publisher: publisher,
		logger:    logger.Component("webhooks"),
	}
}

// Receive answers 200 to every verified delivery, even when cleanup fails.
func (h *WebhookHandler) Receive(c *gin.Context) {
	if !h.verifier.VerifyWebhook(c.Request) {
		h.logger.Warn().Str("topic", c.GetHeader("X-Shopify-Topic")).Msg("webhook failed hmac verification")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid hmac"})
		return
	}

	topic := c.GetHeader("X-Shopify-Topic")
	shop, err := shopify.SanitizeShop(c.GetHeader("X-Shopify-Shop-Domain"))
	log := h.logger.With().Str("topic", topic).Str("shop", shop).Logger()
	if err != nil {
		log.Warn().Err(err).Msg("webhook without a valid shop domain")
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	eventType, ok := webhookEvents[topic]
	if !ok {
		log.Info().Msg("webhook acknowledged")
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	if err := h.publisher.Publish(c.Request.Context(), events.New(eventType, shop, nil)); err != nil {
		log.Error().Err(err).Msg("webhook cleanup failed")
	} else {
		log.Info().Msg("webhook processed")
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *WebhookHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
