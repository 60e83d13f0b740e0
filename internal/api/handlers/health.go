package handlers

import (
	"context"
	"net/http"
	"time"

	"ezproduct/internal/api/middleware"
	"ezproduct/internal/i18n"

	"github.com/gin-gonic/gin"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

type privacyPage struct {
	T      i18n.Translator
	APIKey string
}

func Privacy(c *gin.Context) {
	c.HTML(http.StatusOK, "privacy.html", privacyPage{T: i18n.Translator{Lang: middleware.Lang(c)}})
}
