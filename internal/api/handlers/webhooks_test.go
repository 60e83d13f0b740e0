package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ezproduct/internal/events"
	"ezproduct/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubWebhookVerifier bool

func (v stubWebhookVerifier) VerifyWebhook(*http.Request) bool { return bool(v) }

type recordingPublisher struct {
	published []events.Event
	err       error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.published = append(p.published, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func newWebhookRouter(valid bool, pub *recordingPublisher) *gin.Engine {
	h := NewWebhookHandler(stubWebhookVerifier(valid), pub, logger.Nop())
	r := gin.New()
	r.GET("/webhooks", h.Status)
	r.POST("/webhooks", h.Receive)
	return r
}

func webhook(topic, shop string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/webhooks", strings.NewReader(`{}`))
	req.Header.Set("X-Shopify-Topic", topic)
	req.Header.Set("X-Shopify-Shop-Domain", shop)
	return req
}

func TestWebhookRejectsInvalidHMAC(t *testing.T) {
	pub := &recordingPublisher{}
	w := serve(newWebhookRouter(false, pub), webhook("app/uninstalled", testShop))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, pub.published)
}

func TestWebhookCleanupTopics(t *testing.T) {
	tests := map[string]string{
		"app/uninstalled": events.TypeAppUninstalled,
		"shop/redact":     events.TypeShopRedact,
	}
	for topic, eventType := range tests {
		pub := &recordingPublisher{}
		w := serve(newWebhookRouter(true, pub), webhook(topic, testShop))

		assert.Equal(t, http.StatusOK, w.Code, topic)
		require.Len(t, pub.published, 1, topic)
		assert.Equal(t, eventType, pub.published[0].Type)
		assert.Equal(t, testShop, pub.published[0].Shop)
	}
}

func TestWebhookAcknowledgesOtherTopics(t *testing.T) {
	for _, topic := range []string{"customers/data_request", "customers/redact", "shop/update"} {
		pub := &recordingPublisher{}
		w := serve(newWebhookRouter(true, pub), webhook(topic, testShop))

		assert.Equal(t, http.StatusOK, w.Code, topic)
		assert.Empty(t, pub.published, topic)
	}
}

func TestWebhookCleanupFailureStillAcknowledged(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	w := serve(newWebhookRouter(true, pub), webhook("app/uninstalled", testShop))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, pub.published, 1)
}

func TestWebhookStatus(t *testing.T) {
	w := serve(newWebhookRouter(true, &recordingPublisher{}), httptest.NewRequest(http.MethodGet, "/webhooks", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
