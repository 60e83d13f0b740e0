package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ezproduct/internal/api/middleware"

	"github.com/stretchr/testify/assert"
)

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	r := newEngine(t)
	r.GET("/healthz", NewHealthHandler(stubPinger{}).Health)
	r.GET("/down", NewHealthHandler(stubPinger{err: errors.New("db gone")}).Health)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/down", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestPrivacy(t *testing.T) {
	r := newEngine(t)
	r.GET("/privacy", middleware.Language(), Privacy)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/privacy?lang=zh", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "隐私政策")
}
