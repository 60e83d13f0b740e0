package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"ezproduct/internal/logger"
	"ezproduct/internal/models"
	"ezproduct/internal/services/shopify"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mapSessions map[string]*models.Session

func (m mapSessions) Load(_ context.Context, id string) (*models.Session, error) {
	return m[id], nil
}

type stubVerifier struct{ err error }

func (v stubVerifier) VerifyCallback(*url.URL) error { return v.err }

func newAuthRouter(sessions SessionLoader, verifier RequestVerifier) *gin.Engine {
	r := gin.New()
	handler := func(c *gin.Context) {
		c.Header("X-Next-Token", Token(c))
		c.String(http.StatusOK, "shop=%s", Session(c).Shop)
	}
	app := r.Group("/app", Language(), ShopifyAuth(sessions, verifier, testTokens, nil, logger.Nop()))
	app.GET("", handler)
	app.POST("", handler)
	return r
}

var testTokens = shopify.NewSessionTokens("key", "secret")

func tokenFor(t *testing.T, shop string) string {
	t.Helper()
	token, err := testTokens.Issue(shop)
	require.NoError(t, err)
	return token
}

func activeSessions() mapSessions {
	return mapSessions{
		"offline_demo.myshopify.com":  {ID: "offline_demo.myshopify.com", Shop: "demo.myshopify.com", AccessToken: "shpat_1"},
		"offline_other.myshopify.com": {ID: "offline_other.myshopify.com", Shop: "other.myshopify.com", AccessToken: "shpat_2"},
	}
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func formRequest(target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestShopifyAuthNoEmbeddedParams(t *testing.T) {
	w := serve(newAuthRouter(activeSessions(), stubVerifier{}), httptest.NewRequest(http.MethodGet, "/app", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestShopifyAuthSignedRequestLoadsSession(t *testing.T) {
	w := serve(newAuthRouter(activeSessions(), stubVerifier{}), httptest.NewRequest(http.MethodGet, "/app?shop=demo.myshopify.com&host=abc&hmac=ok&timestamp=1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "shop=demo.myshopify.com", w.Body.String())

	shop, err := testTokens.Verify(w.Header().Get("X-Next-Token"))
	require.NoError(t, err)
	assert.Equal(t, "demo.myshopify.com", shop)
}

func TestShopifyAuthSessionTokenSources(t *testing.T) {
	token := tokenFor(t, "demo.myshopify.com")

	bearer := httptest.NewRequest(http.MethodGet, "/app", nil)
	bearer.Header.Set("Authorization", "Bearer "+token)

	tests := []struct {
		name string
		req  *http.Request
	}{
		{"bearer header", bearer},
		{"query", httptest.NewRequest(http.MethodGet, "/app?id_token="+token, nil)},
		{"form field", formRequest("/app", "id_token="+token+"&keywords=mug")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(newAuthRouter(activeSessions(), stubVerifier{}), tt.req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "shop=demo.myshopify.com", w.Body.String())
		})
	}
}

func TestShopifyAuthShopComesFromToken(t *testing.T) {
	req := formRequest("/app", "shop=other.myshopify.com&id_token="+tokenFor(t, "demo.myshopify.com"))

	w := serve(newAuthRouter(activeSessions(), stubVerifier{}), req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "shop=demo.myshopify.com", w.Body.String())
}

func TestShopifyAuthRejectsUnsignedGet(t *testing.T) {
	w := serve(newAuthRouter(activeSessions(), stubVerifier{}), httptest.NewRequest(http.MethodGet, "/app?shop=demo.myshopify.com&host=abc", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "shop=demo")
}

func TestShopifyAuthRejectsUnsignedPost(t *testing.T) {
	r := newAuthRouter(activeSessions(), stubVerifier{})

	w := serve(r, formRequest("/app", "shop=demo.myshopify.com&keywords=mug"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, formRequest("/app", "keywords=mug"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestShopifyAuthRejectsBadHMAC(t *testing.T) {
	r := newAuthRouter(activeSessions(), stubVerifier{err: errors.New("bad")})
	w := serve(r, httptest.NewRequest(http.MethodGet, "/app?shop=demo.myshopify.com&hmac=abc&timestamp=1", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestShopifyAuthRejectsForgedToken(t *testing.T) {
	forged, err := shopify.NewSessionTokens("key", "guessed").Issue("demo.myshopify.com")
	require.NoError(t, err)

	w := serve(newAuthRouter(activeSessions(), stubVerifier{}), formRequest("/app", "id_token="+forged))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestShopifyAuthMissingSessionRedirectsToAuth(t *testing.T) {
	r := newAuthRouter(mapSessions{}, stubVerifier{})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/app?shop=demo.myshopify.com&hmac=ok", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth?shop=demo.myshopify.com", w.Header().Get("Location"))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/app?shop=demo.myshopify.com&embedded=1&hmac=ok", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/exit-iframe?exitIframe=%2Fauth%3Fshop%3Ddemo.myshopify.com", w.Header().Get("Location"))
}

func TestShopifyAuthExpiredSession(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	sessions := activeSessions()
	sessions["offline_demo.myshopify.com"].Expires = &past

	w := serve(newAuthRouter(sessions, stubVerifier{}), httptest.NewRequest(http.MethodGet, "/app?id_token="+tokenFor(t, "demo.myshopify.com"), nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth?shop=demo.myshopify.com", w.Header().Get("Location"))
}

func TestRespondReauth(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		redirect shopify.Redirect
		status   int
		location string
	}{
		{
			name:     "top level keeps status",
			target:   "/app",
			redirect: shopify.Redirect{Status: http.StatusSeeOther, Location: "/auth?shop=a.myshopify.com"},
			status:   http.StatusSeeOther,
			location: "/auth?shop=a.myshopify.com",
		},
		{
			name:     "invalid status becomes 302",
			target:   "/app",
			redirect: shopify.Redirect{Status: http.StatusUnauthorized, Location: "/auth?shop=a.myshopify.com"},
			status:   http.StatusFound,
			location: "/auth?shop=a.myshopify.com",
		},
		{
			name:     "embedded goes through exit iframe",
			target:   "/app?embedded=1",
			redirect: shopify.Redirect{Status: http.StatusFound, Location: "/auth?shop=a.myshopify.com"},
			status:   http.StatusFound,
			location: "/auth/exit-iframe?exitIframe=%2Fauth%3Fshop%3Da.myshopify.com",
		},
		{
			name:     "exit iframe location is kept",
			target:   "/app?embedded=1",
			redirect: shopify.Redirect{Status: http.StatusFound, Location: "/auth/exit-iframe?exitIframe=x"},
			status:   http.StatusFound,
			location: "/auth/exit-iframe?exitIframe=x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/app", func(c *gin.Context) { RespondReauth(c, tt.redirect) })

			w := serve(r, httptest.NewRequest(http.MethodGet, tt.target, nil))
			require.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
		})
	}
}
