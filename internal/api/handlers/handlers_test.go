package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"ezproduct/internal/api/middleware"
	"ezproduct/internal/api/templates"
	"ezproduct/internal/models"
	"ezproduct/internal/services/shopify"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testShop = "demo.myshopify.com"

var testTokens = shopify.NewSessionTokens("key", "secret")

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	tmpl, err := templates.Load()
	require.NoError(t, err)
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	return r
}

func withSession(c *gin.Context) {
	c.Set(middleware.SessionKey, &models.Session{
		ID:          models.OfflineSessionID(testShop),
		Shop:        testShop,
		AccessToken: "shpat_test",
	})
	c.Next()
}

type stubAdmin struct{ shop string }

func (stubAdmin) Do(context.Context, string, string, map[string]any) (shopify.Response, error) {
	return nil, nil
}

func stubClients(s *models.Session) shopify.AdminAPI {
	return stubAdmin{shop: s.Shop}
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
