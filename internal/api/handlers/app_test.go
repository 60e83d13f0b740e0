package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"ezproduct/internal/api/middleware"
	"ezproduct/internal/logger"
	"ezproduct/internal/models"
	"ezproduct/internal/services/generation"
	"ezproduct/internal/services/shopify"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePipeline struct {
	inputs []generation.Input
	result *generation.Result
	err    error
	recent []models.ProductGeneration
}

func (p *fakePipeline) Run(_ context.Context, in generation.Input) (*generation.Result, error) {
	p.inputs = append(p.inputs, in)
	return p.result, p.err
}

func (p *fakePipeline) Recent(context.Context, string, int) ([]models.ProductGeneration, error) {
	return p.recent, nil
}

func newAppRouter(t *testing.T, p *fakePipeline) *gin.Engine {
	h := NewAppHandler(p, stubClients, "key", logger.Nop())
	r := newEngine(t)
	app := r.Group("/app", middleware.Language(), withSession)
	app.GET("", h.Index)
	app.POST("", h.Generate)
	return r
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func redirectQuery(t *testing.T, w *httptest.ResponseRecorder) url.Values {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/app", loc.Path)
	return loc.Query()
}

func TestGenerateRequiresKeywords(t *testing.T) {
	p := &fakePipeline{}
	w := serve(newAppRouter(t, p), postForm("/app", url.Values{"keywords": {"   "}, "host": {"abc"}}))

	q := redirectQuery(t, w)
	assert.Equal(t, "error", q.Get("result"))
	assert.Equal(t, "Please enter product keywords", q.Get("message"))
	assert.Equal(t, testShop, q.Get("shop"))
	assert.Equal(t, "abc", q.Get("host"))
	assert.Empty(t, p.inputs)
}

func TestGenerateSuccess(t *testing.T) {
	p := &fakePipeline{result: &generation.Result{Outcome: &shopify.Outcome{ProductID: "gid://shopify/Product/42"}}}
	w := serve(newAppRouter(t, p), postForm("/app", url.Values{
		"keywords":    {" Yoga Mat "},
		"sizeOptions": {"S, M"},
		"brandName":   {"Zen"},
		"lang":        {"en"},
	}))

	q := redirectQuery(t, w)
	assert.Equal(t, "success", q.Get("result"))
	assert.Equal(t, "gid://shopify/Product/42", q.Get("productId"))
	assert.Equal(t, "Product generated and synced successfully!", q.Get("message"))

	require.Len(t, p.inputs, 1)
	in := p.inputs[0]
	assert.Equal(t, "Yoga Mat", in.Request.Keywords)
	assert.Equal(t, "S, M", in.Request.SizeOptions)
	assert.Equal(t, "Zen", in.Request.BrandName)
	assert.Equal(t, stubAdmin{shop: testShop}, in.Client)
	assert.Regexp(t, `^[a-z0-9]{8}$`, in.DebugID)
}

func TestGenerateFailureMessage(t *testing.T) {
	p := &fakePipeline{err: errors.New(strings.Repeat("x", 300))}
	w := serve(newAppRouter(t, p), postForm("/app", url.Values{"keywords": {"mug"}}))

	q := redirectQuery(t, w)
	assert.Equal(t, "error", q.Get("result"))

	debugID := p.inputs[0].DebugID
	want := "Failed (debugId=" + debugID + "): " + strings.Repeat("x", 180) + "..."
	assert.Equal(t, want, q.Get("message"))
}

func TestGenerateFailureMessageChinese(t *testing.T) {
	p := &fakePipeline{err: errors.New("boom")}
	w := serve(newAppRouter(t, p), postForm("/app?lang=zh", url.Values{"keywords": {"杯子"}}))

	q := redirectQuery(t, w)
	assert.Equal(t, "失败（debugId="+p.inputs[0].DebugID+"）：boom", q.Get("message"))
	assert.Equal(t, "zh", q.Get("lang"))
}

func TestGenerateReauth(t *testing.T) {
	p := &fakePipeline{err: &shopify.ReauthError{Redirect: shopify.Redirect{Status: http.StatusFound, Location: "/auth?shop=" + testShop}}}
	r := newAppRouter(t, p)

	w := serve(r, postForm("/app", url.Values{"keywords": {"mug"}}))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth?shop="+testShop, w.Header().Get("Location"))

	w = serve(r, postForm("/app", url.Values{"keywords": {"mug"}, "embedded": {"1"}}))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/auth/exit-iframe?exitIframe="))
}

func TestIndexRendersBannerAndHistory(t *testing.T) {
	productID := "gid://shopify/Product/7"
	p := &fakePipeline{recent: []models.ProductGeneration{
		{Title: "Yoga Mat", Status: models.GenerationStatusSynced, ShopifyProductID: &productID, CreatedAt: time.Now()},
		{Title: "Broken Mug", Status: models.GenerationStatusFailed, CreatedAt: time.Now()},
	}}

	target := "/app?shop=" + testShop + "&result=success&productId=" + url.QueryEscape(productID) +
		"&message=" + url.QueryEscape("Product generated and synced successfully!")
	w := serve(newAppRouter(t, p), httptest.NewRequest(http.MethodGet, target, nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Product generated and synced successfully!")
	assert.Contains(t, body, "https://demo.myshopify.com/admin/products/7")
	assert.Contains(t, body, "Yoga Mat")
	assert.Contains(t, body, "Broken Mug")
	assert.Contains(t, body, "Failed")
}

func TestIndexChineseAndEmptyHistory(t *testing.T) {
	w := serve(newAppRouter(t, &fakePipeline{}), httptest.NewRequest(http.MethodGet, "/app?shop="+testShop+"&lang=zh", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "还没有生成任何产品。")
	assert.Contains(t, w.Body.String(), "English")
}

func TestIndexIgnoresUnknownResult(t *testing.T) {
	w := serve(newAppRouter(t, &fakePipeline{}), httptest.NewRequest(http.MethodGet, "/app?shop="+testShop+"&result=other&message=injected", nil))
	assert.NotContains(t, w.Body.String(), "injected")
}

func TestProductAdminURL(t *testing.T) {
	assert.Equal(t, "https://a.myshopify.com/admin/products/12", productAdminURL("a.myshopify.com", "gid://shopify/Product/12"))
	assert.Empty(t, productAdminURL("a.myshopify.com", "gid://shopify/Product/12x"))
	assert.Empty(t, productAdminURL("a.myshopify.com", "12"))
	assert.Empty(t, productAdminURL("", "gid://shopify/Product/12"))
}

func TestNewDebugID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		id := NewDebugID()
		assert.Regexp(t, `^[a-z0-9]{8}$`, id)
		seen[id] = true
	}
	assert.Greater(t, len(seen), 1)
}

type oneSession struct{}

func (oneSession) Load(_ context.Context, id string) (*models.Session, error) {
	if id != models.OfflineSessionID(testShop) {
		return nil, nil
	}
	return &models.Session{ID: id, Shop: testShop, AccessToken: "shpat_test"}, nil
}

func TestGenerateCarriesSessionTokenThroughRedirect(t *testing.T) {
	p := &fakePipeline{result: &generation.Result{Outcome: &shopify.Outcome{ProductID: "gid://shopify/Product/42"}}}
	h := NewAppHandler(p, stubClients, "key", logger.Nop())
	r := newEngine(t)
	app := r.Group("/app", middleware.Language(), middleware.ShopifyAuth(oneSession{}, &fakeOAuth{}, testTokens, nil, logger.Nop()))
	app.GET("", h.Index)
	app.POST("", h.Generate)

	token, err := testTokens.Issue(testShop)
	require.NoError(t, err)

	w := serve(r, postForm("/app", url.Values{"keywords": {"Yoga Mat"}, "id_token": {token}}))
	q := redirectQuery(t, w)
	next := q.Get("id_token")
	shop, err := testTokens.Verify(next)
	require.NoError(t, err)
	assert.Equal(t, testShop, shop)

	w = serve(r, httptest.NewRequest(http.MethodGet, w.Header().Get("Location"), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="id_token" value="ey`)

	w = serve(r, postForm("/app", url.Values{"keywords": {"Yoga Mat"}, "shop": {testShop}}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Len(t, p.inputs, 1)
}
