package handlers

import (
	"context"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ezproduct/internal/api/middleware"
	"ezproduct/internal/i18n"
	"ezproduct/internal/logger"
	"ezproduct/internal/models"
	"ezproduct/internal/services/ai"
	"ezproduct/internal/services/generation"
	"ezproduct/internal/services/shopify"

	"github.com/gin-gonic/gin"
)

const (
	historyLimit   = 10
	maxURLMessage  = 180
	debugIDLength  = 8
	debugIDCharset = "abcdefghijklmnopqrstuvwxyz0123456789"
)

type GenerationService interface {
	Run(ctx context.Context, in generation.Input) (*generation.Result, error)
	Recent(ctx context.Context, shop string, limit int) ([]models.ProductGeneration, error)
}

// ClientFactory builds the Admin API client used for one session.
type ClientFactory func(session *models.Session) shopify.AdminAPI

type AppHandler struct {
	pipeline GenerationService
	clients  ClientFactory
	apiKey   string
	logger   *logger.Logger
}

func NewAppHandler(pipeline GenerationService, clients ClientFactory, apiKey string, logger *logger.Logger) *AppHandler {
	return &AppHandler{
		pipeline: pipeline,
		clients:  clients,
		apiKey:   apiKey,
		logger:   logger.Component("app"),
	}
}

type historyRow struct {
	Title       string
	Status      string
	StatusLabel string
	ProductURL  string
	CreatedAt   string
}

type appPage struct {
	T           i18n.Translator
	APIKey      string
	Shop        string
	Host        string
	Embedded    string
	IDToken     string
	Result      string
	Message     string
	ProductURL  string
	ActionURL   string
	BatchURL    string
	TemplateURL string
	SwitchURL   string
	History     []historyRow
}

// Index renders the generator form, the result banner and recent history.
func (h *AppHandler) Index(c *gin.Context) {
	session := middleware.Session(c)
	lang := middleware.Lang(c)
	tr := i18n.Translator{Lang: lang}

	records, err := h.pipeline.Recent(c.Request.Context(), session.Shop, historyLimit)
	if err != nil {
		h.logger.Warn().Err(err).Str("shop", session.Shop).Msg("failed to load history")
	}

	page := appPage{
		T:           tr,
		APIKey:      h.apiKey,
		Shop:        session.Shop,
		Host:        c.Query("host"),
		Embedded:    c.Query("embedded"),
		IDToken:     middleware.Token(c),
		ActionURL:   appURL(c, "/app", lang, nil),
		BatchURL:    appURL(c, "/app/batch", lang, nil),
		TemplateURL: "/app/batch/template?lang=" + string(lang) + "&shop=" + url.QueryEscape(session.Shop),
		SwitchURL:   appURL(c, "/app", tr.Other(), nil),
		History:     historyRows(tr, session.Shop, records),
	}

	switch result := c.Query("result"); result {
	case "success", "error", "refreshed":
		page.Result = result
		page.Message = c.Query("message")
		page.ProductURL = productAdminURL(session.Shop, c.Query("productId"))
	}

	c.HTML(http.StatusOK, "app.html", page)
}

// Generate runs one submission and redirects back to Index with the outcome
// in the query string.
func (h *AppHandler) Generate(c *gin.Context) {
	session := middleware.Session(c)
	lang := middleware.Lang(c)
	debugID := NewDebugID()

	req := ai.Request{
		Keywords:     strings.TrimSpace(c.PostForm("keywords")),
		ImageURL:     strings.TrimSpace(c.PostForm("imageUrl")),
		SizeOptions:  strings.TrimSpace(c.PostForm("sizeOptions")),
		BrandName:    strings.TrimSpace(c.PostForm("brandName")),
		ProductNotes: strings.TrimSpace(c.PostForm("productNotes")),
	}
	if req.Keywords == "" {
		h.redirect(c, lang, url.Values{
			"result":  {"error"},
			"message": {i18n.T(lang, "keywordsRequired")},
		})
		return
	}

	log := h.logger.With().Str("shop", session.Shop).Str("debug_id", debugID).Logger()
	log.Info().Str("keywords", req.Keywords).Msg("generation requested")

	result, err := h.pipeline.Run(c.Request.Context(), generation.Input{
		Session: session,
		Client:  h.clients(session),
		Request: req,
		DebugID: debugID,
	})
	if err != nil {
		if redirect, ok := shopify.AsReauth(err); ok {
			log.Info().Str("location", redirect.Location).Msg("re-authentication required")
			middleware.RespondReauth(c, redirect)
			return
		}
		message := generation.Truncate(err.Error(), maxURLMessage)
		h.redirect(c, lang, url.Values{
			"result":  {"error"},
			"message": {i18n.Failure(lang, debugID, message)},
		})
		return
	}

	h.redirect(c, lang, url.Values{
		"result":    {"success"},
		"productId": {result.Outcome.ProductID},
		"message":   {i18n.T(lang, "successMessage")},
	})
}

func (h *AppHandler) redirect(c *gin.Context, lang i18n.Lang, extra url.Values) {
	c.Redirect(http.StatusSeeOther, appURL(c, "/app", lang, extra))
}

// appURL keeps the embedded context (shop, host, embedded) and a fresh
// session token on links and redirects within the app.
func appURL(c *gin.Context, path string, lang i18n.Lang, extra url.Values) string {
	q := url.Values{}
	for _, key := range []string{"shop", "host", "embedded"} {
		v := c.Query(key)
		if v == "" && c.Request.Method == http.MethodPost {
			v = c.PostForm(key)
		}
		if v != "" {
			q.Set(key, v)
		}
	}
	if session := middleware.Session(c); session != nil {
		q.Set("shop", session.Shop)
	}
	if token := middleware.Token(c); token != "" {
		q.Set(middleware.TokenKey, token)
	}
	q.Set("lang", string(lang))
	for key, values := range extra {
		for _, v := range values {
			if v != "" {
				q.Add(key, v)
			}
		}
	}
	return path + "?" + q.Encode()
}

func historyRows(tr i18n.Translator, shop string, records []models.ProductGeneration) []historyRow {
	rows := make([]historyRow, 0, len(records))
	for _, r := range records {
		row := historyRow{
			Title:     r.Title,
			Status:    string(r.Status),
			CreatedAt: r.CreatedAt.Local().Format(time.DateTime),
		}
		if r.Status == models.GenerationStatusSynced {
			row.StatusLabel = tr.T("statusSynced")
		} else {
			row.StatusLabel = tr.T("statusFailed")
		}
		if r.ShopifyProductID != nil {
			row.ProductURL = productAdminURL(shop, *r.ShopifyProductID)
		}
		rows = append(rows, row)
	}
	return rows
}

// productAdminURL turns "gid://shopify/Product/123" into the product's admin
// page. Anything else yields "".
func productAdminURL(shop, productID string) string {
	const prefix = "gid://shopify/Product/"
	if shop == "" || !strings.HasPrefix(productID, prefix) {
		return ""
	}
	id := strings.TrimPrefix(productID, prefix)
	if id == "" || strings.Trim(id, "0123456789") != "" {
		return ""
	}
	return "https://" + shop + "/admin/products/" + id
}

// NewDebugID returns the short id that ties a banner to its log lines.
func NewDebugID() string {
	b := make([]byte, debugIDLength)
	for i := range b {
		b[i] = debugIDCharset[rand.Intn(len(debugIDCharset))]
	}
	return string(b)
}
