package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"ezproduct/internal/api/middleware"
	"ezproduct/internal/i18n"
	"ezproduct/internal/logger"
	"ezproduct/internal/models"
	"ezproduct/internal/services/shopify"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/gin-gonic/gin"
)

type OAuthProvider interface {
	AuthorizeURL(shop, state string) (string, error)
	VerifyCallback(u *url.URL) error
	ExchangeToken(ctx context.Context, shop, code string) (string, error)
	FetchShop(ctx context.Context, shop, token string) (*goshopify.Shop, error)
}

type SessionWriter interface {
	Store(ctx context.Context, session *models.Session) error
	SetShopDetails(ctx context.Context, shop, name, email string) error
}

type TokenIssuer interface {
	Issue(shop string) (string, error)
}

type AuthHandler struct {
	oauth    OAuthProvider
	states   shopify.StateStore
	sessions SessionWriter
	tokens   TokenIssuer
	appURL   string
	apiKey   string
	scope    string
	logger   *logger.Logger
}

func NewAuthHandler(
	oauth OAuthProvider,
	states shopify.StateStore,
	sessions SessionWriter,
	tokens TokenIssuer,
	appURL, apiKey string,
	scopes []string,
	logger *logger.Logger,
) *AuthHandler {
	return &AuthHandler{
		oauth:    oauth,
		states:   states,
		sessions: sessions,
		tokens:   tokens,
		appURL:   strings.TrimRight(appURL, "/"),
		apiKey:   apiKey,
		scope:    strings.Join(scopes, ","),
		logger:   logger.Component("auth"),
	}
}

type loginPage struct {
	T      i18n.Translator
	APIKey string
	Shop   string
	Error  string
}

type exitIframePage struct {
	APIKey string
	Target string
}

// Begin starts the install flow for ?shop=. Embedded requests break out of
// the admin iframe first.
func (h *AuthHandler) Begin(c *gin.Context) {
	lang := middleware.Lang(c)
	shop, err := shopify.SanitizeShop(c.Query("shop"))
	if err != nil {
		h.renderLogin(c, http.StatusBadRequest, lang, c.Query("shop"), i18n.T(lang, "loginInvalidShop"))
		return
	}

	if c.Query("embedded") == "1" {
		c.HTML(http.StatusOK, "exit_iframe.html", exitIframePage{
			APIKey: h.apiKey,
			Target: h.appURL + middleware.AuthPath(shop),
		})
		return
	}

	state, err := shopify.NewState()
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create oauth state")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start authorization"})
		return
	}
	if err := h.states.Save(c.Request.Context(), state, shop); err != nil {
		h.logger.Error().Err(err).Str("shop", shop).Msg("failed to save oauth state")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start authorization"})
		return
	}

	authURL, err := h.oauth.AuthorizeURL(shop, state)
	if err != nil {
		h.logger.Error().Err(err).Str("shop", shop).Msg("failed to build authorize url")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start authorization"})
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// Callback completes the install: it checks the hmac and state, exchanges
// the code for an offline token and stores the session.
func (h *AuthHandler) Callback(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.oauth.VerifyCallback(c.Request.URL); err != nil {
		h.logger.Warn().Err(err).Msg("oauth callback failed verification")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid hmac"})
		return
	}

	shop, err := shopify.SanitizeShop(c.Query("shop"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state := c.Query("state")
	stateShop, err := h.states.Consume(ctx, state)
	if err != nil || stateShop != shop {
		if err == nil {
			err = errors.New("state issued for " + stateShop)
		}
		h.logger.Warn().Err(err).Str("shop", shop).Msg("oauth state mismatch")
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid state"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
		return
	}

	token, err := h.oauth.ExchangeToken(ctx, shop, code)
	if err != nil {
		h.logger.Error().Err(err).Str("shop", shop).Msg("token exchange failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to exchange token"})
		return
	}

	scope := h.scope
	session := &models.Session{
		ID:          models.OfflineSessionID(shop),
		Shop:        shop,
		State:       state,
		Scope:       &scope,
		AccessToken: token,
	}
	if err := h.sessions.Store(ctx, session); err != nil {
		h.logger.Error().Err(err).Str("shop", shop).Msg("failed to store session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store session"})
		return
	}

	if details, err := h.oauth.FetchShop(ctx, shop, token); err != nil {
		h.logger.Warn().Err(err).Str("shop", shop).Msg("failed to fetch shop details")
	} else if err := h.sessions.SetShopDetails(ctx, shop, details.Name, details.Email); err != nil {
		h.logger.Warn().Err(err).Str("shop", shop).Msg("failed to save shop details")
	}

	h.logger.Info().Str("shop", shop).Msg("app installed")

	q := url.Values{"shop": {shop}}
	if host := c.Query("host"); host != "" {
		q.Set("host", host)
	}
	idToken, err := h.tokens.Issue(shop)
	if err != nil {
		h.logger.Error().Err(err).Str("shop", shop).Msg("failed to issue session token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue session token"})
		return
	}
	q.Set(middleware.TokenKey, idToken)
	c.Redirect(http.StatusFound, "/app?"+q.Encode())
}

// ExitIframe renders a page that navigates the top window to ?exitIframe=.
// Only app, admin and shop URLs are accepted.
func (h *AuthHandler) ExitIframe(c *gin.Context) {
	target, ok := h.exitTarget(c.Query("exitIframe"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid exitIframe target"})
		return
	}
	c.HTML(http.StatusOK, "exit_iframe.html", exitIframePage{APIKey: h.apiKey, Target: target})
}

func (h *AuthHandler) exitTarget(raw string) (string, bool) {
	switch {
	case raw == "":
		return "", false
	case strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//"):
		return h.appURL + raw, true
	case raw == h.appURL, strings.HasPrefix(raw, h.appURL+"/"):
		return raw, true
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "https" {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	if host == "admin.shopify.com" || strings.HasSuffix(host, ".myshopify.com") {
		return raw, true
	}
	return "", false
}

// LoginForm asks for a shop domain, or starts auth directly when ?shop= is
// already known.
func (h *AuthHandler) LoginForm(c *gin.Context) {
	lang := middleware.Lang(c)
	if raw := c.Query("shop"); raw != "" {
		if shop, err := shopify.SanitizeShop(raw); err == nil {
			c.Redirect(http.StatusFound, middleware.AuthPath(shop))
			return
		}
	}
	h.renderLogin(c, http.StatusOK, lang, "", "")
}

func (h *AuthHandler) Login(c *gin.Context) {
	lang := middleware.Lang(c)
	raw := c.PostForm("shop")
	shop, err := shopify.SanitizeShop(raw)
	if err != nil {
		h.renderLogin(c, http.StatusBadRequest, lang, raw, i18n.T(lang, "loginInvalidShop"))
		return
	}
	c.Redirect(http.StatusFound, middleware.AuthPath(shop))
}

func (h *AuthHandler) renderLogin(c *gin.Context, status int, lang i18n.Lang, shop, message string) {
	c.HTML(status, "login.html", loginPage{
		T:     i18n.Translator{Lang: lang},
		Shop:  shop,
		Error: message,
	})
}
