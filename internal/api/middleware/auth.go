package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ezproduct/internal/logger"
	"ezproduct/internal/metrics"
	"ezproduct/internal/models"
	"ezproduct/internal/services/shopify"

	"github.com/gin-gonic/gin"
)

const (
	SessionKey = "session"
	TokenKey   = "id_token"
)

type SessionLoader interface {
	Load(ctx context.Context, id string) (*models.Session, error)
}

type RequestVerifier interface {
	VerifyCallback(u *url.URL) error
}

// TokenVerifier checks App Bridge session tokens and issues new ones for the
// next request from the same page.
type TokenVerifier interface {
	Verify(token string) (string, error)
	Issue(shop string) (string, error)
}

// ShopifyAuth authenticates an /app request and loads its offline session.
// The shop comes from the query of an hmac-signed request or from the dest
// of a session token (Authorization bearer, id_token query or form field);
// a bare shop parameter is never trusted. A missing or expired session
// answers with a redirect to /auth.
func ShopifyAuth(sessions SessionLoader, verifier RequestVerifier, tokens TokenVerifier, m *metrics.Metrics, logger *logger.Logger) gin.HandlerFunc {
	log := logger.Component("auth")
	return func(c *gin.Context) {
		query := c.Request.URL.Query()

		var rawShop string
		switch token := requestToken(c); {
		case query.Get("hmac") != "":
			if err := verifier.VerifyCallback(c.Request.URL); err != nil {
				log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("rejected request with invalid hmac")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid hmac"})
				return
			}
			rawShop = query.Get("shop")
		case token != "":
			shop, err := tokens.Verify(token)
			if err != nil {
				log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("rejected request with invalid session token")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
				return
			}
			rawShop = shop
		case c.Request.Method == http.MethodGet && !hasEmbeddedParams(query):
			c.AbortWithStatus(http.StatusNoContent)
			return
		default:
			log.Warn().Str("path", c.Request.URL.Path).Str("method", c.Request.Method).Msg("rejected unsigned request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "request is not signed"})
			return
		}

		shop, err := shopify.SanitizeShop(rawShop)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		session, err := sessions.Load(c.Request.Context(), models.OfflineSessionID(shop))
		if err != nil {
			log.Error().Err(err).Str("shop", shop).Msg("failed to load session")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
			return
		}
		if !session.IsActive(time.Now()) {
			m.Reauth()
			log.Info().Str("shop", shop).Msg("no active session, redirecting to auth")
			RespondReauth(c, shopify.Redirect{Status: http.StatusFound, Location: AuthPath(shop)})
			return
		}

		c.Set(SessionKey, session)
		if next, err := tokens.Issue(shop); err != nil {
			log.Warn().Err(err).Str("shop", shop).Msg("failed to issue session token")
		} else {
			c.Set(TokenKey, next)
		}
		c.Next()
	}
}

func requestToken(c *gin.Context) string {
	if bearer, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(bearer)
	}
	if token := c.Query(TokenKey); token != "" {
		return token
	}
	if c.Request.Method == http.MethodPost {
		return c.PostForm(TokenKey)
	}
	return ""
}

// Token returns the session token issued for the current request, or "".
func Token(c *gin.Context) string {
	return c.GetString(TokenKey)
}

// Session returns the session stored by ShopifyAuth.
func Session(c *gin.Context) *models.Session {
	if v, ok := c.Get(SessionKey); ok {
		if s, ok := v.(*models.Session); ok {
			return s
		}
	}
	return nil
}

func AuthPath(shop string) string {
	return "/auth?shop=" + url.QueryEscape(shop)
}

// RespondReauth sends the browser to the redirect. Embedded requests go
// through /auth/exit-iframe so the whole admin window navigates.
func RespondReauth(c *gin.Context, r shopify.Redirect) {
	location := r.Location
	if IsEmbedded(c) && !strings.HasPrefix(location, "/auth/exit-iframe") {
		c.Redirect(http.StatusFound, "/auth/exit-iframe?exitIframe="+url.QueryEscape(location))
		c.Abort()
		return
	}
	status := r.Status
	if status < http.StatusMultipleChoices || status > http.StatusPermanentRedirect {
		status = http.StatusFound
	}
	c.Redirect(status, location)
	c.Abort()
}

func IsEmbedded(c *gin.Context) bool {
	if c.Query("embedded") == "1" {
		return true
	}
	return c.Request.Method == http.MethodPost && c.PostForm("embedded") == "1"
}

func hasEmbeddedParams(query url.Values) bool {
	for _, key := range []string{"embedded", "shop", "host", "hmac", TokenKey} {
		if query.Has(key) {
			return true
		}
	}
	return false
}
