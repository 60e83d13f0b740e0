package shopify

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"ezproduct/internal/config"
	"ezproduct/internal/logger"

	goshopify "github.com/bold-commerce/go-shopify/v4"
)

var (
	ErrInvalidShop = errors.New("invalid shop domain")
	ErrInvalidHMAC = errors.New("invalid hmac")

	shopDomainPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*\.myshopify\.com$`)
)

// OAuthService runs the install flow and verifies signed requests from
// Shopify.
type OAuthService struct {
	app    goshopify.App
	logger *logger.Logger
}

func NewOAuthService(cfg *config.Config, logger *logger.Logger) *OAuthService {
	return &OAuthService{
		app: goshopify.App{
			ApiKey:      cfg.ShopifyAPIKey,
			ApiSecret:   cfg.ShopifyAPISecret,
			RedirectUrl: cfg.ShopifyAppURL + "/auth/callback",
			Scope:       strings.Join(cfg.Scopes, ","),
		},
		logger: logger.Component("oauth"),
	}
}

// SanitizeShop normalizes "demo", "demo.myshopify.com" or
// "https://demo.myshopify.com/" to "demo.myshopify.com".
func SanitizeShop(input string) (string, error) {
	shop := strings.ToLower(strings.TrimSpace(input))
	shop = strings.TrimPrefix(shop, "https://")
	shop = strings.TrimPrefix(shop, "http://")
	shop = strings.TrimSuffix(shop, "/")
	if shop == "" {
		return "", ErrInvalidShop
	}
	shop = goshopify.ShopFullName(shop)
	if !shopDomainPattern.MatchString(shop) {
		return "", fmt.Errorf("%w: %q", ErrInvalidShop, input)
	}
	return shop, nil
}

// NewState returns a random OAuth state nonce.
func NewState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func (s *OAuthService) AuthorizeURL(shop, state string) (string, error) {
	authURL, err := s.app.AuthorizeUrl(shop, state)
	if err != nil {
		return "", fmt.Errorf("failed to build authorize url: %w", err)
	}
	s.logger.Info().Str("shop", shop).Str("scopes", s.app.Scope).Msg("redirecting to oauth authorize")
	return authURL, nil
}

// VerifyCallback checks the hmac Shopify adds to redirects it sends back to
// the app.
func (s *OAuthService) VerifyCallback(u *url.URL) error {
	ok, err := s.app.VerifyAuthorizationURL(u)
	if err != nil {
		return fmt.Errorf("failed to verify callback: %w", err)
	}
	if !ok {
		return ErrInvalidHMAC
	}
	return nil
}

func (s *OAuthService) ExchangeToken(ctx context.Context, shop, code string) (string, error) {
	token, err := s.app.GetAccessToken(ctx, shop, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange token: %w", err)
	}
	return token, nil
}

// VerifyWebhook checks X-Shopify-Hmac-Sha256 against the request body. The
// body stays readable afterwards.
func (s *OAuthService) VerifyWebhook(r *http.Request) bool {
	return s.app.VerifyWebhookRequest(r)
}

// FetchShop reads the shop's display name and contact email.
func (s *OAuthService) FetchShop(ctx context.Context, shop, token string) (*goshopify.Shop, error) {
	client, err := goshopify.NewClient(s.app, shop, token)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	details, err := client.Shop.Get(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}
	return details, nil
}
