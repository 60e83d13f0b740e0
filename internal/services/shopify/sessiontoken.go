package shopify

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	sessionTokenTTL    = time.Hour
	sessionTokenLeeway = 5 * time.Second
)

var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionTokenClaims is the payload of an App Bridge session token. Dest is
// the shop URL the token was issued for.
type SessionTokenClaims struct {
	Dest string `json:"dest"`
	jwt.RegisteredClaims
}

// SessionTokens verifies App Bridge session tokens and issues tokens of the
// same shape for redirects within the app. Both are HS256 JWTs signed with
// the app's API secret and addressed to its API key.
type SessionTokens struct {
	apiKey string
	secret []byte
	now    func() time.Time
}

func NewSessionTokens(apiKey, secret string) *SessionTokens {
	return &SessionTokens{apiKey: apiKey, secret: []byte(secret), now: time.Now}
}

// Verify checks the signature, audience and lifetime of token and returns
// the shop domain named by its dest claim.
func (s *SessionTokens) Verify(token string) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("%w: api secret is not configured", ErrInvalidSessionToken)
	}

	var claims SessionTokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(s.apiKey),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(sessionTokenLeeway),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSessionToken, err)
	}

	dest, err := url.Parse(claims.Dest)
	if err != nil || dest.Host == "" {
		return "", fmt.Errorf("%w: bad dest %q", ErrInvalidSessionToken, claims.Dest)
	}
	shop, err := SanitizeShop(dest.Host)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSessionToken, err)
	}
	if claims.Issuer != "" {
		iss, err := url.Parse(claims.Issuer)
		if err != nil || iss.Host != dest.Host {
			return "", fmt.Errorf("%w: issuer %q does not match dest", ErrInvalidSessionToken, claims.Issuer)
		}
	}
	return shop, nil
}

// Issue signs a session token for shop.
func (s *SessionTokens) Issue(shop string) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("cannot issue session token: api secret is not configured")
	}
	now := s.now()
	claims := SessionTokenClaims{
		Dest: "https://" + shop,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://" + shop + "/admin",
			Audience:  jwt.ClaimStrings{s.apiKey},
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTokenTTL)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}
