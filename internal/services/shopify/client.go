package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ezproduct/internal/logger"
	"ezproduct/internal/metrics"
)

// Response is the tagged result of an Admin API call: either Authenticated,
// carrying the GraphQL payload, or NeedsReauth.
type Response interface {
	isResponse()
}

type Authenticated struct {
	Data   json.RawMessage
	Errors GraphQLErrors
}

type NeedsReauth struct {
	Redirect Redirect
}

func (Authenticated) isResponse() {}
func (NeedsReauth) isResponse()   {}

// AdminAPI executes GraphQL documents against one shop's Admin API.
type AdminAPI interface {
	Do(ctx context.Context, operation, query string, variables map[string]any) (Response, error)
}

type ClientOptions struct {
	APIVersion string
	// Endpoint overrides https://<shop>/admin/api/<version>/graphql.json.
	Endpoint string
	// ReauthURL is where a 401 answer sends the browser.
	ReauthURL  string
	HTTPClient *http.Client
	Logger     *logger.Logger
	Metrics    *metrics.Metrics
}

type Client struct {
	shopDomain  string
	accessToken string
	endpoint    string
	reauthURL   string
	httpClient  *http.Client
	logger      *logger.Logger
	metrics     *metrics.Metrics
}

func NewClient(shopDomain, accessToken string, opts ClientOptions) *Client {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s/admin/api/%s/graphql.json", shopDomain, opts.APIVersion)
	}

	base := opts.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: 30 * time.Second}
	}
	httpClient := *base
	httpClient.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		shopDomain:  shopDomain,
		accessToken: accessToken,
		endpoint:    endpoint,
		reauthURL:   opts.ReauthURL,
		httpClient:  &httpClient,
		logger:      log,
		metrics:     opts.Metrics,
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors GraphQLErrors   `json:"errors"`
}

// Do never follows redirects: a 3xx answer, or a 401 when a ReauthURL is
// configured, comes back as NeedsReauth.
func (c *Client) Do(ctx context.Context, operation, query string, variables map[string]any) (Response, error) {
	defer c.metrics.ObserveGraphQL(operation, time.Now())

	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		c.logger.Info().Str("shop", c.shopDomain).Str("operation", operation).Int("status", resp.StatusCode).Msg("admin api asked for re-authentication")
		return NeedsReauth{Redirect: Redirect{Status: resp.StatusCode, Location: resp.Header.Get("Location")}}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", operation, err)
	}

	if resp.StatusCode == http.StatusUnauthorized && c.reauthURL != "" {
		c.logger.Info().Str("shop", c.shopDomain).Str("operation", operation).Msg("access token rejected, re-authenticating")
		return NeedsReauth{Redirect: Redirect{Status: http.StatusFound, Location: c.reauthURL}}, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}

	var envelope graphQLEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", operation, err)
	}

	if len(envelope.Errors) > 0 {
		c.logger.Debug().Str("operation", operation).Str("errors", envelope.Errors.Error()).Msg("graphql errors")
	}
	return Authenticated{Data: envelope.Data, Errors: envelope.Errors}, nil
}
