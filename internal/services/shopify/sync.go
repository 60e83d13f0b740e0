package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"ezproduct/internal/logger"
	"ezproduct/internal/metrics"
	"ezproduct/internal/services/ai"
)

// SyncContext is the request-scoped input of one sync call.
type SyncContext struct {
	Shop      string
	Client    AdminAPI
	BrandName string
	ImageURLs []string
}

// Warning is a best-effort step that failed after the product was created.
type Warning struct {
	Step    string
	Message string
}

func (w Warning) String() string {
	return w.Step + ": " + w.Message
}

// Outcome is the result of a sync whose product creation succeeded.
type Outcome struct {
	ProductID string
	Handle    string
	Variants  []ProductVariant
	Warnings  []Warning
}

// OK reports whether every best-effort step succeeded too.
func (o *Outcome) OK() bool {
	return len(o.Warnings) == 0
}

func (o *Outcome) WarningStrings() []string {
	out := make([]string, len(o.Warnings))
	for i, w := range o.Warnings {
		out[i] = w.String()
	}
	return out
}

const (
	stepVariants  = "variants"
	stepInventory = "inventory"
	stepMedia     = "media"
	stepPublish   = "publish"

	minStock = 50
	maxStock = 200
)

// Syncer creates generated products in a shop's catalog.
type Syncer struct {
	logger  *logger.Logger
	metrics *metrics.Metrics
	stock   func() int
}

func NewSyncer(logger *logger.Logger, m *metrics.Metrics) *Syncer {
	return &Syncer{
		logger:  logger.Component("sync"),
		metrics: m,
		stock:   func() int { return minStock + rand.Intn(maxStock-minStock+1) },
	}
}

// Sync creates the product and then repairs variants, seeds inventory,
// attaches media and publishes it. Only creation failures are returned as
// *SyncError; later steps add warnings to the Outcome. A re-authentication
// redirect at any step is returned as *ReauthError.
func (s *Syncer) Sync(ctx context.Context, product *ai.GeneratedProduct, sc SyncContext) (*Outcome, error) {
	if product == nil || len(product.Variants) == 0 {
		return nil, &SyncError{Message: "product has no variants"}
	}
	t := NewTransformer(sc.BrandName)
	log := s.logger.With().Str("shop", sc.Shop).Logger()

	created, err := s.createProduct(ctx, sc.Client, t, product)
	if err != nil {
		return nil, err
	}
	log.Info().Str("product_id", created.ID).Str("handle", created.Handle).Msg("product created")

	out := &Outcome{ProductID: created.ID, Handle: created.Handle}

	variants, err := s.reconcileVariants(ctx, sc.Client, t, created, product.Variants, out)
	if err != nil {
		return nil, err
	}
	out.Variants = variants

	if err := s.seedInventory(ctx, sc.Client, variants, out); err != nil {
		return nil, err
	}
	if err := s.attachMedia(ctx, sc.Client, t, created.ID, product.Title, sc.ImageURLs, out); err != nil {
		return nil, err
	}
	if err := s.publish(ctx, sc.Client, created.ID, out); err != nil {
		return nil, err
	}

	if !out.OK() {
		log.Warn().Strs("warnings", out.WarningStrings()).Str("product_id", out.ProductID).Msg("product synced with warnings")
	}
	return out, nil
}

type createCandidate struct {
	name      string
	query     string
	variables map[string]any
}

func (s *Syncer) createCandidates(t *Transformer, p *ai.GeneratedProduct) []createCandidate {
	return []createCandidate{
		{
			name:      "productOptions",
			query:     productCreateMutation,
			variables: map[string]any{"product": t.ProductCreateInput(p, optionValuesAsObjects)},
		},
		{
			name:      "productOptions(values as strings)",
			query:     productCreateMutation,
			variables: map[string]any{"product": t.ProductCreateInput(p, optionValuesAsStrings)},
		},
		{
			name:      "legacy input",
			query:     productCreateLegacyMutation,
			variables: map[string]any{"input": t.LegacyProductInput(p)},
		},
	}
}

// createProduct tries each mutation shape in order. Only schema mismatches
// move on to the next shape.
func (s *Syncer) createProduct(ctx context.Context, client AdminAPI, t *Transformer, p *ai.GeneratedProduct) (*Product, error) {
	var tried []string
	var lastErrs GraphQLErrors

	for _, c := range s.createCandidates(t, p) {
		tried = append(tried, c.name)

		var payload productCreatePayload
		gqlErrs, err := s.call(ctx, client, "productCreate", c.query, c.variables, &payload)
		if err != nil {
			if _, ok := AsReauth(err); ok {
				return nil, err
			}
			return nil, newSyncError(err)
		}

		if len(gqlErrs) > 0 {
			if gqlErrs.SchemaMismatch() {
				s.logger.Warn().Str("candidate", c.name).Str("errors", gqlErrs.Error()).Msg("productCreate shape rejected, trying next")
				lastErrs = gqlErrs
				continue
			}
			return nil, &SyncError{
				Message: "Shopify GraphQL errors: " + gqlErrs.Error(),
				GraphQL: gqlErrs,
			}
		}

		result := payload.ProductCreate
		if len(result.UserErrors) > 0 {
			return nil, &SyncError{
				Status:     422,
				Message:    "Shopify API user errors: " + userErrorsString(result.UserErrors),
				UserErrors: result.UserErrors,
			}
		}
		if result.Product == nil || result.Product.ID == "" {
			return nil, &SyncError{Message: "no product returned"}
		}
		return result.Product, nil
	}

	return nil, &SyncError{
		Message: fmt.Sprintf("every productCreate shape was rejected (tried %s): %s", strings.Join(tried, ", "), lastErrs.Error()),
		GraphQL: lastErrs,
	}
}

// call runs one operation and decodes its data into out. GraphQL errors are
// returned for the caller to judge; a redirect becomes *ReauthError.
func (s *Syncer) call(ctx context.Context, client AdminAPI, operation, query string, variables map[string]any, out any) (GraphQLErrors, error) {
	resp, err := client.Do(ctx, operation, query, variables)
	if err != nil {
		return nil, err
	}

	switch r := resp.(type) {
	case NeedsReauth:
		s.metrics.Reauth()
		return nil, &ReauthError{Redirect: r.Redirect}
	case Authenticated:
		if out != nil && len(r.Data) > 0 && string(r.Data) != "null" {
			if err := json.Unmarshal(r.Data, out); err != nil {
				return nil, fmt.Errorf("failed to decode %s data: %w", operation, err)
			}
		}
		return r.Errors, nil
	default:
		return nil, fmt.Errorf("unexpected %T from %s", resp, operation)
	}
}

// mutate is call for best-effort steps: GraphQL errors are folded into the
// returned error.
func (s *Syncer) mutate(ctx context.Context, client AdminAPI, operation, query string, variables map[string]any, out any) error {
	gqlErrs, err := s.call(ctx, client, operation, query, variables, out)
	if err != nil {
		return err
	}
	if len(gqlErrs) > 0 {
		return gqlErrs
	}
	return nil
}

// warn records a failed best-effort step, or returns err when it is a
// re-authentication signal that must stop the sync.
func (s *Syncer) warn(out *Outcome, step string, err error) error {
	if _, ok := AsReauth(err); ok {
		return err
	}
	var gqlErrs GraphQLErrors
	msg := err.Error()
	if errors.As(err, &gqlErrs) {
		msg = "GraphQL errors: " + gqlErrs.Error()
	}
	out.Warnings = append(out.Warnings, Warning{Step: step, Message: msg})
	s.metrics.SyncWarning(step)
	s.logger.Warn().Str("step", step).Str("product_id", out.ProductID).Str("error", msg).Msg("best-effort step failed")
	return nil
}
