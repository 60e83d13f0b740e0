package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"ezproduct/internal/events"
	"ezproduct/internal/logger"
	"ezproduct/internal/metrics"
	"ezproduct/internal/models"
	"ezproduct/internal/services/ai"
	"ezproduct/internal/services/shopify"
	"ezproduct/internal/store"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

const (
	MaxStoredMessage    = 4000
	failedDescription   = "<p>Failed to generate</p>"
	notAvailablePayload = "N/A"
)

type ProductGenerator interface {
	Generate(ctx context.Context, req ai.Request) (*ai.GeneratedProduct, error)
}

type ProductSyncer interface {
	Sync(ctx context.Context, product *ai.GeneratedProduct, sc shopify.SyncContext) (*shopify.Outcome, error)
}

// Input is one merchant submission with the credentials to act on it.
type Input struct {
	Session *models.Session
	Client  shopify.AdminAPI
	Request ai.Request
	DebugID string
}

type Result struct {
	Product *ai.GeneratedProduct
	Outcome *shopify.Outcome
	Record  *models.ProductGeneration
}

// Pipeline runs generate, sync and record for one submission.
type Pipeline struct {
	generator ProductGenerator
	syncer    ProductSyncer
	sessions  *store.SessionStore
	history   *store.HistoryStore
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

func NewPipeline(
	generator ProductGenerator,
	syncer ProductSyncer,
	sessions *store.SessionStore,
	history *store.HistoryStore,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger *logger.Logger,
) *Pipeline {
	return &Pipeline{
		generator: generator,
		syncer:    syncer,
		sessions:  sessions,
		history:   history,
		publisher: publisher,
		metrics:   m,
		logger:    logger.Component("pipeline"),
	}
}

// Run returns the generator's or syncer's error unchanged. Failures are
// recorded in the history first; a re-authentication redirect is not.
// Once the product is synced Run succeeds even if the history write fails,
// leaving Result.Record nil.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	req := in.Request
	req.Keywords = strings.TrimSpace(req.Keywords)
	log := p.logger.With().Str("shop", in.Session.Shop).Str("debug_id", in.DebugID).Logger()

	product, err := p.generator.Generate(ctx, req)
	if err != nil {
		p.recordFailure(ctx, in, req, err)
		return nil, err
	}
	log.Info().Str("title", product.Title).Int("variants", len(product.Variants)).Msg("product generated")

	sc := shopify.SyncContext{
		Shop:      in.Session.Shop,
		Client:    in.Client,
		BrandName: req.BrandName,
	}
	if req.ImageURL != "" {
		sc.ImageURLs = []string{req.ImageURL}
	}

	outcome, err := p.syncer.Sync(ctx, product, sc)
	if err != nil {
		if _, ok := shopify.AsReauth(err); ok {
			log.Info().Msg("sync needs re-authentication")
			return nil, err
		}
		p.recordFailure(ctx, in, req, err)
		return nil, err
	}

	p.metrics.Generation(string(models.GenerationStatusSynced))
	record := p.recordSuccess(ctx, in, req, product, outcome)

	if err := p.publisher.Publish(ctx, events.New(events.TypeProductGenerated, in.Session.Shop, map[string]any{
		"product_id": outcome.ProductID,
		"handle":     outcome.Handle,
		"debug_id":   in.DebugID,
		"warnings":   len(outcome.Warnings),
	})); err != nil {
		log.Warn().Err(err).Msg("failed to publish product event")
	}

	log.Info().Str("product_id", outcome.ProductID).Msg("product synced")
	return &Result{Product: product, Outcome: outcome, Record: record}, nil
}

// recordSuccess writes the synced history row. The product already exists
// in the shop, so a storage failure is logged and the row is nil.
func (p *Pipeline) recordSuccess(ctx context.Context, in Input, req ai.Request, product *ai.GeneratedProduct, outcome *shopify.Outcome) *models.ProductGeneration {
	log := p.logger.With().Str("shop", in.Session.Shop).Str("debug_id", in.DebugID).Str("product_id", outcome.ProductID).Logger()

	shop, err := p.shopRecord(ctx, in.Session)
	if err != nil || shop == nil {
		log.Error().Err(err).Msg("failed to save shop after sync")
		return nil
	}

	record := &models.ProductGeneration{
		ShopID:               shop.ID,
		Keywords:             req.Keywords,
		ImageURL:             optional(req.ImageURL),
		Title:                product.Title,
		DescriptionHTML:      product.DescriptionHTML,
		Tags:                 pq.StringArray(product.Tags),
		SEOTitle:             optional(product.SEOTitle),
		SEODescription:       optional(product.SEODescription),
		VariantsJSON:         variantsJSON(product.Variants),
		ShopifyProductID:     optional(outcome.ProductID),
		ShopifyProductHandle: optional(outcome.Handle),
		Status:               models.GenerationStatusSynced,
		Warnings:             pq.StringArray(outcome.WarningStrings()),
	}
	if err := p.history.Record(ctx, record); err != nil {
		log.Error().Err(err).Msg("failed to save generation history after sync")
		return nil
	}
	return record
}

// recordFailure writes a failed history row. Errors are only logged so the
// caller still reports the original failure.
func (p *Pipeline) recordFailure(ctx context.Context, in Input, req ai.Request, cause error) {
	p.metrics.Generation(string(models.GenerationStatusFailed))
	p.logger.Error().Err(cause).Str("shop", in.Session.Shop).Str("debug_id", in.DebugID).Msg("product generation failed")

	shop, err := p.shopRecord(ctx, in.Session)
	if err != nil {
		p.logger.Error().Err(err).Str("debug_id", in.DebugID).Msg("failed to save failed attempt")
		return
	}

	keywords := req.Keywords
	if keywords == "" {
		keywords = notAvailablePayload
	}
	message := fmt.Sprintf("[debugId=%s] %s", in.DebugID, Truncate(cause.Error(), MaxStoredMessage))
	record := &models.ProductGeneration{
		ShopID:          shop.ID,
		Keywords:        keywords,
		ImageURL:        optional(req.ImageURL),
		Title:           keywords,
		DescriptionHTML: failedDescription,
		Tags:            pq.StringArray{},
		VariantsJSON:    datatypes.JSON("[]"),
		Status:          models.GenerationStatusFailed,
		ErrorMessage:    &message,
	}
	if err := p.history.Record(ctx, record); err != nil {
		p.logger.Error().Err(err).Str("debug_id", in.DebugID).Msg("failed to save failed attempt")
	}
}

func (p *Pipeline) shopRecord(ctx context.Context, session *models.Session) (*models.Shop, error) {
	return p.sessions.UpsertShop(ctx, session.Shop, session.AccessToken, session.ScopeString())
}

// Recent lists the shop's latest submissions, newest first.
func (p *Pipeline) Recent(ctx context.Context, shopDomain string, limit int) ([]models.ProductGeneration, error) {
	shop, err := p.sessions.FindShop(ctx, shopDomain)
	if err != nil || shop == nil {
		return nil, err
	}
	return p.history.RecentByShop(ctx, shop.ID, limit)
}

// Truncate keeps the first n characters of s and appends "..." when it cut
// anything.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func variantsJSON(variants []ai.Variant) datatypes.JSON {
	raw, err := json.Marshal(variants)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(raw)
}
