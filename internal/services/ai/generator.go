package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ezproduct/internal/logger"
	"ezproduct/internal/metrics"
)

// DefaultModels is the preference order used after the configured override.
var DefaultModels = []string{
	"gemini-1.5-pro-latest",
	"gemini-1.5-pro",
	"gemini-1.5-flash-latest",
	"gemini-1.5-flash",
	"gemini-2.0-flash",
}

// Generator turns merchant keywords into a validated product listing.
type Generator struct {
	model    TextModel
	override string
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewGenerator(model TextModel, modelOverride string, logger *logger.Logger, m *metrics.Metrics) *Generator {
	return &Generator{
		model:    model,
		override: strings.TrimSpace(modelOverride),
		logger:   logger.Component("ai"),
		metrics:  m,
	}
}

// Candidates lists model identifiers in the order they are tried.
func (g *Generator) Candidates() []string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range append([]string{g.override}, DefaultModels...) {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// Generate tries each candidate model until one returns a valid listing.
// Quota and credential errors stop the loop immediately.
func (g *Generator) Generate(ctx context.Context, req Request) (*GeneratedProduct, error) {
	req.Keywords = strings.TrimSpace(req.Keywords)
	if req.Keywords == "" {
		return nil, &GenerationError{Err: errors.New("keywords are required")}
	}

	prompt := buildPrompt(req)
	candidates := g.Candidates()

	var tried []string
	var lastErr error
	for _, name := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, &GenerationError{Tried: tried, Err: err}
		}
		tried = append(tried, name)

		product, err := g.tryModel(ctx, name, prompt, req.Sizes())
		if err == nil {
			g.metrics.AIAttempt(name, "ok")
			g.logger.Info().Str("model", name).Str("title", product.Title).Int("variants", len(product.Variants)).Msg("product generated")
			return product, nil
		}

		lastErr = err
		class := classify(err)
		g.metrics.AIAttempt(name, class.String())

		switch class {
		case classFatal:
			g.logger.Error().Err(err).Str("model", name).Msg("generation failed, not trying other models")
			return nil, &GenerationError{Tried: tried, FailFast: true, Err: err}
		case classModelUnavailable:
			g.logger.Warn().Str("model", name).Msg("model not available for generateContent, trying next")
		default:
			g.logger.Warn().Err(err).Str("model", name).Msg("generation attempt failed, trying next model")
		}
	}

	return nil, &GenerationError{Tried: tried, Err: lastErr}
}

func (g *Generator) tryModel(ctx context.Context, name, prompt string, sizes []string) (*GeneratedProduct, error) {
	text, err := g.model.GenerateContent(ctx, name, prompt)
	if err != nil {
		return nil, err
	}
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	product, err := ParseProduct(raw)
	if err != nil {
		return nil, err
	}
	if len(sizes) > 0 {
		if err := keepRequestedSizes(product, sizes); err != nil {
			return nil, err
		}
	}
	return product, nil
}

// keepRequestedSizes narrows the variants to the merchant's size labels,
// in the order they were requested. Labels compare case-insensitively.
func keepRequestedSizes(product *GeneratedProduct, sizes []string) error {
	bySize := make(map[string]Variant, len(product.Variants))
	for _, v := range product.Variants {
		bySize[strings.ToLower(v.Size)] = v
	}

	kept := make([]Variant, 0, len(sizes))
	seen := make(map[string]bool, len(sizes))
	var missing []string
	for _, size := range sizes {
		key := strings.ToLower(size)
		if seen[key] {
			continue
		}
		seen[key] = true
		v, ok := bySize[key]
		if !ok {
			missing = append(missing, size)
			continue
		}
		kept = append(kept, v)
	}
	if len(missing) > 0 {
		return fmt.Errorf("response is missing requested sizes: %s", strings.Join(missing, ", "))
	}
	product.Variants = kept
	return nil
}
