package shopify

import (
	"context"
	"fmt"
	"strings"

	"ezproduct/internal/services/ai"
)

const removeStandaloneVariant = "REMOVE_STANDALONE_VARIANT"

// variantMatch pairs a catalog variant with the generated variant it
// represents. Logical is nil when nothing was left to match.
type variantMatch struct {
	Variant ProductVariant
	Logical *ai.Variant
}

// reconcileVariants makes the catalog variants mirror the generated ones.
// It returns the variants that exist afterwards.
func (s *Syncer) reconcileVariants(ctx context.Context, client AdminAPI, t *Transformer, created *Product, generated []ai.Variant, out *Outcome) ([]ProductVariant, error) {
	wanted := uniqueVariants(generated)

	existing, err := s.existingVariants(ctx, client, created)
	if err != nil {
		return nil, s.warn(out, stepVariants, err)
	}

	switch {
	case len(existing) == 0:
		variants, err := s.bulkCreate(ctx, client, t, created.ID, wanted, "")
		if err != nil {
			return nil, s.warn(out, stepVariants, err)
		}
		return variants, nil

	case len(existing) == 1 && len(wanted) > 1:
		return s.replacePlaceholder(ctx, client, t, created.ID, existing[0], wanted, out)

	default:
		matches, missing := matchVariants(existing, wanted)
		updated, err := s.bulkUpdate(ctx, client, t, created.ID, matches, wanted[0])
		if err != nil {
			if err := s.warn(out, stepVariants, err); err != nil {
				return nil, err
			}
			updated = nil
		}
		if len(updated) == 0 {
			updated = existing
		}
		if len(missing) == 0 {
			return updated, nil
		}
		added, err := s.bulkCreate(ctx, client, t, created.ID, missing, "")
		if err != nil {
			return updated, s.warn(out, stepVariants, err)
		}
		return append(updated, added...), nil
	}
}

func (s *Syncer) existingVariants(ctx context.Context, client AdminAPI, created *Product) ([]ProductVariant, error) {
	if created.Variants != nil {
		return created.Variants.Nodes, nil
	}
	var payload productVariantsPayload
	err := s.mutate(ctx, client, "productVariants", productVariantsQuery, map[string]any{"id": created.ID}, &payload)
	if err != nil {
		return nil, err
	}
	if payload.Product == nil {
		return nil, fmt.Errorf("product %s not found", created.ID)
	}
	return payload.Product.Variants.Nodes, nil
}

// replacePlaceholder swaps the single auto-created variant for the full set.
// When the combined call is rejected, the variants are created first and the
// placeholder deleted afterwards.
func (s *Syncer) replacePlaceholder(ctx context.Context, client AdminAPI, t *Transformer, productID string, placeholder ProductVariant, wanted []ai.Variant, out *Outcome) ([]ProductVariant, error) {
	variants, err := s.bulkCreate(ctx, client, t, productID, wanted, removeStandaloneVariant)
	if err == nil {
		return variants, nil
	}
	if _, ok := AsReauth(err); ok {
		return nil, err
	}
	s.logger.Warn().Str("product_id", productID).Str("error", err.Error()).Msg("bulk create with placeholder removal rejected, retrying")

	variants, err = s.bulkCreate(ctx, client, t, productID, wanted, "")
	if err != nil {
		return []ProductVariant{placeholder}, s.warn(out, stepVariants, err)
	}

	var payload variantsBulkDeletePayload
	err = s.mutate(ctx, client, "productVariantsBulkDelete", variantsBulkDeleteMutation, map[string]any{
		"productId":   productID,
		"variantsIds": []string{placeholder.ID},
	}, &payload)
	if err == nil {
		err = userErrorsErr("productVariantsBulkDelete", payload.ProductVariantsBulkDelete.UserErrors)
	}
	if err != nil {
		return variants, s.warn(out, stepVariants, err)
	}
	return variants, nil
}

func (s *Syncer) bulkCreate(ctx context.Context, client AdminAPI, t *Transformer, productID string, variants []ai.Variant, strategy string) ([]ProductVariant, error) {
	inputs := make([]any, len(variants))
	for i, v := range variants {
		inputs[i] = t.VariantCreateInput(v)
	}
	vars := map[string]any{"productId": productID, "variants": inputs}
	if strategy != "" {
		vars["strategy"] = strategy
	}

	var payload variantsBulkCreatePayload
	if err := s.mutate(ctx, client, "productVariantsBulkCreate", variantsBulkCreateMutation, vars, &payload); err != nil {
		return nil, err
	}
	result := payload.ProductVariantsBulkCreate
	if err := userErrorsErr("productVariantsBulkCreate", result.UserErrors); err != nil {
		return nil, err
	}
	return result.ProductVariants, nil
}

// bulkUpdate reprices every matched variant. Unmatched ones take fallback's
// price so no variant is left at zero.
func (s *Syncer) bulkUpdate(ctx context.Context, client AdminAPI, t *Transformer, productID string, matches []variantMatch, fallback ai.Variant) ([]ProductVariant, error) {
	inputs := make([]any, len(matches))
	for i, m := range matches {
		if m.Logical != nil {
			inputs[i] = t.VariantUpdateInput(m.Variant.ID, *m.Logical, true)
		} else {
			inputs[i] = t.VariantUpdateInput(m.Variant.ID, fallback, false)
		}
	}

	var payload variantsBulkUpdatePayload
	err := s.mutate(ctx, client, "productVariantsBulkUpdate", variantsBulkUpdateMutation, map[string]any{
		"productId": productID,
		"variants":  inputs,
	}, &payload)
	if err != nil {
		return nil, err
	}
	result := payload.ProductVariantsBulkUpdate
	if err := userErrorsErr("productVariantsBulkUpdate", result.UserErrors); err != nil {
		return nil, err
	}
	return result.ProductVariants, nil
}

// matchVariants assigns generated variants to catalog variants: exact label
// first, then substring of the title, then position. It also returns the
// generated variants no catalog variant took.
func matchVariants(existing []ProductVariant, wanted []ai.Variant) ([]variantMatch, []ai.Variant) {
	matches := make([]variantMatch, len(existing))
	used := make([]bool, len(wanted))
	for i, v := range existing {
		matches[i].Variant = v
	}

	take := func(i, j int) {
		matches[i].Logical = &wanted[j]
		used[j] = true
	}

	passes := []func(ProductVariant, ai.Variant) bool{
		func(v ProductVariant, w ai.Variant) bool {
			label := v.OptionValue(SizeOptionName)
			if label == "" {
				label = v.Title
			}
			return strings.EqualFold(strings.TrimSpace(label), strings.TrimSpace(w.Size))
		},
		func(v ProductVariant, w ai.Variant) bool {
			return strings.Contains(strings.ToLower(v.Title), strings.ToLower(w.Size))
		},
		func(ProductVariant, ai.Variant) bool { return true },
	}

	for _, match := range passes {
		for i := range matches {
			if matches[i].Logical != nil {
				continue
			}
			for j := range wanted {
				if !used[j] && match(matches[i].Variant, wanted[j]) {
					take(i, j)
					break
				}
			}
		}
	}

	var missing []ai.Variant
	for j, w := range wanted {
		if !used[j] {
			missing = append(missing, w)
		}
	}
	return matches, missing
}

func uniqueVariants(variants []ai.Variant) []ai.Variant {
	seen := make(map[string]bool, len(variants))
	out := make([]ai.Variant, 0, len(variants))
	for _, v := range variants {
		key := strings.ToLower(strings.TrimSpace(v.Size))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

func userErrorsErr(operation string, errs []UserError) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%s: %s", operation, userErrorsString(errs))
}
