package shopify

import (
	"strings"

	"ezproduct/internal/services/ai"
)

const (
	SizeOptionName     = "Size"
	defaultVendor      = "EZProduct"
	defaultProductType = "AI Generated"
)

type optionValuesStyle int

const (
	optionValuesAsObjects optionValuesStyle = iota
	optionValuesAsStrings
)

// Transformer turns generated listings into Admin API inputs.
type Transformer struct {
	brand string
}

func NewTransformer(brand string) *Transformer {
	return &Transformer{brand: strings.TrimSpace(brand)}
}

func (t *Transformer) vendor() string {
	if t.brand != "" {
		return t.brand
	}
	return defaultVendor
}

// productFields are shared by the current and the legacy create inputs.
func (t *Transformer) productFields(p *ai.GeneratedProduct) map[string]any {
	input := map[string]any{
		"title":       p.Title,
		"vendor":      t.vendor(),
		"productType": defaultProductType,
	}
	if html := strings.TrimSpace(p.DescriptionHTML); html != "" {
		input["descriptionHtml"] = html
	}
	if len(p.Tags) > 0 {
		input["tags"] = p.Tags
	}
	seo := map[string]any{}
	if p.SEOTitle != "" {
		seo["title"] = p.SEOTitle
	}
	if p.SEODescription != "" {
		seo["description"] = p.SEODescription
	}
	if len(seo) > 0 {
		input["seo"] = seo
	}
	return input
}

// ProductCreateInput builds the ProductCreateInput with one "Size" option
// holding every variant size.
func (t *Transformer) ProductCreateInput(p *ai.GeneratedProduct, style optionValuesStyle) map[string]any {
	input := t.productFields(p)
	input["status"] = "ACTIVE"

	values := make([]any, 0, len(p.Variants))
	for _, size := range uniqueSizes(p.Variants) {
		if style == optionValuesAsStrings {
			values = append(values, size)
		} else {
			values = append(values, map[string]any{"name": size})
		}
	}
	input["productOptions"] = []any{
		map[string]any{"name": SizeOptionName, "values": values},
	}
	return input
}

// LegacyProductInput builds a ProductInput without options.
func (t *Transformer) LegacyProductInput(p *ai.GeneratedProduct) map[string]any {
	return t.productFields(p)
}

// VariantCreateInput describes a new variant for productVariantsBulkCreate.
func (t *Transformer) VariantCreateInput(v ai.Variant) map[string]any {
	input := t.variantPricing(v)
	input["optionValues"] = []any{
		map[string]any{"optionName": SizeOptionName, "name": v.Size},
	}
	input["inventoryItem"] = inventoryItemInput(v, true)
	return input
}

// VariantUpdateInput reprices an existing variant. SKU and weight are set
// only when the variant matched a generated size.
func (t *Transformer) VariantUpdateInput(id string, v ai.Variant, matched bool) map[string]any {
	input := t.variantPricing(v)
	input["id"] = id
	input["inventoryItem"] = inventoryItemInput(v, matched)
	return input
}

func (t *Transformer) variantPricing(v ai.Variant) map[string]any {
	input := map[string]any{
		"price": v.Price.StringFixed(2),
	}
	if v.CompareAtPrice.GreaterThan(v.Price) {
		input["compareAtPrice"] = v.CompareAtPrice.StringFixed(2)
	}
	return input
}

func inventoryItemInput(v ai.Variant, withIdentity bool) map[string]any {
	item := map[string]any{"tracked": true}
	if !withIdentity {
		return item
	}
	if v.SKU != "" {
		item["sku"] = v.SKU
	}
	if v.Weight > 0 {
		item["measurement"] = map[string]any{
			"weight": map[string]any{"value": v.Weight, "unit": "GRAMS"},
		}
	}
	return item
}

// MediaInput attaches each URL as an image.
func (t *Transformer) MediaInput(urls []string, alt string) []any {
	media := make([]any, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u == "" {
			continue
		}
		media = append(media, map[string]any{
			"originalSource":   u,
			"alt":              alt,
			"mediaContentType": "IMAGE",
		})
	}
	return media
}

func uniqueSizes(variants []ai.Variant) []string {
	seen := make(map[string]bool, len(variants))
	var sizes []string
	for _, v := range variants {
		key := strings.ToLower(v.Size)
		if v.Size == "" || seen[key] {
			continue
		}
		seen[key] = true
		sizes = append(sizes, v.Size)
	}
	return sizes
}
