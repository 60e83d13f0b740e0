package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	MaxVariants   = 5
	maxTitleRunes = 100
)

var (
	defaultPrice        = decimal.RequireFromString("29.99")
	compareAtMultiplier = decimal.RequireFromString("2.5")
	defaultWeightGrams  = 500
)

var fencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// ExtractJSON returns the JSON object inside a model response. A ```json
// fence wins; otherwise the first balanced top-level {...} span is used.
func ExtractJSON(text string) (string, error) {
	if m := fencedJSON.FindStringSubmatch(text); m != nil && strings.TrimSpace(m[1]) != "" {
		return m[1], nil
	}

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", errors.New("failed to parse AI response as JSON: no object found")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", errors.New("failed to parse AI response as JSON: unterminated object")
}

// ParseProduct decodes and validates a model's JSON answer.
func ParseProduct(raw string) (*GeneratedProduct, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse AI response as JSON: %w", err)
	}
	return validateProduct(data)
}

func validateProduct(data map[string]any) (*GeneratedProduct, error) {
	title := strings.TrimSpace(asString(data["title"]))
	description := strings.TrimSpace(asString(data["descriptionHtml"]))
	rawVariants, isArray := data["variants"].([]any)
	if title == "" || description == "" || !isArray {
		return nil, errors.New("invalid product data structure from AI: title, descriptionHtml and variants are required")
	}
	if len(rawVariants) == 0 {
		return nil, errors.New("invalid product data structure from AI: no variants")
	}

	variants := make([]Variant, 0, MaxVariants)
	seen := make(map[string]bool)
	for i, rv := range rawVariants {
		fields, ok := rv.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("variant %d is not an object", i+1)
		}
		v, err := coerceVariant(fields)
		if err != nil {
			return nil, fmt.Errorf("variant %d: %w", i+1, err)
		}
		key := strings.ToLower(v.Size)
		if seen[key] {
			continue
		}
		seen[key] = true
		variants = append(variants, v)
		if len(variants) == MaxVariants {
			break
		}
	}

	product := &GeneratedProduct{
		Title:           truncateRunes(title, maxTitleRunes),
		DescriptionHTML: description,
		Variants:        variants,
		Tags:            asStrings(data["tags"]),
		SEOTitle:        strings.TrimSpace(asString(data["seoTitle"])),
		SEODescription:  strings.TrimSpace(asString(data["seoDescription"])),
	}
	if product.SEOTitle == "" {
		product.SEOTitle = product.Title
	}
	return product, nil
}

func coerceVariant(fields map[string]any) (Variant, error) {
	size := strings.TrimSpace(asString(fields["size"]))
	sku := strings.TrimSpace(asString(fields["sku"]))
	if size == "" || sku == "" || isBlank(fields["price"]) {
		return Variant{}, errors.New("missing required fields (size, price, sku)")
	}

	price, ok := asDecimal(fields["price"])
	if !ok || !price.IsPositive() {
		price = defaultPrice
	}
	compareAt, ok := asDecimal(fields["compareAtPrice"])
	if !ok || compareAt.LessThanOrEqual(price) {
		compareAt = price.Mul(compareAtMultiplier).Round(2)
	}
	weight := defaultWeightGrams
	if w, ok := asDecimal(fields["weight"]); ok && w.IsPositive() {
		weight = int(w.Round(0).IntPart())
	}

	return Variant{
		Size:           size,
		SizeCm:         orNA(asString(fields["sizeCm"])),
		SizeInch:       orNA(asString(fields["sizeInch"])),
		Price:          price.Round(2),
		CompareAtPrice: compareAt,
		SKU:            sku,
		Weight:         weight,
	}, nil
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func asStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(asString(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func asDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(t), true
	case string:
		cleaned := strings.TrimSpace(strings.NewReplacer("$", "", ",", "", "USD", "").Replace(t))
		d, err := decimal.NewFromString(cleaned)
		return d, err == nil
	default:
		return decimal.Decimal{}, false
	}
}

func isBlank(v any) bool {
	return strings.TrimSpace(asString(v)) == ""
}

func orNA(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "N/A"
	}
	return s
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func splitSizes(options string) []string {
	var sizes []string
	for _, part := range strings.Split(options, ",") {
		if part = strings.TrimSpace(part); part != "" {
			sizes = append(sizes, part)
		}
		if len(sizes) == MaxVariants {
			break
		}
	}
	return sizes
}
