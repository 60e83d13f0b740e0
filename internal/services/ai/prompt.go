package ai

import (
	"fmt"
	"strings"
	"unicode"
)

// SKUPrefix derives the SKU prefix from a brand name: the first three
// letters or digits, upper-cased. Without a brand it is "EZ".
func SKUPrefix(brand string) string {
	var b strings.Builder
	for _, r := range brand {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(unicode.ToUpper(r))
			if b.Len() == 3 {
				break
			}
		}
	}
	if b.Len() < 2 {
		return "EZ"
	}
	return b.String()
}

func buildPrompt(req Request) string {
	prefix := SKUPrefix(req.BrandName)

	var sizing string
	if sizes := req.Sizes(); len(sizes) > 0 {
		sizing = fmt.Sprintf(`Use exactly these size labels, in this order, one variant each: %s.
Do not add, rename or drop sizes.`, strings.Join(sizes, ", "))
	} else {
		sizing = `Choose a sizing scheme that fits the product category and create 2 to 4 variants:
- apparel: S, M, L, XL
- containers and drinkware: volumes such as 350ml, 500ml
- decor and figurines: dimensions such as 6inch, 8inch, 10inch
- items without meaningful sizes: a single "One Size" variant`
	}

	var extras strings.Builder
	if req.BrandName != "" {
		fmt.Fprintf(&extras, "\nBrand: %s. Work the brand name naturally into the title and description.", req.BrandName)
	}
	if req.ProductNotes != "" {
		fmt.Fprintf(&extras, "\nAdditional product information from the merchant: %s", req.ProductNotes)
	}

	prompt := fmt.Sprintf(`
You write e-commerce product listings for general consumer goods (home, lifestyle, fitness, pets, accessories and similar).

Create a complete listing for: "%s"%s

Requirements:
1. title: SEO friendly and appealing, at most 100 characters.
2. descriptionHtml: 500 to 800 words of HTML covering the product story, key features, specifications and care notes. Include an HTML table comparing the sizes in cm and inches.
3. variants: %s
   Every variant needs size, sizeCm, sizeInch, price (USD, number), compareAtPrice (2 to 3 times price), sku (format %sXXX-<size>) and weight (grams, integer).
   Larger sizes cost more.
4. tags: 5 to 10 relevant search tags.
5. seoTitle and seoDescription: at most 60 and 160 characters.

Answer with JSON only, no commentary:
`+"```json"+`
{
  "title": "Product title",
  "descriptionHtml": "<p>...</p>",
  "variants": [
    {"size": "M", "sizeCm": "20cm*15cm*5cm", "sizeInch": "8inch*6inch*2inch", "price": 39.90, "compareAtPrice": 99.00, "sku": "%s001-M", "weight": 600}
  ],
  "tags": ["tag1", "tag2"],
  "seoTitle": "SEO title",
  "seoDescription": "SEO description"
}
`+"```", req.Keywords, extras.String(), sizing, prefix, prefix)

	if req.ImageURL != "" {
		prompt += fmt.Sprintf("\n\nProduct image URL: %s\nDescribe the visual details of this image in the listing.", req.ImageURL)
	}
	return strings.TrimSpace(prompt)
}
