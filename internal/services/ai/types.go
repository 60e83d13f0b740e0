package ai

import (
	"github.com/shopspring/decimal"
)

// Request is what a merchant submits for one product.
type Request struct {
	Keywords     string
	ImageURL     string
	SizeOptions  string // comma separated
	BrandName    string
	ProductNotes string
}

// Sizes returns the trimmed, non-empty size labels of SizeOptions, at most
// MaxVariants of them.
func (r Request) Sizes() []string {
	return splitSizes(r.SizeOptions)
}

// Variant is one purchasable size of a generated product.
type Variant struct {
	Size           string          `json:"size"`
	SizeCm         string          `json:"sizeCm"`
	SizeInch       string          `json:"sizeInch"`
	Price          decimal.Decimal `json:"price"`
	CompareAtPrice decimal.Decimal `json:"compareAtPrice"`
	SKU            string          `json:"sku"`
	Weight         int             `json:"weight"` // grams
}

// GeneratedProduct is a validated listing ready for the catalog.
type GeneratedProduct struct {
	Title           string    `json:"title"`
	DescriptionHTML string    `json:"descriptionHtml"`
	Variants        []Variant `json:"variants"`
	Tags            []string  `json:"tags"`
	SEOTitle        string    `json:"seoTitle,omitempty"`
	SEODescription  string    `json:"seoDescription,omitempty"`
}
