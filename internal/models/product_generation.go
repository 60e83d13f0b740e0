package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GenerationStatus string

const (
	GenerationStatusSynced GenerationStatus = "synced"
	GenerationStatusFailed GenerationStatus = "failed"
)

// ProductGeneration is one submission in the append-only history.
type ProductGeneration struct {
	ID                   string           `json:"id" gorm:"primaryKey;size:36"`
	ShopID               string           `json:"shop_id" gorm:"index;not null"`
	Keywords             string           `json:"keywords" gorm:"not null"`
	ImageURL             *string          `json:"image_url"`
	Title                string           `json:"title" gorm:"not null"`
	DescriptionHTML      string           `json:"description_html" gorm:"type:text;not null"`
	Tags                 pq.StringArray   `json:"tags" gorm:"type:text"`
	SEOTitle             *string          `json:"seo_title"`
	SEODescription       *string          `json:"seo_description"`
	VariantsJSON         datatypes.JSON   `json:"variants"`
	ShopifyProductID     *string          `json:"shopify_product_id"`
	ShopifyProductHandle *string          `json:"shopify_product_handle"`
	Status               GenerationStatus `json:"status" gorm:"index;not null"`
	ErrorMessage         *string          `json:"error_message" gorm:"type:text"`
	Warnings             pq.StringArray   `json:"warnings" gorm:"type:text"`
	CreatedAt            time.Time        `json:"created_at"`
}

func (p *ProductGeneration) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
