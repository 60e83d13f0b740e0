package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Shop mirrors the latest session of a tenant.
type Shop struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Shop        string    `json:"shop" gorm:"uniqueIndex;not null"`
	AccessToken string    `json:"-" gorm:"not null"`
	Scope       string    `json:"scope"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *Shop) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
