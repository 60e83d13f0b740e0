package store

import (
	"context"
	"fmt"

	"ezproduct/internal/models"

	"gorm.io/gorm"
)

// HistoryStore is the append-only log of generation attempts.
type HistoryStore struct {
	db *gorm.DB
}

func NewHistoryStore(db *gorm.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

func (h *HistoryStore) Record(ctx context.Context, record *models.ProductGeneration) error {
	if err := h.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to record generation: %w", err)
	}
	return nil
}

func (h *HistoryStore) RecentByShop(ctx context.Context, shopID string, limit int) ([]models.ProductGeneration, error) {
	var records []models.ProductGeneration
	err := h.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("created_at desc").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	return records, nil
}

// DeleteByShop is only used by the tenant cleanup in SessionStore.DeleteByShop.
func (h *HistoryStore) DeleteByShop(ctx context.Context, shopID string) (int64, error) {
	res := h.db.WithContext(ctx).Where("shop_id = ?", shopID).Delete(&models.ProductGeneration{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete generations: %w", res.Error)
	}
	return res.RowsAffected, nil
}
