package store

import (
	"context"
	"errors"
	"fmt"

	"ezproduct/internal/logger"
	"ezproduct/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionStore persists OAuth sessions and keeps the per-shop record in step
// with the most recently stored one.
type SessionStore struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewSessionStore(db *gorm.DB, logger *logger.Logger) *SessionStore {
	return &SessionStore{db: db, logger: logger}
}

// Store inserts or overwrites the session by id and upserts the shop record.
// A shop record failure is logged; the session write alone decides the result.
func (s *SessionStore) Store(ctx context.Context, session *models.Session) error {
	s.logger.Debug().Str("session_id", session.ID).Str("shop", session.Shop).Msg("storing session")

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"shop", "state", "is_online", "scope", "access_token", "expires", "online_access_info", "updated_at",
		}),
	}).Create(session).Error
	if err != nil {
		return fmt.Errorf("failed to store session %s: %w", session.ID, err)
	}

	if _, err := s.UpsertShop(ctx, session.Shop, session.AccessToken, session.ScopeString()); err != nil {
		s.logger.Error().Err(err).Str("shop", session.Shop).Msg("failed to upsert shop record")
	}
	return nil
}

// Load returns nil, nil when the id is unknown.
func (s *SessionStore) Load(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	err := s.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return &session, nil
}

// Delete is a no-op for unknown ids.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

func (s *SessionStore) FindByShop(ctx context.Context, shop string) ([]models.Session, error) {
	var sessions []models.Session
	if err := s.db.WithContext(ctx).Where("shop = ?", shop).Order("created_at").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to find sessions for %s: %w", shop, err)
	}
	return sessions, nil
}

// DeleteByShop removes a tenant in one transaction: its generation history,
// every session and the shop record. It returns the number of history rows
// erased.
func (s *SessionStore) DeleteByShop(ctx context.Context, shop string) (int64, error) {
	var erased int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.Shop
		err := tx.First(&record, "shop = ?", shop).Error
		switch {
		case err == nil:
			if erased, err = NewHistoryStore(tx).DeleteByShop(ctx, record.ID); err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("failed to find shop %s: %w", shop, err)
		}
		if err := tx.Where("shop = ?", shop).Delete(&models.Session{}).Error; err != nil {
			return fmt.Errorf("failed to delete sessions for %s: %w", shop, err)
		}
		if err := tx.Where("shop = ?", shop).Delete(&models.Shop{}).Error; err != nil {
			return fmt.Errorf("failed to delete shop record for %s: %w", shop, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return erased, nil
}

// UpsertShop writes the latest token and scope for a shop and returns the row.
func (s *SessionStore) UpsertShop(ctx context.Context, shop, accessToken, scope string) (*models.Shop, error) {
	record := &models.Shop{Shop: shop, AccessToken: accessToken, Scope: scope}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "shop"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "scope", "updated_at"}),
	}).Create(record).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert shop %s: %w", shop, err)
	}
	return s.FindShop(ctx, shop)
}

// SetShopDetails stores the display name and contact email of a shop.
func (s *SessionStore) SetShopDetails(ctx context.Context, shop, name, email string) error {
	err := s.db.WithContext(ctx).Model(&models.Shop{}).Where("shop = ?", shop).
		Updates(map[string]any{"name": name, "email": email}).Error
	if err != nil {
		return fmt.Errorf("failed to update shop details for %s: %w", shop, err)
	}
	return nil
}

// FindShop returns nil, nil when the shop has no record.
func (s *SessionStore) FindShop(ctx context.Context, shop string) (*models.Shop, error) {
	var record models.Shop
	err := s.db.WithContext(ctx).First(&record, "shop = ?", shop).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find shop %s: %w", shop, err)
	}
	return &record, nil
}
