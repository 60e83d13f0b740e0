package models

import (
	"time"

	"gorm.io/datatypes"
)

// Session is one OAuth installation credential. Offline sessions use the id
// "offline_<shop>".
type Session struct {
	ID               string         `json:"id" gorm:"primaryKey"`
	Shop             string         `json:"shop" gorm:"index;not null"`
	State            string         `json:"state"`
	IsOnline         bool           `json:"is_online" gorm:"default:false"`
	Scope            *string        `json:"scope"`
	AccessToken      string         `json:"-" gorm:"not null"`
	Expires          *time.Time     `json:"expires"`
	OnlineAccessInfo datatypes.JSON `json:"online_access_info,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// OfflineSessionID is the id under which a shop's offline token is stored.
func OfflineSessionID(shop string) string {
	return "offline_" + shop
}

// IsActive reports whether the session has a token that has not expired.
func (s *Session) IsActive(now time.Time) bool {
	if s == nil || s.AccessToken == "" {
		return false
	}
	return s.Expires == nil || s.Expires.After(now)
}

// ScopeString returns the granted scope or "".
func (s *Session) ScopeString() string {
	if s.Scope == nil {
		return ""
	}
	return *s.Scope
}
