package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Store struct {
	ID           string       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string       `json:"name" gorm:"not null"`
	Platform     PlatformType `json:"platform" gorm:"not null"`
	SyncInterval int          `json:"sync_interval" gorm:"not null;default:300"`
	Enabled      bool         `json:"enabled" gorm:"default:true"`
	Credentials  Credentials  `json:"credentials,omitempty" gorm:"type:text;serializer:json"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Credentials is opaque to the sync core; only the platform client for the
// store's platform knows which keys it needs.
type Credentials map[string]string

type PlatformType string

const (
	PlatformWooCommerce PlatformType = "woocommerce"
	PlatformShopify     PlatformType = "shopify"
)

func (s *Store) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
