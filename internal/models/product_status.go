package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductStatus records the outcome of the last price push attempt for one
// (store, platform product, source product) tuple. Rows are upserted, never
// duplicated: re-running a cycle overwrites the record for the same key.
type ProductStatus struct {
	ID                string       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	StoreID           string       `json:"store_id" gorm:"type:uuid;not null;uniqueIndex:idx_status_key"`
	PlatformProductID string       `json:"platform_product_id" gorm:"not null;uniqueIndex:idx_status_key"`
	SourceProductID   string       `json:"source_product_id" gorm:"not null;uniqueIndex:idx_status_key"`
	SKU               string       `json:"sku" gorm:"not null"`
	Status            ProductState `json:"status" gorm:"not null"`
	CurrentPrice      *float64     `json:"current_price" gorm:"type:decimal(10,2)"`
	TargetPrice       float64      `json:"target_price" gorm:"type:decimal(10,2)"`
	ErrorMessage      *string      `json:"error_message,omitempty"`
	LastAttemptAt     time.Time    `json:"last_attempt_at"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

type ProductState string

const (
	// StateRepriced means the last push succeeded and the channel now carries
	// the target price.
	StateRepriced ProductState = "repriced"
	// StatePending means the last required push failed or has not happened
	// yet; it is retried on the next scheduled cycle.
	StatePending ProductState = "pending"
	// StateUnlisted means the source product has no counterpart in the
	// channel catalogue.
	StateUnlisted ProductState = "unlisted"
)

func (p *ProductStatus) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
