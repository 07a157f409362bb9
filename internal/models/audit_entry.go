package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditEntry is one immutable log line per state-changing decision taken
// during a sync cycle. Kept separate from ProductStatus so history survives
// status overwrites.
type AuditEntry struct {
	ID        string      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	StoreID   string      `json:"store_id" gorm:"type:uuid;not null;index"`
	Action    AuditAction `json:"action" gorm:"not null"`
	Detail    string      `json:"detail"`
	CreatedAt time.Time   `json:"created_at"`
}

type AuditAction string

const (
	AuditCycleFinished   AuditAction = "cycle.finished"
	AuditCycleFailed     AuditAction = "cycle.failed"
	AuditPushAttempted   AuditAction = "price.push_attempted"
	AuditPushSucceeded   AuditAction = "price.push_succeeded"
	AuditPushFailed      AuditAction = "price.push_failed"
	AuditProductUnlisted AuditAction = "product.unlisted"
)

func (a *AuditEntry) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
