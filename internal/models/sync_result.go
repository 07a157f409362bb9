package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SyncResult is the aggregate outcome of one sync cycle for one store.
// Append-only history.
type SyncResult struct {
	ID            string        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	StoreID       string        `json:"store_id" gorm:"type:uuid;not null;index"`
	Status        SyncRunStatus `json:"status" gorm:"not null"`
	MatchedCount  int           `json:"matched_count"`
	RepricedCount int           `json:"repriced_count"`
	PendingCount  int           `json:"pending_count"`
	UnlistedCount int           `json:"unlisted_count"`
	ErrorMessage  *string       `json:"error_message,omitempty"`
	StartedAt     time.Time     `json:"started_at"`
	FinishedAt    time.Time     `json:"finished_at"`
	CreatedAt     time.Time     `json:"created_at"`
}

type SyncRunStatus string

const (
	SyncRunSucceeded SyncRunStatus = "succeeded"
	SyncRunFailed    SyncRunStatus = "failed"
)

func (r *SyncResult) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
