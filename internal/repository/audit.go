package repository

import (
	"context"

	"pricesync/internal/models"

	"gorm.io/gorm"
)

// AuditRepository appends immutable audit entries. Nothing updates or
// deletes them.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Log(ctx context.Context, entry *models.AuditEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *AuditRepository) ListByStore(ctx context.Context, storeID string, offset, limit int) ([]models.AuditEntry, int64, error) {
	var entries []models.AuditEntry
	var total int64

	query := r.db.WithContext(ctx).Model(&models.AuditEntry{}).Where("store_id = ?", storeID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
