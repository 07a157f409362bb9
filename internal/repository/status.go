package repository

import (
	"context"

	"pricesync/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatusRepository persists per-product sync outcomes and per-cycle
// aggregate results.
type StatusRepository struct {
	db *gorm.DB
}

func NewStatusRepository(db *gorm.DB) *StatusRepository {
	return &StatusRepository{db: db}
}

// UpdateProductStatus upserts the record for the status key
// (store_id, platform_product_id, source_product_id). Re-running a cycle
// overwrites the row, it never accumulates duplicates.
func (r *StatusRepository) UpdateProductStatus(ctx context.Context, status *models.ProductStatus) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "store_id"},
			{Name: "platform_product_id"},
			{Name: "source_product_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"sku", "status", "current_price", "target_price", "error_message", "last_attempt_at", "updated_at",
		}),
	}).Create(status).Error
}

// SaveSyncResult appends one aggregate row per finished cycle.
func (r *StatusRepository) SaveSyncResult(ctx context.Context, result *models.SyncResult) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *StatusRepository) ListByStore(ctx context.Context, storeID string, offset, limit int) ([]models.ProductStatus, int64, error) {
	var statuses []models.ProductStatus
	var total int64

	query := r.db.WithContext(ctx).Model(&models.ProductStatus{}).Where("store_id = ?", storeID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("sku").Offset(offset).Limit(limit).Find(&statuses).Error; err != nil {
		return nil, 0, err
	}

	return statuses, total, nil
}

func (r *StatusRepository) ListResultsByStore(ctx context.Context, storeID string, offset, limit int) ([]models.SyncResult, int64, error) {
	var results []models.SyncResult
	var total int64

	query := r.db.WithContext(ctx).Model(&models.SyncResult{}).Where("store_id = ?", storeID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("started_at DESC").Offset(offset).Limit(limit).Find(&results).Error; err != nil {
		return nil, 0, err
	}

	return results, total, nil
}
