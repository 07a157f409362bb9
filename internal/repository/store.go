package repository

import (
	"context"

	"pricesync/internal/models"

	"gorm.io/gorm"
)

// StoreRepository is the store configuration source: the dashboard writes
// through it, the scheduler reads enabled stores from it on start and on
// every reconciliation pass.
type StoreRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

func (r *StoreRepository) ListEnabled(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	err := r.db.WithContext(ctx).Where("enabled = ?", true).Find(&stores).Error
	return stores, err
}

func (r *StoreRepository) List(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	err := r.db.WithContext(ctx).Order("created_at").Find(&stores).Error
	return stores, err
}

func (r *StoreRepository) GetByID(ctx context.Context, id string) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *StoreRepository) Create(ctx context.Context, store *models.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

func (r *StoreRepository) Update(ctx context.Context, store *models.Store) error {
	return r.db.WithContext(ctx).Save(store).Error
}

func (r *StoreRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Store{}, "id = ?", id).Error
}
