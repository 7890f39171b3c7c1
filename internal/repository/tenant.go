package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/osvaldn/indexer-gateway/internal/models"
	"github.com/osvaldn/indexer-gateway/internal/storage"
)

type TenantRepository struct {
	db *storage.Postgres
}

func NewTenantRepository(db *storage.Postgres) *TenantRepository {
	return &TenantRepository{db: db}
}

func (r *TenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	return r.db.DB.WithContext(ctx).Create(tenant).Error
}

// ListActive returns the rows the tenant directory is built from.
func (r *TenantRepository) ListActive(ctx context.Context) ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := r.db.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Find(&tenants).Error

	return tenants, err
}

func (r *TenantRepository) List(ctx context.Context) ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := r.db.DB.WithContext(ctx).
		Order("created_at DESC").
		Find(&tenants).Error

	return tenants, err
}

func (r *TenantRepository) FindByID(ctx context.Context, id string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&tenant).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &tenant, err
}

// Deactivate revokes a tenant's key without deleting the row.
func (r *TenantRepository) Deactivate(ctx context.Context, id string) error {
	return r.db.DB.WithContext(ctx).
		Model(&models.Tenant{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
