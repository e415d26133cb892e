package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// channelSkuColumns whitelists the columns FindByChannelField may query.
// The field name comes from PlatformCode.CatalogField, never from user
// input, but a whitelist keeps the dynamic column name safe regardless.
var channelSkuColumns = map[string]bool{
	"ffd_sku":    true,
	"ws_sku":     true,
	"amz_sku":    true,
	"amz_sku_m":  true,
	"amz_sku_bb": true,
	"amz_sku_eu": true,
}

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySku finds a product by its canonical SKU
func (r *GormProductRepository) FindBySku(ctx context.Context, sku string) (*catalog.Product, error) {
	if sku == "" {
		return nil, catalog.ErrSkuRequired
	}

	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("sku = ? AND is_active = ?", sku, true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByChannelField finds a product whose channel SKU column equals sku
func (r *GormProductRepository) FindByChannelField(ctx context.Context, field, sku string) (*catalog.Product, error) {
	if sku == "" {
		return nil, catalog.ErrSkuRequired
	}
	if !channelSkuColumns[field] {
		return nil, fmt.Errorf("catalog: unknown channel SKU column %q", field)
	}

	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Where(fmt.Sprintf("%s = ? AND is_active = ?", field), sku, true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
