package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/integration"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormSkuMappingRepository implements SkuMappingRepository using GORM
type GormSkuMappingRepository struct {
	db *gorm.DB
}

// NewGormSkuMappingRepository creates a new GormSkuMappingRepository
func NewGormSkuMappingRepository(db *gorm.DB) *GormSkuMappingRepository {
	return &GormSkuMappingRepository{db: db}
}

// FindByExternalSku finds the mapping for (connectionID, externalSku)
func (r *GormSkuMappingRepository) FindByExternalSku(ctx context.Context, connectionID uuid.UUID, externalSku string) (*integration.SkuMapping, error) {
	var model models.SkuMappingModel
	if err := r.db.WithContext(ctx).
		Where("connection_id = ? AND external_sku = ?", connectionID, externalSku).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByConnection returns all mappings under a connection
func (r *GormSkuMappingRepository) FindByConnection(ctx context.Context, connectionID uuid.UUID) ([]integration.SkuMapping, error) {
	var mappingModels []models.SkuMappingModel
	if err := r.db.WithContext(ctx).
		Where("connection_id = ?", connectionID).
		Order("external_sku ASC").
		Find(&mappingModels).Error; err != nil {
		return nil, err
	}

	mappings := make([]integration.SkuMapping, len(mappingModels))
	for i, model := range mappingModels {
		mappings[i] = *model.ToDomain()
	}
	return mappings, nil
}

// Save creates or updates a mapping
func (r *GormSkuMappingRepository) Save(ctx context.Context, mapping *integration.SkuMapping) error {
	model := models.SkuMappingModelFromDomain(mapping)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormSkuMappingRepository implements SkuMappingRepository
var _ integration.SkuMappingRepository = (*GormSkuMappingRepository)(nil)

// GormAlternateSkuRepository implements AlternateSkuRepository using GORM
type GormAlternateSkuRepository struct {
	db *gorm.DB
}

// NewGormAlternateSkuRepository creates a new GormAlternateSkuRepository
func NewGormAlternateSkuRepository(db *gorm.DB) *GormAlternateSkuRepository {
	return &GormAlternateSkuRepository{db: db}
}

// FindActive finds the active alias for (sku, channel)
func (r *GormAlternateSkuRepository) FindActive(ctx context.Context, sku string, channel integration.PlatformCode) (*integration.AlternateSku, error) {
	var model models.AlternateSkuModel
	if err := r.db.WithContext(ctx).
		Where("sku = ? AND channel = ? AND is_active = ?", sku, channel, true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates an alias
func (r *GormAlternateSkuRepository) Save(ctx context.Context, alt *integration.AlternateSku) error {
	model := models.AlternateSkuModelFromDomain(alt)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormAlternateSkuRepository implements AlternateSkuRepository
var _ integration.AlternateSkuRepository = (*GormAlternateSkuRepository)(nil)
