package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/integration"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormAlertRecordRepository implements AlertRecordRepository using GORM
type GormAlertRecordRepository struct {
	db *gorm.DB
}

// NewGormAlertRecordRepository creates a new GormAlertRecordRepository
func NewGormAlertRecordRepository(db *gorm.DB) *GormAlertRecordRepository {
	return &GormAlertRecordRepository{db: db}
}

// Append persists a dispatched alert
func (r *GormAlertRecordRepository) Append(ctx context.Context, record *integration.AlertRecord) error {
	model := models.AlertRecordModelFromDomain(record)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindRecent returns up to limit records, newest first
func (r *GormAlertRecordRepository) FindRecent(ctx context.Context, limit int) ([]integration.AlertRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	var recordModels []models.AlertRecordModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]integration.AlertRecord, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// Ensure GormAlertRecordRepository implements AlertRecordRepository
var _ integration.AlertRecordRepository = (*GormAlertRecordRepository)(nil)
