package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/integration"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormOrderImportRepository implements OrderImportRepository using GORM
type GormOrderImportRepository struct {
	db *gorm.DB
}

// NewGormOrderImportRepository creates a new GormOrderImportRepository
func NewGormOrderImportRepository(db *gorm.DB) *GormOrderImportRepository {
	return &GormOrderImportRepository{db: db}
}

// Create persists a new record. A violation of the
// (connection_id, external_order_id) unique index becomes
// ErrImportRecordExists so concurrent sync passes racing on the same order
// resolve to exactly one winner.
func (r *GormOrderImportRepository) Create(ctx context.Context, record *integration.OrderImportRecord) error {
	model := models.OrderImportModelFromDomain(record)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateKeyError(err) {
			return integration.ErrImportRecordExists
		}
		return err
	}
	return nil
}

// FindByNaturalKey finds a record by (connectionID, externalOrderID)
func (r *GormOrderImportRepository) FindByNaturalKey(ctx context.Context, connectionID uuid.UUID, externalOrderID string) (*integration.OrderImportRecord, error) {
	var model models.OrderImportModel
	if err := r.db.WithContext(ctx).
		Where("connection_id = ? AND external_order_id = ?", connectionID, externalOrderID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Update persists status transitions on an existing record
func (r *GormOrderImportRepository) Update(ctx context.Context, record *integration.OrderImportRecord) error {
	model := models.OrderImportModelFromDomain(record)
	result := r.db.WithContext(ctx).Model(&models.OrderImportModel{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"status":            model.Status,
			"internal_order_id": model.InternalOrderID,
			"error_message":     model.ErrorMessage,
			"updated_at":        model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return integration.ErrImportRecordNotFound
	}
	return nil
}

// isDuplicateKeyError recognizes unique constraint violations across the
// dialects used here (postgres in production, sqlite in tests)
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

// Ensure GormOrderImportRepository implements OrderImportRepository
var _ integration.OrderImportRepository = (*GormOrderImportRepository)(nil)
