package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/integration"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormSyncLogRepository implements SyncLogRepository using GORM
type GormSyncLogRepository struct {
	db *gorm.DB
}

// NewGormSyncLogRepository creates a new GormSyncLogRepository
func NewGormSyncLogRepository(db *gorm.DB) *GormSyncLogRepository {
	return &GormSyncLogRepository{db: db}
}

// Append persists a new log entry
func (r *GormSyncLogRepository) Append(ctx context.Context, entry *integration.SyncLog) error {
	model := models.SyncLogModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindRecent returns up to limit entries for a connection recorded at or
// after since, newest first
func (r *GormSyncLogRepository) FindRecent(ctx context.Context, connectionID uuid.UUID, since time.Time, limit int) ([]integration.SyncLog, error) {
	var logModels []models.SyncLogModel
	query := r.db.WithContext(ctx).
		Where("connection_id = ? AND started_at >= ?", connectionID, since).
		Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&logModels).Error; err != nil {
		return nil, err
	}

	logs := make([]integration.SyncLog, len(logModels))
	for i, model := range logModels {
		logs[i] = *model.ToDomain()
	}
	return logs, nil
}

// Ensure GormSyncLogRepository implements SyncLogRepository
var _ integration.SyncLogRepository = (*GormSyncLogRepository)(nil)
