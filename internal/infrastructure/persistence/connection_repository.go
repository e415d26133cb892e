package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/integration"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormConnectionRepository implements ConnectionRepository using GORM
type GormConnectionRepository struct {
	db *gorm.DB
}

// NewGormConnectionRepository creates a new GormConnectionRepository
func NewGormConnectionRepository(db *gorm.DB) *GormConnectionRepository {
	return &GormConnectionRepository{db: db}
}

// FindByID finds a connection by its ID
func (r *GormConnectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*integration.Connection, error) {
	var model models.ConnectionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrConnectionNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActive returns all active connections
func (r *GormConnectionRepository) FindActive(ctx context.Context) ([]integration.Connection, error) {
	var connectionModels []models.ConnectionModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&connectionModels).Error; err != nil {
		return nil, err
	}

	connections := make([]integration.Connection, len(connectionModels))
	for i, model := range connectionModels {
		connections[i] = *model.ToDomain()
	}
	return connections, nil
}

// FindActiveWithTokenExpiry returns active connections that track a token expiry timestamp
func (r *GormConnectionRepository) FindActiveWithTokenExpiry(ctx context.Context) ([]integration.Connection, error) {
	var connectionModels []models.ConnectionModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND token_expires_at IS NOT NULL", true).
		Order("token_expires_at ASC").
		Find(&connectionModels).Error; err != nil {
		return nil, err
	}

	connections := make([]integration.Connection, len(connectionModels))
	for i, model := range connectionModels {
		connections[i] = *model.ToDomain()
	}
	return connections, nil
}

// Save creates or updates a connection
func (r *GormConnectionRepository) Save(ctx context.Context, conn *integration.Connection) error {
	model := models.ConnectionModelFromDomain(conn)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormConnectionRepository implements ConnectionRepository
var _ integration.ConnectionRepository = (*GormConnectionRepository)(nil)
