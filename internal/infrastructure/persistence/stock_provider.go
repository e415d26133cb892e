package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/integration"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormStockProvider implements StockProvider by summing stock levels across
// warehouse locations
type GormStockProvider struct {
	db *gorm.DB
}

// NewGormStockProvider creates a new GormStockProvider
func NewGormStockProvider(db *gorm.DB) *GormStockProvider {
	return &GormStockProvider{db: db}
}

// AvailableQuantity returns the sellable quantity for a catalog product.
// A product with no stock rows has quantity zero, not an error.
func (p *GormStockProvider) AvailableQuantity(ctx context.Context, productID uuid.UUID) (int, error) {
	var total int64
	err := p.db.WithContext(ctx).
		Model(&models.StockLevelModel{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

// Ensure GormStockProvider implements StockProvider
var _ integration.StockProvider = (*GormStockProvider)(nil)
