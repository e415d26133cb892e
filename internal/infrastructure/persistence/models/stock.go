package models

import (
	"time"

	"github.com/google/uuid"
)

// StockLevelModel is the read-only view onto warehouse stock. The table is
// owned and written by the warehouse operations system; the sync engine only
// sums it for inventory push.
type StockLevelModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index:idx_stock_levels_product"`
	Location  string    `gorm:"type:varchar(50);not null"`
	Quantity  int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockLevelModel) TableName() string {
	return "stock_levels"
}
