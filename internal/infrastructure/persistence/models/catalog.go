package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/order"
)

// ProductModel is the persistence model for the catalog Product read model.
// The per-channel SKU columns back the third tier of SKU resolution.
type ProductModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	Sku       string          `gorm:"type:varchar(100);not null;uniqueIndex:uniq_products_sku"`
	Name      string          `gorm:"type:varchar(255);not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	FfdSku    string          `gorm:"type:varchar(100);index:idx_products_ffd_sku"`
	WsSku     string          `gorm:"type:varchar(100);index:idx_products_ws_sku"`
	AmzSku    string          `gorm:"type:varchar(100);index:idx_products_amz_sku"`
	AmzSkuM   string          `gorm:"type:varchar(100);index:idx_products_amz_sku_m"`
	AmzSkuBb  string          `gorm:"type:varchar(100);index:idx_products_amz_sku_bb"`
	AmzSkuEu  string          `gorm:"type:varchar(100);index:idx_products_amz_sku_eu"`
	IsActive  bool            `gorm:"not null;default:true"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		ID:        m.ID,
		Sku:       m.Sku,
		Name:      m.Name,
		Price:     m.Price,
		FfdSku:    m.FfdSku,
		WsSku:     m.WsSku,
		AmzSku:    m.AmzSku,
		AmzSkuM:   m.AmzSkuM,
		AmzSkuBb:  m.AmzSkuBb,
		AmzSkuEu:  m.AmzSkuEu,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// OrderModel is the persistence model for the internal Order entity.
type OrderModel struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key"`
	OrderNumber   string           `gorm:"type:varchar(100);not null;index:idx_orders_number"`
	Source        order.Source     `gorm:"type:varchar(20);not null"`
	ConnectionID  *uuid.UUID       `gorm:"type:uuid;index:idx_orders_connection"`
	CustomerEmail string           `gorm:"type:varchar(255)"`
	Currency      string           `gorm:"type:varchar(3);not null"`
	TotalPrice    decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	Lines         []OrderLineModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PlacedAt      time.Time        `gorm:"not null"`
	CreatedAt     time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderLineModel is the persistence model for one order line.
type OrderLineModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_order_lines_order"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Sku       string          `gorm:"type:varchar(100);not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		ID:            m.ID,
		OrderNumber:   m.OrderNumber,
		Source:        m.Source,
		ConnectionID:  m.ConnectionID,
		CustomerEmail: m.CustomerEmail,
		Currency:      m.Currency,
		TotalPrice:    m.TotalPrice,
		Lines:         make([]order.OrderLine, 0, len(m.Lines)),
		PlacedAt:      m.PlacedAt,
		CreatedAt:     m.CreatedAt,
	}
	for _, line := range m.Lines {
		o.Lines = append(o.Lines, order.OrderLine{
			ID:        line.ID,
			ProductID: line.ProductID,
			Sku:       line.Sku,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return o
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		Source:        o.Source,
		ConnectionID:  o.ConnectionID,
		CustomerEmail: o.CustomerEmail,
		Currency:      o.Currency,
		TotalPrice:    o.TotalPrice,
		Lines:         make([]OrderLineModel, 0, len(o.Lines)),
		PlacedAt:      o.PlacedAt,
		CreatedAt:     o.CreatedAt,
	}
	for _, line := range o.Lines {
		m.Lines = append(m.Lines, OrderLineModel{
			ID:        line.ID,
			OrderID:   o.ID,
			ProductID: line.ProductID,
			Sku:       line.Sku,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return m
}
