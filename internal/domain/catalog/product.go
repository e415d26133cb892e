package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrProductNotFound indicates the product does not exist
	ErrProductNotFound = errors.New("catalog: product not found")
	// ErrSkuRequired indicates an empty SKU was supplied
	ErrSkuRequired = errors.New("catalog: SKU is required")
)

// Product is the read model of a warehouse catalog product. The catalog is
// owned by a collaborator system; this package only needs the identity, the
// canonical SKU and the per-channel SKU columns used during resolution.
type Product struct {
	// ID is the unique identifier of the product
	ID uuid.UUID
	// Sku is the canonical warehouse SKU
	Sku string
	// Name is the product display name
	Name string
	// Price is the default unit price
	Price decimal.Decimal
	// FfdSku is the Shopify storefront SKU
	FfdSku string
	// WsSku is the Shopify wholesale SKU
	WsSku string
	// AmzSku is the Amazon FBA SKU
	AmzSku string
	// AmzSkuM is the Amazon merchant-fulfilled SKU
	AmzSkuM string
	// AmzSkuBb is the Amazon FBA secondary-account SKU
	AmzSkuBb string
	// AmzSkuEu is the Amazon EU SKU
	AmzSkuEu string
	// IsActive indicates whether the product is sellable
	IsActive bool
	// CreatedAt is when the product was created
	CreatedAt time.Time
	// UpdatedAt is when the product was last updated
	UpdatedAt time.Time
}

// ProductRepository defines the read port onto the catalog
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySku finds a product by its canonical SKU.
	// Returns (nil, nil) when no product matches.
	FindBySku(ctx context.Context, sku string) (*Product, error)

	// FindByChannelField finds a product whose channel SKU column equals sku.
	// field names one of the per-channel columns (ffd_sku, ws_sku, amz_sku,
	// amz_sku_m, amz_sku_bb, amz_sku_eu). Returns (nil, nil) when no product
	// matches.
	FindByChannelField(ctx context.Context, field, sku string) (*Product, error)
}
