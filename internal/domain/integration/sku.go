package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// SkuMapping Entity
// ---------------------------------------------------------------------------

// SkuMapping is an operator-curated mapping from a connection's external SKU
// to an internal catalog SKU. It is the highest-priority source in the SKU
// resolution cascade, and the set of mappings drives inventory push.
type SkuMapping struct {
	// ID is the unique identifier of the mapping
	ID uuid.UUID
	// ConnectionID scopes the mapping to one connection
	ConnectionID uuid.UUID
	// ExternalSku is the SKU as the platform reports it
	ExternalSku string
	// InternalSku is the canonical catalog SKU it maps to
	InternalSku string
	// ExternalProductID is the platform-side product/inventory identifier,
	// used when pushing inventory levels
	ExternalProductID string
	// CreatedAt is when the mapping was created
	CreatedAt time.Time
	// UpdatedAt is when the mapping was last updated
	UpdatedAt time.Time
}

// NewSkuMapping creates a new SKU mapping
func NewSkuMapping(connectionID uuid.UUID, externalSku, internalSku string) (*SkuMapping, error) {
	if connectionID == uuid.Nil {
		return nil, ErrConnectionIDRequired
	}
	if externalSku == "" {
		return nil, ErrExternalSkuRequired
	}
	if internalSku == "" {
		return nil, ErrInternalSkuRequired
	}

	now := time.Now()
	return &SkuMapping{
		ID:           uuid.New(),
		ConnectionID: connectionID,
		ExternalSku:  externalSku,
		InternalSku:  internalSku,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ---------------------------------------------------------------------------
// AlternateSku Entity
// ---------------------------------------------------------------------------

// AlternateSku is a catalog-level SKU alias scoped to a channel type.
// Unlike SkuMapping it is independent of any single connection, and it is
// the second-priority source in the resolution cascade.
type AlternateSku struct {
	// ID is the unique identifier of the alias
	ID uuid.UUID
	// Sku is the alias value as it appears on the channel
	Sku string
	// Channel is the channel type the alias applies to
	Channel PlatformCode
	// ProductID is the internal catalog product the alias points at
	ProductID uuid.UUID
	// IsActive indicates whether the alias participates in resolution
	IsActive bool
	// CreatedAt is when the alias was created
	CreatedAt time.Time
}

// NewAlternateSku creates a new active alternate SKU alias
func NewAlternateSku(sku string, channel PlatformCode, productID uuid.UUID) (*AlternateSku, error) {
	if sku == "" || !channel.IsValid() || productID == uuid.Nil {
		return nil, ErrAlternateSkuIncomplete
	}
	return &AlternateSku{
		ID:        uuid.New(),
		Sku:       sku,
		Channel:   channel,
		ProductID: productID,
		IsActive:  true,
		CreatedAt: time.Now(),
	}, nil
}

// ---------------------------------------------------------------------------
// Repositories
// ---------------------------------------------------------------------------

// SkuMappingRepository defines the persistence port for SKU mappings
type SkuMappingRepository interface {
	// FindByExternalSku finds the mapping for (connectionID, externalSku).
	// Returns (nil, nil) when no mapping exists.
	FindByExternalSku(ctx context.Context, connectionID uuid.UUID, externalSku string) (*SkuMapping, error)

	// FindByConnection returns all mappings under a connection
	FindByConnection(ctx context.Context, connectionID uuid.UUID) ([]SkuMapping, error)

	// Save creates or updates a mapping
	Save(ctx context.Context, mapping *SkuMapping) error
}

// AlternateSkuRepository defines the persistence port for alternate SKUs
type AlternateSkuRepository interface {
	// FindActive finds the active alias for (sku, channel).
	// Returns (nil, nil) when no active alias exists.
	FindActive(ctx context.Context, sku string, channel PlatformCode) (*AlternateSku, error)

	// Save creates or updates an alias
	Save(ctx context.Context, alt *AlternateSku) error
}
