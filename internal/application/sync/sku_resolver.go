package sync

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/integration"
)

// SkuResolver maps platform-side SKUs to catalog products through a fixed
// priority cascade:
//  1. connection-scoped SKU mapping (operator-curated, wins always)
//  2. active alternate SKU alias for the channel type
//  3. the channel's catalog SKU column, when the channel has one
//  4. the raw SKU matched against the canonical catalog SKU
//
// A SKU no tier resolves is a business outcome, not an error: Resolve
// returns (nil, nil) and the caller decides what an unresolved line means.
type SkuResolver struct {
	mappings  integration.SkuMappingRepository
	alternate integration.AlternateSkuRepository
	products  catalog.ProductRepository
	logger    *zap.Logger
}

// NewSkuResolver creates a SKU resolver
func NewSkuResolver(
	mappings integration.SkuMappingRepository,
	alternate integration.AlternateSkuRepository,
	products catalog.ProductRepository,
	logger *zap.Logger,
) *SkuResolver {
	return &SkuResolver{
		mappings:  mappings,
		alternate: alternate,
		products:  products,
		logger:    logger,
	}
}

// Resolve finds the catalog product for an external SKU arriving through the
// given connection. Infrastructure failures propagate as errors; a miss on
// every tier returns (nil, nil).
func (r *SkuResolver) Resolve(ctx context.Context, conn *integration.Connection, externalSku string) (*catalog.Product, error) {
	if externalSku == "" {
		return nil, nil
	}

	// Tier 1: connection-scoped mapping
	mapping, err := r.mappings.FindByExternalSku(ctx, conn.ID, externalSku)
	if err != nil {
		return nil, err
	}
	if mapping != nil {
		product, err := r.products.FindBySku(ctx, mapping.InternalSku)
		if err != nil {
			return nil, err
		}
		if product != nil {
			return product, nil
		}
		// A mapping pointing at a missing product is stale data; fall
		// through so the remaining tiers still get a chance.
		r.logger.Warn("sku mapping points at unknown product",
			zap.String("connection_id", conn.ID.String()),
			zap.String("external_sku", externalSku),
			zap.String("internal_sku", mapping.InternalSku))
	}

	// Tier 2: alternate SKU alias for the channel
	alt, err := r.alternate.FindActive(ctx, externalSku, conn.Platform)
	if err != nil {
		return nil, err
	}
	if alt != nil {
		product, err := r.products.FindByID(ctx, alt.ProductID)
		if err == nil && product != nil {
			return product, nil
		}
		if err != nil && !errors.Is(err, catalog.ErrProductNotFound) {
			return nil, err
		}
	}

	// Tier 3: the channel's catalog SKU column
	if field := conn.Platform.CatalogField(); field != "" {
		product, err := r.products.FindByChannelField(ctx, field, externalSku)
		if err != nil {
			return nil, err
		}
		if product != nil {
			return product, nil
		}
	}

	// Tier 4: direct canonical SKU
	product, err := r.products.FindBySku(ctx, externalSku)
	if err != nil {
		return nil, err
	}
	return product, nil
}
