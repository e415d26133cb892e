package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/integration"
	"github.com/wms/backend/internal/domain/order"
)

type pipelineFixture struct {
	pipeline  *OrderImportPipeline
	imports   *MockOrderImportRepository
	orders    *MockOrderRepository
	mappings  *MockSkuMappingRepository
	alternate *MockAlternateSkuRepository
	products  *MockProductRepository
}

func newPipelineFixture() *pipelineFixture {
	f := &pipelineFixture{
		imports:   new(MockOrderImportRepository),
		orders:    new(MockOrderRepository),
		mappings:  new(MockSkuMappingRepository),
		alternate: new(MockAlternateSkuRepository),
		products:  new(MockProductRepository),
	}
	resolver := NewSkuResolver(f.mappings, f.alternate, f.products, zap.NewNop())
	f.pipeline = NewOrderImportPipeline(f.imports, f.orders, resolver, zap.NewNop())
	return f
}

// stubResolution wires the full cascade to resolve sku to product (or miss
// every tier when product is nil)
func (f *pipelineFixture) stubResolution(conn *integration.Connection, sku string, product *catalog.Product) {
	f.mappings.On("FindByExternalSku", mock.Anything, conn.ID, sku).Return(nil, nil)
	f.alternate.On("FindActive", mock.Anything, sku, conn.Platform).Return(nil, nil)
	if field := conn.Platform.CatalogField(); field != "" {
		f.products.On("FindByChannelField", mock.Anything, field, sku).Return(nil, nil)
	}
	if product != nil {
		f.products.On("FindBySku", mock.Anything, sku).Return(product, nil)
	} else {
		f.products.On("FindBySku", mock.Anything, sku).Return(nil, nil)
	}
}

func externalOrder(id string, skus ...string) *integration.ExternalOrder {
	ext := &integration.ExternalOrder{
		ExternalID:    id,
		OrderNumber:   "#" + id,
		CustomerEmail: "buyer@example.com",
		Currency:      "GBP",
		TotalPrice:    decimal.NewFromInt(30),
		PlacedAt:      time.Now(),
		Raw:           []byte(`{"id":"` + id + `"}`),
	}
	for _, sku := range skus {
		ext.Lines = append(ext.Lines, integration.ExternalLineItem{
			Sku:       sku,
			Quantity:  1,
			UnitPrice: decimal.NewFromInt(10),
		})
	}
	return ext
}

func TestOrderImportPipeline_CreatesOrder(t *testing.T) {
	f := newPipelineFixture()
	conn := shopifyConnection()
	product := &catalog.Product{ID: uuid.New(), Sku: "INT-1"}

	f.imports.On("FindByNaturalKey", mock.Anything, conn.ID, "EXT-1").Return(nil, nil)
	f.imports.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.stubResolution(conn, "SKU-1", product)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.imports.On("Update", mock.Anything, mock.Anything).Return(nil)

	outcome, err := f.pipeline.Import(context.Background(), conn, externalOrder("EXT-1", "SKU-1"))
	require.NoError(t, err)
	assert.Equal(t, ImportOutcomeCreated, outcome)

	created := f.orders.Calls[0].Arguments.Get(1).(*order.Order)
	assert.Equal(t, order.SourceIntegration, created.Source)
	require.Len(t, created.Lines, 1)
	assert.Equal(t, "INT-1", created.Lines[0].Sku)

	updated := f.imports.Calls[2].Arguments.Get(1).(*integration.OrderImportRecord)
	assert.Equal(t, integration.ImportStatusImported, updated.Status)
	require.NotNil(t, updated.InternalOrderID)
	assert.Equal(t, created.ID, *updated.InternalOrderID)
}

func TestOrderImportPipeline_SkipsWhenNoLineResolves(t *testing.T) {
	f := newPipelineFixture()
	conn := shopifyConnection()

	f.imports.On("FindByNaturalKey", mock.Anything, conn.ID, "EXT-2").Return(nil, nil)
	f.imports.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.stubResolution(conn, "UNKNOWN", nil)
	f.imports.On("Update", mock.Anything, mock.Anything).Return(nil)

	outcome, err := f.pipeline.Import(context.Background(), conn, externalOrder("EXT-2", "UNKNOWN"))
	require.NoError(t, err)
	assert.Equal(t, ImportOutcomeSkipped, outcome)

	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	updated := f.imports.Calls[2].Arguments.Get(1).(*integration.OrderImportRecord)
	assert.Equal(t, integration.ImportStatusSkipped, updated.Status)
}

func TestOrderImportPipeline_DuplicateIsIdempotent(t *testing.T) {
	f := newPipelineFixture()
	conn := shopifyConnection()

	existing, err := integration.NewOrderImportRecord(conn.ID, "EXT-3", nil)
	require.NoError(t, err)
	require.NoError(t, existing.MarkSkipped())

	f.imports.On("FindByNaturalKey", mock.Anything, conn.ID, "EXT-3").Return(existing, nil)

	outcome, err := f.pipeline.Import(context.Background(), conn, externalOrder("EXT-3", "SKU-1"))
	require.NoError(t, err)
	assert.Equal(t, ImportOutcomeAlreadyExists, outcome)

	// a terminal record is never reprocessed or reopened
	f.imports.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.imports.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderImportPipeline_LosingCreateRaceIsIdempotent(t *testing.T) {
	f := newPipelineFixture()
	conn := shopifyConnection()

	f.imports.On("FindByNaturalKey", mock.Anything, conn.ID, "EXT-4").Return(nil, nil)
	f.imports.On("Create", mock.Anything, mock.Anything).Return(integration.ErrImportRecordExists)

	outcome, err := f.pipeline.Import(context.Background(), conn, externalOrder("EXT-4", "SKU-1"))
	require.NoError(t, err)
	assert.Equal(t, ImportOutcomeAlreadyExists, outcome)
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderImportPipeline_OrderCreateFailureMarksFailed(t *testing.T) {
	f := newPipelineFixture()
	conn := shopifyConnection()
	product := &catalog.Product{ID: uuid.New(), Sku: "INT-1"}

	f.imports.On("FindByNaturalKey", mock.Anything, conn.ID, "EXT-5").Return(nil, nil)
	f.imports.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.stubResolution(conn, "SKU-1", product)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))
	f.imports.On("Update", mock.Anything, mock.Anything).Return(nil)

	outcome, err := f.pipeline.Import(context.Background(), conn, externalOrder("EXT-5", "SKU-1"))
	require.NoError(t, err)
	assert.Equal(t, ImportOutcomeFailed, outcome)

	updated := f.imports.Calls[2].Arguments.Get(1).(*integration.OrderImportRecord)
	assert.Equal(t, integration.ImportStatusFailed, updated.Status)
	assert.Contains(t, updated.ErrorMessage, "insert failed")
}

func TestOrderImportPipeline_MissingExternalID(t *testing.T) {
	f := newPipelineFixture()

	outcome, err := f.pipeline.Import(context.Background(), shopifyConnection(), externalOrder("", "SKU-1"))
	assert.ErrorIs(t, err, integration.ErrExternalOrderInvalid)
	assert.Equal(t, ImportOutcomeFailed, outcome)
}
