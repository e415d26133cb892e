package sync

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/integration"
)

type runnerFixture struct {
	runner      *SyncRunner
	pf          *pipelineFixture
	connections *MockConnectionRepository
	syncLogs    *MockSyncLogRepository
	stock       *MockStockProvider
	factory     *MockClientFactory
	client      *MockPlatformClient
}

func newRunnerFixture() *runnerFixture {
	f := &runnerFixture{
		pf:          newPipelineFixture(),
		connections: new(MockConnectionRepository),
		syncLogs:    new(MockSyncLogRepository),
		stock:       new(MockStockProvider),
		factory:     new(MockClientFactory),
		client:      new(MockPlatformClient),
	}
	f.runner = NewSyncRunner(
		f.connections, f.pf.mappings, f.pf.products, f.stock,
		f.syncLogs, f.factory, f.pf.pipeline,
		Config{OrderLookback: 7 * 24 * time.Hour}, zap.NewNop(),
	)
	f.syncLogs.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.connections.On("Save", mock.Anything, mock.Anything).Return(nil)
	return f
}

func TestSyncRunner_SyncOrdersMixedOutcomes(t *testing.T) {
	f := newRunnerFixture()
	conn := shopifyConnection()
	product := &catalog.Product{ID: uuid.New(), Sku: "INT-1"}

	f.connections.On("FindByID", mock.Anything, conn.ID).Return(conn, nil)
	f.factory.On("ClientFor", mock.Anything, conn).Return(f.client, nil)

	page := &integration.OrdersPage{Orders: []integration.ExternalOrder{
		*externalOrder("EXT-1", "SKU-1"),
		*externalOrder("EXT-2", "UNKNOWN"),
	}}
	f.client.On("FetchOrdersPage", mock.Anything, mock.Anything, "").Return(page, nil)

	// EXT-1 resolves and imports, EXT-2 resolves nothing and is skipped
	f.pf.imports.On("FindByNaturalKey", mock.Anything, conn.ID, mock.Anything).Return(nil, nil)
	f.pf.imports.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.pf.imports.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.pf.stubResolution(conn, "SKU-1", product)
	f.pf.stubResolution(conn, "UNKNOWN", nil)
	f.pf.orders.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := f.runner.SyncOrders(context.Background(), conn.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 2, result.Total)

	// pass outcome lands on the connection, watermark included
	assert.NotNil(t, conn.LastSyncAt)
	assert.NotNil(t, conn.LastOrderSyncAt)
	assert.Empty(t, conn.LastSyncError)

	// audit trail: IN_PROGRESS then SUCCESS
	require.Len(t, f.syncLogs.Calls, 2)
	first := f.syncLogs.Calls[0].Arguments.Get(1).(*integration.SyncLog)
	last := f.syncLogs.Calls[1].Arguments.Get(1).(*integration.SyncLog)
	assert.Equal(t, integration.SyncLogStatusInProgress, first.Status)
	assert.Equal(t, integration.SyncLogStatusSuccess, last.Status)
	assert.Equal(t, 1, last.RecordsProcessed)
}

func TestSyncRunner_SyncOrdersFollowsCursorChain(t *testing.T) {
	f := newRunnerFixture()
	conn := shopifyConnection()
	product := &catalog.Product{ID: uuid.New(), Sku: "INT-1"}

	f.connections.On("FindByID", mock.Anything, conn.ID).Return(conn, nil)
	f.factory.On("ClientFor", mock.Anything, conn).Return(f.client, nil)

	page1 := &integration.OrdersPage{
		Orders:     []integration.ExternalOrder{*externalOrder("EXT-1", "SKU-1")},
		NextCursor: "page2",
	}
	page2 := &integration.OrdersPage{
		Orders: []integration.ExternalOrder{*externalOrder("EXT-2", "SKU-1")},
	}
	f.client.On("FetchOrdersPage", mock.Anything, mock.Anything, "").Return(page1, nil)
	f.client.On("FetchOrdersPage", mock.Anything, mock.Anything, "page2").Return(page2, nil)

	f.pf.imports.On("FindByNaturalKey", mock.Anything, conn.ID, mock.Anything).Return(nil, nil)
	f.pf.imports.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.pf.imports.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.pf.stubResolution(conn, "SKU-1", product)
	f.pf.orders.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := f.runner.SyncOrders(context.Background(), conn.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 2, result.Total)
	f.client.AssertNumberOfCalls(t, "FetchOrdersPage", 2)
}

func TestSyncRunner_SyncOrdersFetchFailureRecorded(t *testing.T) {
	f := newRunnerFixture()
	conn := shopifyConnection()

	f.connections.On("FindByID", mock.Anything, conn.ID).Return(conn, nil)
	f.factory.On("ClientFor", mock.Anything, conn).Return(f.client, nil)
	f.client.On("FetchOrdersPage", mock.Anything, mock.Anything, "").
		Return(nil, integration.NewAPIError(integration.PlatformCodeShopify, 500, "server error"))

	_, err := f.runner.SyncOrders(context.Background(), conn.ID)
	require.Error(t, err)

	assert.NotEmpty(t, conn.LastSyncError)
	last := f.syncLogs.Calls[len(f.syncLogs.Calls)-1].Arguments.Get(1).(*integration.SyncLog)
	assert.Equal(t, integration.SyncLogStatusFailed, last.Status)
	assert.NotEmpty(t, last.ErrorMessage)
}

func TestSyncRunner_SyncOrdersInactiveConnection(t *testing.T) {
	f := newRunnerFixture()
	conn := shopifyConnection()
	conn.IsActive = false

	f.connections.On("FindByID", mock.Anything, conn.ID).Return(conn, nil)

	_, err := f.runner.SyncOrders(context.Background(), conn.ID)
	assert.ErrorIs(t, err, integration.ErrConnectionInactive)
	f.factory.AssertNotCalled(t, "ClientFor", mock.Anything, mock.Anything)
}

func TestSyncRunner_SyncOrdersSinceUsesOrderWatermark(t *testing.T) {
	f := newRunnerFixture()
	conn := shopifyConnection()
	watermark := time.Now().Add(-2 * time.Hour)
	conn.LastOrderSyncAt = &watermark
	stamp := time.Now().Add(-5 * time.Minute)
	conn.LastSyncAt = &stamp // inventory push or deep check touched the platform since

	f.connections.On("FindByID", mock.Anything, conn.ID).Return(conn, nil)
	f.factory.On("ClientFor", mock.Anything, conn).Return(f.client, nil)
	f.client.On("FetchOrdersPage", mock.Anything, mock.Anything, "").
		Return(&integration.OrdersPage{}, nil)

	_, err := f.runner.SyncOrders(context.Background(), conn.ID)
	require.NoError(t, err)

	since := f.client.Calls[0].Arguments.Get(1).(time.Time)
	assert.WithinDuration(t, watermark, since, time.Second,
		"the order watermark drives since, not the last platform touch")
}

func TestSyncRunner_SyncOrdersIgnoresNonOrderStamps(t *testing.T) {
	f := newRunnerFixture()
	conn := shopifyConnection()
	stamp := time.Now() // never order-synced, but a health check just stamped it
	conn.LastSyncAt = &stamp

	f.connections.On("FindByID", mock.Anything, conn.ID).Return(conn, nil)
	f.factory.On("ClientFor", mock.Anything, conn).Return(f.client, nil)
	f.client.On("FetchOrdersPage", mock.Anything, mock.Anything, "").
		Return(&integration.OrdersPage{}, nil)

	_, err := f.runner.SyncOrders(context.Background(), conn.ID)
	require.NoError(t, err)

	since := f.client.Calls[0].Arguments.Get(1).(time.Time)
	assert.WithinDuration(t, time.Now().Add(-7*24*time.Hour), since, time.Minute)
}

func TestSyncRunner_SyncAllOrdersIsolatesFailures(t *testing.T) {
	f := newRunnerFixture()
	bad := *shopifyConnection()
	good := *shopifyConnection()
	carrier := integration.Connection{ID: uuid.New(), Platform: integration.PlatformCodeRoyalMail, IsActive: true}

	f.connections.On("FindActive", mock.Anything).Return([]integration.Connection{bad, carrier, good}, nil)
	f.connections.On("FindByID", mock.Anything, bad.ID).Return(&bad, nil)
	f.connections.On("FindByID", mock.Anything, good.ID).Return(&good, nil)

	// first connection cannot even build a client
	f.factory.On("ClientFor", mock.Anything, &bad).Return(nil, integration.ErrCredentialDecrypt)
	f.factory.On("ClientFor", mock.Anything, &good).Return(f.client, nil)
	f.client.On("FetchOrdersPage", mock.Anything, mock.Anything, "").
		Return(&integration.OrdersPage{}, nil)

	f.runner.SyncAllOrders(context.Background())

	// the failing connection did not stop the sweep, carriers were skipped
	f.client.AssertNumberOfCalls(t, "FetchOrdersPage", 1)
	f.connections.AssertNotCalled(t, "FindByID", mock.Anything, carrier.ID)
}

func TestSyncRunner_SyncInventory(t *testing.T) {
	f := newRunnerFixture()
	conn := shopifyConnection()
	productID := uuid.New()

	f.connections.On("FindByID", mock.Anything, conn.ID).Return(conn, nil)
	f.factory.On("ClientFor", mock.Anything, conn).Return(f.client, nil)
	f.pf.mappings.On("FindByConnection", mock.Anything, conn.ID).Return([]integration.SkuMapping{
		{ConnectionID: conn.ID, ExternalSku: "EXT-1", InternalSku: "INT-1", ExternalProductID: "100:200"},
		{ConnectionID: conn.ID, ExternalSku: "EXT-GONE", InternalSku: "GONE"},
	}, nil)
	f.pf.products.On("FindBySku", mock.Anything, "INT-1").
		Return(&catalog.Product{ID: productID, Sku: "INT-1"}, nil)
	f.pf.products.On("FindBySku", mock.Anything, "GONE").Return(nil, nil)
	f.stock.On("AvailableQuantity", mock.Anything, productID).Return(42, nil)
	f.client.On("PushInventory", mock.Anything, mock.Anything).Return(nil)

	result, err := f.runner.SyncInventory(context.Background(), conn.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Pushed)
	assert.Equal(t, 1, result.Unmapped)
	assert.Equal(t, 0, result.Errors)

	f.client.AssertNumberOfCalls(t, "PushInventory", 1)
	level := f.client.Calls[0].Arguments.Get(1).(integration.InventoryLevel)
	assert.Equal(t, "EXT-1", level.ExternalSku)
	assert.Equal(t, 42, level.Quantity)
}

func TestSyncRunner_SyncInventoryIsolatesItemFailures(t *testing.T) {
	f := newRunnerFixture()
	conn := shopifyConnection()

	mappings := make([]integration.SkuMapping, 0, 5)
	for i := 1; i <= 5; i++ {
		sku := fmt.Sprintf("INT-%d", i)
		productID := uuid.New()
		mappings = append(mappings, integration.SkuMapping{
			ConnectionID:      conn.ID,
			ExternalSku:       fmt.Sprintf("EXT-%d", i),
			InternalSku:       sku,
			ExternalProductID: fmt.Sprintf("100:%d", 200+i),
		})
		f.pf.products.On("FindBySku", mock.Anything, sku).
			Return(&catalog.Product{ID: productID, Sku: sku}, nil)
		f.stock.On("AvailableQuantity", mock.Anything, productID).Return(i, nil)
	}

	f.connections.On("FindByID", mock.Anything, conn.ID).Return(conn, nil)
	f.factory.On("ClientFor", mock.Anything, conn).Return(f.client, nil)
	f.pf.mappings.On("FindByConnection", mock.Anything, conn.ID).Return(mappings, nil)

	// the third item is rejected, the rest still go out
	f.client.On("PushInventory", mock.Anything, mock.MatchedBy(func(l integration.InventoryLevel) bool {
		return l.ExternalSku == "EXT-3"
	})).Return(integration.NewAPIError(integration.PlatformCodeShopify, 422, "item rejected"))
	f.client.On("PushInventory", mock.Anything, mock.Anything).Return(nil)

	result, err := f.runner.SyncInventory(context.Background(), conn.ID)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Pushed)
	assert.Equal(t, 1, result.Errors)
	assert.Equal(t, 0, result.Unmapped)
	f.client.AssertNumberOfCalls(t, "PushInventory", 5)
}
