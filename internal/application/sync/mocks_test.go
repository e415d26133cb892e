package sync

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/integration"
	"github.com/wms/backend/internal/domain/order"
)

// MockSkuMappingRepository is a mock implementation of SkuMappingRepository
type MockSkuMappingRepository struct {
	mock.Mock
}

func (m *MockSkuMappingRepository) FindByExternalSku(ctx context.Context, connectionID uuid.UUID, externalSku string) (*integration.SkuMapping, error) {
	args := m.Called(ctx, connectionID, externalSku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.SkuMapping), args.Error(1)
}

func (m *MockSkuMappingRepository) FindByConnection(ctx context.Context, connectionID uuid.UUID) ([]integration.SkuMapping, error) {
	args := m.Called(ctx, connectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.SkuMapping), args.Error(1)
}

func (m *MockSkuMappingRepository) Save(ctx context.Context, mapping *integration.SkuMapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

var _ integration.SkuMappingRepository = (*MockSkuMappingRepository)(nil)

// MockAlternateSkuRepository is a mock implementation of AlternateSkuRepository
type MockAlternateSkuRepository struct {
	mock.Mock
}

func (m *MockAlternateSkuRepository) FindActive(ctx context.Context, sku string, channel integration.PlatformCode) (*integration.AlternateSku, error) {
	args := m.Called(ctx, sku, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.AlternateSku), args.Error(1)
}

func (m *MockAlternateSkuRepository) Save(ctx context.Context, alt *integration.AlternateSku) error {
	args := m.Called(ctx, alt)
	return args.Error(0)
}

var _ integration.AlternateSkuRepository = (*MockAlternateSkuRepository)(nil)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySku(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByChannelField(ctx context.Context, field, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, field, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

var _ catalog.ProductRepository = (*MockProductRepository)(nil)

// MockOrderImportRepository is a mock implementation of OrderImportRepository
type MockOrderImportRepository struct {
	mock.Mock
}

func (m *MockOrderImportRepository) Create(ctx context.Context, record *integration.OrderImportRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockOrderImportRepository) FindByNaturalKey(ctx context.Context, connectionID uuid.UUID, externalOrderID string) (*integration.OrderImportRecord, error) {
	args := m.Called(ctx, connectionID, externalOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.OrderImportRecord), args.Error(1)
}

func (m *MockOrderImportRepository) Update(ctx context.Context, record *integration.OrderImportRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

var _ integration.OrderImportRepository = (*MockOrderImportRepository)(nil)

// MockOrderRepository is a mock implementation of order.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

var _ order.OrderRepository = (*MockOrderRepository)(nil)

// MockConnectionRepository is a mock implementation of ConnectionRepository
type MockConnectionRepository struct {
	mock.Mock
}

func (m *MockConnectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*integration.Connection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.Connection), args.Error(1)
}

func (m *MockConnectionRepository) FindActive(ctx context.Context) ([]integration.Connection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.Connection), args.Error(1)
}

func (m *MockConnectionRepository) FindActiveWithTokenExpiry(ctx context.Context) ([]integration.Connection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.Connection), args.Error(1)
}

func (m *MockConnectionRepository) Save(ctx context.Context, conn *integration.Connection) error {
	args := m.Called(ctx, conn)
	return args.Error(0)
}

var _ integration.ConnectionRepository = (*MockConnectionRepository)(nil)

// MockSyncLogRepository is a mock implementation of SyncLogRepository
type MockSyncLogRepository struct {
	mock.Mock
}

func (m *MockSyncLogRepository) Append(ctx context.Context, entry *integration.SyncLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockSyncLogRepository) FindRecent(ctx context.Context, connectionID uuid.UUID, since time.Time, limit int) ([]integration.SyncLog, error) {
	args := m.Called(ctx, connectionID, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.SyncLog), args.Error(1)
}

var _ integration.SyncLogRepository = (*MockSyncLogRepository)(nil)

// MockStockProvider is a mock implementation of StockProvider
type MockStockProvider struct {
	mock.Mock
}

func (m *MockStockProvider) AvailableQuantity(ctx context.Context, productID uuid.UUID) (int, error) {
	args := m.Called(ctx, productID)
	return args.Int(0), args.Error(1)
}

var _ integration.StockProvider = (*MockStockProvider)(nil)

// MockPlatformClient is a mock implementation of PlatformClient
type MockPlatformClient struct {
	mock.Mock
}

func (m *MockPlatformClient) Platform() integration.PlatformCode {
	args := m.Called()
	return args.Get(0).(integration.PlatformCode)
}

func (m *MockPlatformClient) TestConnection(ctx context.Context) (*integration.ConnectionTestResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.ConnectionTestResult), args.Error(1)
}

func (m *MockPlatformClient) FetchOrdersPage(ctx context.Context, since time.Time, cursor string) (*integration.OrdersPage, error) {
	args := m.Called(ctx, since, cursor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.OrdersPage), args.Error(1)
}

func (m *MockPlatformClient) PushInventory(ctx context.Context, level integration.InventoryLevel) error {
	args := m.Called(ctx, level)
	return args.Error(0)
}

func (m *MockPlatformClient) CreateFulfillment(ctx context.Context, req *integration.FulfillmentRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

var _ integration.PlatformClient = (*MockPlatformClient)(nil)

// MockClientFactory is a mock implementation of ClientFactory
type MockClientFactory struct {
	mock.Mock
}

func (m *MockClientFactory) ClientFor(ctx context.Context, conn *integration.Connection) (integration.PlatformClient, error) {
	args := m.Called(ctx, conn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(integration.PlatformClient), args.Error(1)
}

var _ integration.ClientFactory = (*MockClientFactory)(nil)
