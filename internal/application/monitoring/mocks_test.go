package monitoring

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/wms/backend/internal/domain/integration"
)

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

// MockNotificationChannel is a mock implementation of NotificationChannel
type MockNotificationChannel struct {
	mock.Mock
	name string
}

func NewMockNotificationChannel(name string) *MockNotificationChannel {
	return &MockNotificationChannel{name: name}
}

func (m *MockNotificationChannel) Name() string {
	return m.name
}

func (m *MockNotificationChannel) Send(ctx context.Context, alert *integration.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

var _ integration.NotificationChannel = (*MockNotificationChannel)(nil)

// MockThrottleStore is a mock implementation of ThrottleStore
type MockThrottleStore struct {
	mock.Mock
}

func (m *MockThrottleStore) ShouldSend(ctx context.Context, fingerprint string, window time.Duration) (bool, error) {
	args := m.Called(ctx, fingerprint, window)
	return args.Bool(0), args.Error(1)
}

var _ integration.ThrottleStore = (*MockThrottleStore)(nil)

// MockAlertRecordRepository is a mock implementation of AlertRecordRepository
type MockAlertRecordRepository struct {
	mock.Mock
}

func (m *MockAlertRecordRepository) Append(ctx context.Context, record *integration.AlertRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAlertRecordRepository) FindRecent(ctx context.Context, limit int) ([]integration.AlertRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.AlertRecord), args.Error(1)
}

var _ integration.AlertRecordRepository = (*MockAlertRecordRepository)(nil)
