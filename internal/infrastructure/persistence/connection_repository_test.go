package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/integration"
)

// newMockConnectionRepository creates a GormConnectionRepository with a mocked SQL connection
func newMockConnectionRepository(t *testing.T) (*GormConnectionRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormConnectionRepository(gormDB), mock, mockDB
}

func TestGormConnectionRepository_FindByID(t *testing.T) {
	t.Run("finds existing connection", func(t *testing.T) {
		repo, mock, mockDB := newMockConnectionRepository(t)
		defer mockDB.Close()

		connID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{
			"id", "platform", "account_name", "credential_blob",
			"is_active", "token_expires_at", "last_sync_at", "last_sync_error",
			"created_at", "updated_at",
		}).AddRow(
			connID, "SHOPIFY", "Shopify Main", []byte{0x01},
			true, nil, nil, "",
			now, now,
		)

		mock.ExpectQuery(`SELECT \* FROM "integration_connections" WHERE id = \$1`).
			WithArgs(connID, 1).
			WillReturnRows(rows)

		conn, err := repo.FindByID(context.Background(), connID)

		assert.NoError(t, err)
		require.NotNil(t, conn)
		assert.Equal(t, connID, conn.ID)
		assert.Equal(t, integration.PlatformCodeShopify, conn.Platform)
		assert.Equal(t, "Shopify Main", conn.AccountName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing connection to domain error", func(t *testing.T) {
		repo, mock, mockDB := newMockConnectionRepository(t)
		defer mockDB.Close()

		connID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "integration_connections" WHERE id = \$1`).
			WithArgs(connID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		conn, err := repo.FindByID(context.Background(), connID)

		assert.Nil(t, conn)
		assert.ErrorIs(t, err, integration.ErrConnectionNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormConnectionRepository_FindActive(t *testing.T) {
	repo, mock, mockDB := newMockConnectionRepository(t)
	defer mockDB.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "platform", "account_name", "credential_blob",
		"is_active", "token_expires_at", "last_sync_at", "last_sync_error",
		"created_at", "updated_at",
	}).
		AddRow(uuid.New(), "SHOPIFY", "Shopify Main", []byte{0x01}, true, nil, nil, "", now, now).
		AddRow(uuid.New(), "AMAZON_FBA", "Amazon UK", []byte{0x02}, true, nil, nil, "", now, now)

	mock.ExpectQuery(`SELECT \* FROM "integration_connections" WHERE is_active = \$1`).
		WithArgs(true).
		WillReturnRows(rows)

	connections, err := repo.FindActive(context.Background())

	assert.NoError(t, err)
	assert.Len(t, connections, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormConnectionRepository_FindActiveWithTokenExpiry(t *testing.T) {
	repo, mock, mockDB := newMockConnectionRepository(t)
	defer mockDB.Close()

	now := time.Now()
	expiry := now.Add(48 * time.Hour)
	rows := sqlmock.NewRows([]string{
		"id", "platform", "account_name", "credential_blob",
		"is_active", "token_expires_at", "last_sync_at", "last_sync_error",
		"created_at", "updated_at",
	}).
		AddRow(uuid.New(), "SHOPIFY", "Shopify Main", []byte{0x01}, true, expiry, nil, "", now, now)

	mock.ExpectQuery(`SELECT \* FROM "integration_connections" WHERE is_active = \$1 AND token_expires_at IS NOT NULL`).
		WithArgs(true).
		WillReturnRows(rows)

	connections, err := repo.FindActiveWithTokenExpiry(context.Background())

	assert.NoError(t, err)
	require.Len(t, connections, 1)
	require.NotNil(t, connections[0].TokenExpiresAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
