package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/integration"
)

// ConnectionModel is the persistence model for the Connection domain entity.
type ConnectionModel struct {
	ID              uuid.UUID                `gorm:"type:uuid;primary_key"`
	Platform        integration.PlatformCode `gorm:"type:varchar(30);not null;index:idx_connections_platform"`
	AccountName     string                   `gorm:"type:varchar(100);not null"`
	CredentialBlob  []byte                   `gorm:"type:bytea;not null"`
	IsActive        bool                     `gorm:"not null;default:true;index:idx_connections_active"`
	TokenExpiresAt  *time.Time               `gorm:"index"`
	LastSyncAt      *time.Time
	LastOrderSyncAt *time.Time
	LastSyncError   string    `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ConnectionModel) TableName() string {
	return "integration_connections"
}

// ToDomain converts the persistence model to a domain Connection entity.
func (m *ConnectionModel) ToDomain() *integration.Connection {
	return &integration.Connection{
		ID:              m.ID,
		Platform:        m.Platform,
		AccountName:     m.AccountName,
		CredentialBlob:  m.CredentialBlob,
		IsActive:        m.IsActive,
		TokenExpiresAt:  m.TokenExpiresAt,
		LastSyncAt:      m.LastSyncAt,
		LastOrderSyncAt: m.LastOrderSyncAt,
		LastSyncError:   m.LastSyncError,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Connection entity.
func (m *ConnectionModel) FromDomain(c *integration.Connection) {
	m.ID = c.ID
	m.Platform = c.Platform
	m.AccountName = c.AccountName
	m.CredentialBlob = c.CredentialBlob
	m.IsActive = c.IsActive
	m.TokenExpiresAt = c.TokenExpiresAt
	m.LastSyncAt = c.LastSyncAt
	m.LastOrderSyncAt = c.LastOrderSyncAt
	m.LastSyncError = c.LastSyncError
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
}

// ConnectionModelFromDomain creates a new persistence model from a domain Connection entity.
func ConnectionModelFromDomain(c *integration.Connection) *ConnectionModel {
	m := &ConnectionModel{}
	m.FromDomain(c)
	return m
}

// OrderImportModel is the persistence model for the OrderImportRecord domain
// entity. The composite unique index on (connection_id, external_order_id)
// is the at-most-once guarantee for order ingestion.
type OrderImportModel struct {
	ID              uuid.UUID                `gorm:"type:uuid;primary_key"`
	ConnectionID    uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex:uniq_order_import_natural_key,priority:1"`
	ExternalOrderID string                   `gorm:"type:varchar(100);not null;uniqueIndex:uniq_order_import_natural_key,priority:2"`
	OrderData       []byte                   `gorm:"type:jsonb"`
	Status          integration.ImportStatus `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_order_imports_status"`
	InternalOrderID *uuid.UUID               `gorm:"type:uuid"`
	ErrorMessage    string                   `gorm:"type:text"`
	CreatedAt       time.Time                `gorm:"not null"`
	UpdatedAt       time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderImportModel) TableName() string {
	return "order_imports"
}

// ToDomain converts the persistence model to a domain OrderImportRecord entity.
func (m *OrderImportModel) ToDomain() *integration.OrderImportRecord {
	return &integration.OrderImportRecord{
		ID:              m.ID,
		ConnectionID:    m.ConnectionID,
		ExternalOrderID: m.ExternalOrderID,
		OrderData:       m.OrderData,
		Status:          m.Status,
		InternalOrderID: m.InternalOrderID,
		ErrorMessage:    m.ErrorMessage,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain OrderImportRecord entity.
func (m *OrderImportModel) FromDomain(r *integration.OrderImportRecord) {
	m.ID = r.ID
	m.ConnectionID = r.ConnectionID
	m.ExternalOrderID = r.ExternalOrderID
	m.OrderData = r.OrderData
	m.Status = r.Status
	m.InternalOrderID = r.InternalOrderID
	m.ErrorMessage = r.ErrorMessage
	m.CreatedAt = r.CreatedAt
	m.UpdatedAt = r.UpdatedAt
}

// OrderImportModelFromDomain creates a new persistence model from a domain OrderImportRecord entity.
func OrderImportModelFromDomain(r *integration.OrderImportRecord) *OrderImportModel {
	m := &OrderImportModel{}
	m.FromDomain(r)
	return m
}

// SkuMappingModel is the persistence model for the SkuMapping domain entity.
type SkuMappingModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key"`
	ConnectionID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_sku_mapping_key,priority:1"`
	ExternalSku       string    `gorm:"type:varchar(100);not null;uniqueIndex:uniq_sku_mapping_key,priority:2"`
	InternalSku       string    `gorm:"type:varchar(100);not null;index:idx_sku_mappings_internal"`
	ExternalProductID string    `gorm:"type:varchar(100)"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SkuMappingModel) TableName() string {
	return "sku_mappings"
}

// ToDomain converts the persistence model to a domain SkuMapping entity.
func (m *SkuMappingModel) ToDomain() *integration.SkuMapping {
	return &integration.SkuMapping{
		ID:                m.ID,
		ConnectionID:      m.ConnectionID,
		ExternalSku:       m.ExternalSku,
		InternalSku:       m.InternalSku,
		ExternalProductID: m.ExternalProductID,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain SkuMapping entity.
func (m *SkuMappingModel) FromDomain(s *integration.SkuMapping) {
	m.ID = s.ID
	m.ConnectionID = s.ConnectionID
	m.ExternalSku = s.ExternalSku
	m.InternalSku = s.InternalSku
	m.ExternalProductID = s.ExternalProductID
	m.CreatedAt = s.CreatedAt
	m.UpdatedAt = s.UpdatedAt
}

// SkuMappingModelFromDomain creates a new persistence model from a domain SkuMapping entity.
func SkuMappingModelFromDomain(s *integration.SkuMapping) *SkuMappingModel {
	m := &SkuMappingModel{}
	m.FromDomain(s)
	return m
}

// AlternateSkuModel is the persistence model for the AlternateSku domain entity.
type AlternateSkuModel struct {
	ID        uuid.UUID                `gorm:"type:uuid;primary_key"`
	Sku       string                   `gorm:"type:varchar(100);not null;index:idx_alternate_skus_sku_channel,priority:1"`
	Channel   integration.PlatformCode `gorm:"type:varchar(30);not null;index:idx_alternate_skus_sku_channel,priority:2"`
	ProductID uuid.UUID                `gorm:"type:uuid;not null"`
	IsActive  bool                     `gorm:"not null;default:true"`
	CreatedAt time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AlternateSkuModel) TableName() string {
	return "alternate_skus"
}

// ToDomain converts the persistence model to a domain AlternateSku entity.
func (m *AlternateSkuModel) ToDomain() *integration.AlternateSku {
	return &integration.AlternateSku{
		ID:        m.ID,
		Sku:       m.Sku,
		Channel:   m.Channel,
		ProductID: m.ProductID,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain AlternateSku entity.
func (m *AlternateSkuModel) FromDomain(a *integration.AlternateSku) {
	m.ID = a.ID
	m.Sku = a.Sku
	m.Channel = a.Channel
	m.ProductID = a.ProductID
	m.IsActive = a.IsActive
	m.CreatedAt = a.CreatedAt
}

// AlternateSkuModelFromDomain creates a new persistence model from a domain AlternateSku entity.
func AlternateSkuModelFromDomain(a *integration.AlternateSku) *AlternateSkuModel {
	m := &AlternateSkuModel{}
	m.FromDomain(a)
	return m
}

// SyncLogModel is the persistence model for the SyncLog domain entity.
type SyncLogModel struct {
	ID               uuid.UUID                 `gorm:"type:uuid;primary_key"`
	ConnectionID     uuid.UUID                 `gorm:"type:uuid;not null;index:idx_sync_logs_connection_started,priority:1"`
	SyncType         integration.SyncType      `gorm:"type:varchar(20);not null"`
	Status           integration.SyncLogStatus `gorm:"type:varchar(20);not null"`
	RecordsProcessed int                       `gorm:"not null;default:0"`
	ErrorMessage     string                    `gorm:"type:text"`
	StartedAt        time.Time                 `gorm:"not null;index:idx_sync_logs_connection_started,priority:2,sort:desc"`
	CompletedAt      *time.Time
}

// TableName returns the table name for GORM
func (SyncLogModel) TableName() string {
	return "integration_sync_logs"
}

// ToDomain converts the persistence model to a domain SyncLog entity.
func (m *SyncLogModel) ToDomain() *integration.SyncLog {
	return &integration.SyncLog{
		ID:               m.ID,
		ConnectionID:     m.ConnectionID,
		SyncType:         m.SyncType,
		Status:           m.Status,
		RecordsProcessed: m.RecordsProcessed,
		ErrorMessage:     m.ErrorMessage,
		StartedAt:        m.StartedAt,
		CompletedAt:      m.CompletedAt,
	}
}

// FromDomain populates the persistence model from a domain SyncLog entity.
func (m *SyncLogModel) FromDomain(l *integration.SyncLog) {
	m.ID = l.ID
	m.ConnectionID = l.ConnectionID
	m.SyncType = l.SyncType
	m.Status = l.Status
	m.RecordsProcessed = l.RecordsProcessed
	m.ErrorMessage = l.ErrorMessage
	m.StartedAt = l.StartedAt
	m.CompletedAt = l.CompletedAt
}

// SyncLogModelFromDomain creates a new persistence model from a domain SyncLog entity.
func SyncLogModelFromDomain(l *integration.SyncLog) *SyncLogModel {
	m := &SyncLogModel{}
	m.FromDomain(l)
	return m
}

// AlertRecordModel is the persistence model for the AlertRecord domain entity.
type AlertRecordModel struct {
	ID        uuid.UUID             `gorm:"type:uuid;primary_key"`
	Type      integration.AlertType `gorm:"type:varchar(40);not null;index:idx_alert_records_type"`
	Severity  integration.Severity  `gorm:"type:varchar(10);not null"`
	Message   string                `gorm:"type:text;not null"`
	Data      []byte                `gorm:"type:jsonb"`
	CreatedAt time.Time             `gorm:"not null;index:idx_alert_records_created,sort:desc"`
}

// TableName returns the table name for GORM
func (AlertRecordModel) TableName() string {
	return "alert_records"
}

// ToDomain converts the persistence model to a domain AlertRecord entity.
func (m *AlertRecordModel) ToDomain() *integration.AlertRecord {
	return &integration.AlertRecord{
		ID:        m.ID,
		Type:      m.Type,
		Severity:  m.Severity,
		Message:   m.Message,
		Data:      m.Data,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain AlertRecord entity.
func (m *AlertRecordModel) FromDomain(r *integration.AlertRecord) {
	m.ID = r.ID
	m.Type = r.Type
	m.Severity = r.Severity
	m.Message = r.Message
	m.Data = r.Data
	m.CreatedAt = r.CreatedAt
}

// AlertRecordModelFromDomain creates a new persistence model from a domain AlertRecord entity.
func AlertRecordModelFromDomain(r *integration.AlertRecord) *AlertRecordModel {
	m := &AlertRecordModel{}
	m.FromDomain(r)
	return m
}
