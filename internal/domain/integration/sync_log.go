package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Sync Log Types
// ---------------------------------------------------------------------------

// SyncType identifies which direction/kind of sync a log entry records
type SyncType string

const (
	// SyncTypeOrders is an inbound order sync
	SyncTypeOrders SyncType = "ORDERS"
	// SyncTypeInventory is an outbound inventory sync
	SyncTypeInventory SyncType = "INVENTORY"
)

// SyncLogStatus represents the outcome recorded in a sync log entry
type SyncLogStatus string

const (
	// SyncLogStatusInProgress marks the start of a sync pass
	SyncLogStatusInProgress SyncLogStatus = "IN_PROGRESS"
	// SyncLogStatusSuccess marks a completed sync pass
	SyncLogStatusSuccess SyncLogStatus = "SUCCESS"
	// SyncLogStatusFailed marks an aborted sync pass
	SyncLogStatusFailed SyncLogStatus = "FAILED"
)

// SyncLog is one append-only audit entry for a sync pass. The health
// monitor's full check reads the trailing window of these entries to score
// recent reliability.
type SyncLog struct {
	// ID is the unique identifier of the entry
	ID uuid.UUID
	// ConnectionID is the connection the sync ran against
	ConnectionID uuid.UUID
	// SyncType is ORDERS or INVENTORY
	SyncType SyncType
	// Status is the recorded outcome
	Status SyncLogStatus
	// RecordsProcessed counts imported orders or pushed inventory levels
	RecordsProcessed int
	// ErrorMessage holds the failure reason when Status is FAILED
	ErrorMessage string
	// StartedAt is when the sync pass started
	StartedAt time.Time
	// CompletedAt is when the pass finished; nil while in progress
	CompletedAt *time.Time
}

// NewSyncLog creates a sync log entry. Terminal statuses get a completion
// timestamp immediately.
func NewSyncLog(connectionID uuid.UUID, syncType SyncType, status SyncLogStatus, recordsProcessed int, errMsg string) *SyncLog {
	now := time.Now()
	entry := &SyncLog{
		ID:               uuid.New(),
		ConnectionID:     connectionID,
		SyncType:         syncType,
		Status:           status,
		RecordsProcessed: recordsProcessed,
		ErrorMessage:     errMsg,
		StartedAt:        now,
	}
	if status != SyncLogStatusInProgress {
		entry.CompletedAt = &now
	}
	return entry
}

// ---------------------------------------------------------------------------
// SyncLogRepository
// ---------------------------------------------------------------------------

// SyncLogRepository defines the append-only persistence port for sync logs
type SyncLogRepository interface {
	// Append persists a new log entry
	Append(ctx context.Context, entry *SyncLog) error

	// FindRecent returns up to limit entries for a connection recorded at or
	// after since, newest first
	FindRecent(ctx context.Context, connectionID uuid.UUID, since time.Time, limit int) ([]SyncLog, error)
}
