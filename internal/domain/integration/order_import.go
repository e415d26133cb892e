package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// ImportStatus
// ---------------------------------------------------------------------------

// ImportStatus represents the lifecycle state of an order import record
type ImportStatus string

const (
	// ImportStatusPending indicates the external order was observed but not yet processed
	ImportStatusPending ImportStatus = "PENDING"
	// ImportStatusImported indicates an internal order was created
	ImportStatusImported ImportStatus = "IMPORTED"
	// ImportStatusSkipped indicates no line item resolved to a catalog product
	ImportStatusSkipped ImportStatus = "SKIPPED"
	// ImportStatusFailed indicates processing raised an error after the record was created
	ImportStatusFailed ImportStatus = "FAILED"
)

// IsValid returns true if the status is valid
func (s ImportStatus) IsValid() bool {
	switch s {
	case ImportStatusPending, ImportStatusImported, ImportStatusSkipped, ImportStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the status is final. A record transitions out
// of PENDING exactly once and is never reopened.
func (s ImportStatus) IsTerminal() bool {
	return s == ImportStatusImported || s == ImportStatusSkipped || s == ImportStatusFailed
}

// String returns the string representation of ImportStatus
func (s ImportStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// OrderImportRecord Entity
// ---------------------------------------------------------------------------

// OrderImportRecord is the at-most-once ingestion ledger entry for one
// external order under one connection. Its natural key is
// (ConnectionID, ExternalOrderID); the persistence layer enforces
// uniqueness with a database constraint, which is the correctness backstop
// against concurrent sync passes.
type OrderImportRecord struct {
	// ID is the surrogate identifier of the record
	ID uuid.UUID
	// ConnectionID is the connection the order arrived through
	ConnectionID uuid.UUID
	// ExternalOrderID is the order identifier assigned by the platform
	ExternalOrderID string
	// OrderData is the raw external payload, snapshotted for audit and replay
	OrderData []byte
	// Status is the current lifecycle state
	Status ImportStatus
	// InternalOrderID references the created internal order, when imported
	InternalOrderID *uuid.UUID
	// ErrorMessage holds the failure reason when Status is FAILED
	ErrorMessage string
	// CreatedAt is when the external order id was first observed
	CreatedAt time.Time
	// UpdatedAt is when the record last changed
	UpdatedAt time.Time
}

// NewOrderImportRecord creates a PENDING record with the raw payload
// snapshot. The record must be persisted before any line processing starts
// so a crash mid-import leaves an auditable trace.
func NewOrderImportRecord(connectionID uuid.UUID, externalOrderID string, payload []byte) (*OrderImportRecord, error) {
	if connectionID == uuid.Nil {
		return nil, ErrConnectionIDRequired
	}
	if externalOrderID == "" {
		return nil, ErrExternalOrderInvalid
	}

	now := time.Now()
	return &OrderImportRecord{
		ID:              uuid.New(),
		ConnectionID:    connectionID,
		ExternalOrderID: externalOrderID,
		OrderData:       payload,
		Status:          ImportStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// MarkImported transitions the record to IMPORTED with the internal order reference
func (r *OrderImportRecord) MarkImported(internalOrderID uuid.UUID) error {
	if r.Status.IsTerminal() {
		return ErrImportStatusFinal
	}
	r.Status = ImportStatusImported
	r.InternalOrderID = &internalOrderID
	r.UpdatedAt = time.Now()
	return nil
}

// MarkSkipped transitions the record to SKIPPED. Skipping is a legitimate
// business outcome, not an error.
func (r *OrderImportRecord) MarkSkipped() error {
	if r.Status.IsTerminal() {
		return ErrImportStatusFinal
	}
	r.Status = ImportStatusSkipped
	r.UpdatedAt = time.Now()
	return nil
}

// MarkFailed transitions the record to FAILED with the captured error
func (r *OrderImportRecord) MarkFailed(errMsg string) error {
	if r.Status.IsTerminal() {
		return ErrImportStatusFinal
	}
	r.Status = ImportStatusFailed
	r.ErrorMessage = errMsg
	r.UpdatedAt = time.Now()
	return nil
}

// ---------------------------------------------------------------------------
// OrderImportRepository
// ---------------------------------------------------------------------------

// OrderImportRepository defines the persistence port for import records
type OrderImportRepository interface {
	// Create persists a new record. Returns ErrImportRecordExists when a
	// record with the same (connection, external order) key already exists;
	// the unique constraint makes this check-then-create atomic from the
	// caller's perspective.
	Create(ctx context.Context, record *OrderImportRecord) error

	// FindByNaturalKey finds a record by (connectionID, externalOrderID).
	// Returns (nil, nil) when no record exists.
	FindByNaturalKey(ctx context.Context, connectionID uuid.UUID, externalOrderID string) (*OrderImportRecord, error)

	// Update persists status transitions on an existing record
	Update(ctx context.Context, record *OrderImportRecord) error
}
