package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Alert Types
// ---------------------------------------------------------------------------

// AlertType identifies the kind of condition an alert reports
type AlertType string

const (
	// AlertTypeIntegrationDown fires after consecutive failed health checks
	AlertTypeIntegrationDown AlertType = "INTEGRATION_DOWN"
	// AlertTypeTokenExpiryCritical fires when a token expires within a day
	AlertTypeTokenExpiryCritical AlertType = "TOKEN_EXPIRY_CRITICAL"
	// AlertTypeTokenExpiryWarning fires when a token expires within a week
	AlertTypeTokenExpiryWarning AlertType = "TOKEN_EXPIRY_WARNING"
	// AlertTypeHighLatency fires when a health check exceeds the latency ceiling
	AlertTypeHighLatency AlertType = "HIGH_LATENCY"
	// AlertTypeMonitorFailure fires when the monitor itself cannot run a cycle
	AlertTypeMonitorFailure AlertType = "MONITOR_FAILURE"
	// AlertTypeSyncFailure fires when a sync pass aborts
	AlertTypeSyncFailure AlertType = "SYNC_FAILURE"
)

// Title returns the human-readable headline for the alert type
func (t AlertType) Title() string {
	switch t {
	case AlertTypeIntegrationDown:
		return "Integration Down"
	case AlertTypeTokenExpiryCritical:
		return "Access Token Expiring Soon"
	case AlertTypeTokenExpiryWarning:
		return "Access Token Expiry Warning"
	case AlertTypeHighLatency:
		return "High Integration Latency"
	case AlertTypeMonitorFailure:
		return "Health Monitor Failure"
	case AlertTypeSyncFailure:
		return "Sync Failure"
	default:
		return string(t)
	}
}

// Severity represents how urgent an alert is
type Severity string

const (
	// SeverityCritical demands immediate operator attention
	SeverityCritical Severity = "critical"
	// SeverityWarning indicates a degraded but working state
	SeverityWarning Severity = "warning"
	// SeverityInfo is informational only
	SeverityInfo Severity = "info"
)

// IsValid returns true if the severity is known
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// String returns the string representation of Severity
func (s Severity) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// Alert
// ---------------------------------------------------------------------------

// Alert is one operator notification. Data carries the type-specific detail
// fields (connection name, latency, days until expiry) and participates in
// the throttle fingerprint, so two alerts differing only in Data are
// throttled independently.
type Alert struct {
	// Type is the alert condition
	Type AlertType
	// Severity is the urgency level
	Severity Severity
	// Message is the human-readable body
	Message string
	// Data holds type-specific detail fields
	Data map[string]string
	// CreatedAt is when the alert was raised
	CreatedAt time.Time
}

// NewAlert creates an alert stamped with the current time
func NewAlert(alertType AlertType, severity Severity, message string, data map[string]string) *Alert {
	return &Alert{
		Type:      alertType,
		Severity:  severity,
		Message:   message,
		Data:      data,
		CreatedAt: time.Now(),
	}
}

// ---------------------------------------------------------------------------
// AlertRecord Entity
// ---------------------------------------------------------------------------

// AlertRecord is the persisted audit trail entry of a dispatched alert.
// Persistence is best effort; a write failure never blocks delivery.
type AlertRecord struct {
	// ID is the unique identifier of the record
	ID uuid.UUID
	// Type is the alert condition
	Type AlertType
	// Severity is the urgency level
	Severity Severity
	// Message is the human-readable body
	Message string
	// Data is the serialized detail payload
	Data []byte
	// CreatedAt is when the alert was dispatched
	CreatedAt time.Time
}

// AlertRecordRepository defines the persistence port for alert records
type AlertRecordRepository interface {
	// Append persists a dispatched alert
	Append(ctx context.Context, record *AlertRecord) error

	// FindRecent returns up to limit records, newest first
	FindRecent(ctx context.Context, limit int) ([]AlertRecord, error)
}

// ---------------------------------------------------------------------------
// NotificationChannel
// ---------------------------------------------------------------------------

// NotificationChannel delivers an alert to one destination. Channels are
// independent; a failure on one never suppresses delivery on the others.
type NotificationChannel interface {
	// Name identifies the channel in logs
	Name() string

	// Send delivers the alert
	Send(ctx context.Context, alert *Alert) error
}

// ThrottleStore tracks alert fingerprints so duplicate alerts are suppressed
// for a throttle window. ShouldSend must atomically check and mark.
type ThrottleStore interface {
	// ShouldSend returns true when no send is recorded for fingerprint inside
	// the window, marking the fingerprint as sent in the same step
	ShouldSend(ctx context.Context, fingerprint string, window time.Duration) (bool, error)
}
