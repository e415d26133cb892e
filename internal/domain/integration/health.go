package integration

import (
	"time"

	"github.com/google/uuid"
)

// HealthSample is one point-in-time observation of a connection's
// reachability and latency. Samples live in a bounded in-memory ring held
// by the health monitor; they are a diagnostic cache, never persisted.
type HealthSample struct {
	// Timestamp is when the observation was taken
	Timestamp time.Time
	// Healthy is the overall verdict of the check
	Healthy bool
	// Latency is how long the check took
	Latency time.Duration
	// Error is the failure description, "" when healthy
	Error string
}

// HealthCheckResult is the outcome of one full check of a single connection
type HealthCheckResult struct {
	// ConnectionID identifies the checked connection
	ConnectionID uuid.UUID
	// Platform is the connection's platform code
	Platform PlatformCode
	// Healthy is the overall verdict: probe success and few recent sync failures
	Healthy bool
	// Latency is the total check duration
	Latency time.Duration
	// ProbeOK is the connectivity probe verdict
	ProbeOK bool
	// RecentSyncs is how many sync log entries the trailing window held
	RecentSyncs int
	// RecentFailures is how many of those entries failed
	RecentFailures int
	// Error is the failure description, "" when healthy
	Error string
}

// Sample converts the check result into a history sample
func (r *HealthCheckResult) Sample() HealthSample {
	return HealthSample{
		Timestamp: time.Now(),
		Healthy:   r.Healthy,
		Latency:   r.Latency,
		Error:     r.Error,
	}
}
