package monitoring

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/integration"
)

// Config holds health monitoring tunables
type Config struct {
	// QuickInterval is how often the lightweight connectivity check runs
	QuickInterval time.Duration
	// FullInterval is how often the probe plus sync scoring check runs
	FullInterval time.Duration
	// DeepInterval is how often the authenticated round trip runs
	DeepInterval time.Duration
	// TokenExpiryInterval is how often credential expiry is scanned
	TokenExpiryInterval time.Duration
	// HistoryRetention bounds the in-memory sample window
	HistoryRetention time.Duration
	// FailureThreshold is the consecutive failure count that raises INTEGRATION_DOWN
	FailureThreshold int
	// LatencyThreshold is the check duration above which HIGH_LATENCY fires
	LatencyThreshold time.Duration
	// TokenWarningDays is the expiry horizon for a warning alert
	TokenWarningDays int
	// TokenCriticalDays is the expiry horizon for a critical alert
	TokenCriticalDays int
	// RecentSyncWindow is the trailing sync log window the full check scores
	RecentSyncWindow time.Duration
	// RecentSyncMaxFailures is how many failures the window tolerates
	RecentSyncMaxFailures int
}

// DefaultConfig returns the standard monitoring cadence
func DefaultConfig() Config {
	return Config{
		QuickInterval:         5 * time.Minute,
		FullInterval:          15 * time.Minute,
		DeepInterval:          time.Hour,
		TokenExpiryInterval:   24 * time.Hour,
		HistoryRetention:      24 * time.Hour,
		FailureThreshold:      3,
		LatencyThreshold:      5 * time.Second,
		TokenWarningDays:      7,
		TokenCriticalDays:     1,
		RecentSyncWindow:      24 * time.Hour,
		RecentSyncMaxFailures: 2,
	}
}

// normalize fills zero fields with defaults
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.QuickInterval <= 0 {
		c.QuickInterval = def.QuickInterval
	}
	if c.FullInterval <= 0 {
		c.FullInterval = def.FullInterval
	}
	if c.DeepInterval <= 0 {
		c.DeepInterval = def.DeepInterval
	}
	if c.TokenExpiryInterval <= 0 {
		c.TokenExpiryInterval = def.TokenExpiryInterval
	}
	if c.HistoryRetention <= 0 {
		c.HistoryRetention = def.HistoryRetention
	}
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = def.FailureThreshold
	}
	if c.LatencyThreshold <= 0 {
		c.LatencyThreshold = def.LatencyThreshold
	}
	if c.TokenWarningDays <= 0 {
		c.TokenWarningDays = def.TokenWarningDays
	}
	if c.TokenCriticalDays <= 0 {
		c.TokenCriticalDays = def.TokenCriticalDays
	}
	if c.RecentSyncWindow <= 0 {
		c.RecentSyncWindow = def.RecentSyncWindow
	}
	if c.RecentSyncMaxFailures <= 0 {
		c.RecentSyncMaxFailures = def.RecentSyncMaxFailures
	}
}

// ConnectionStatus is one connection's entry in a monitor snapshot
type ConnectionStatus struct {
	ConnectionID        uuid.UUID                  `json:"connection_id"`
	Platform            integration.PlatformCode   `json:"platform"`
	AccountName         string                     `json:"account_name"`
	Healthy             bool                       `json:"healthy"`
	ConsecutiveFailures int                        `json:"consecutive_failures"`
	LastCheckedAt       *time.Time                 `json:"last_checked_at,omitempty"`
	LastLatencyMs       int64                      `json:"last_latency_ms"`
	LastError           string                     `json:"last_error,omitempty"`
	Samples             []integration.HealthSample `json:"-"`
}

// connectionState is the monitor's in-memory record for one connection
type connectionState struct {
	samples             []integration.HealthSample
	consecutiveFailures int
	lastResult          *integration.HealthCheckResult
}

// ---------------------------------------------------------------------------
// HealthMonitor
// ---------------------------------------------------------------------------

// HealthMonitor watches every active connection on four independent cadences:
// a quick connectivity probe, a full check that also scores recent sync logs,
// a deep authenticated round trip, and a daily token expiry scan. Each tick
// runs in its own goroutine so one slow platform never delays the others.
// Findings become alerts through the dispatcher, which owns throttling.
type HealthMonitor struct {
	connections integration.ConnectionRepository
	syncLogs    integration.SyncLogRepository
	factory     integration.ClientFactory
	dispatcher  *AlertDispatcher
	config      Config
	logger      *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	stateMu sync.RWMutex
	state   map[uuid.UUID]*connectionState

	// now is swapped in tests
	now func() time.Time
}

// NewHealthMonitor creates a health monitor
func NewHealthMonitor(
	connections integration.ConnectionRepository,
	syncLogs integration.SyncLogRepository,
	factory integration.ClientFactory,
	dispatcher *AlertDispatcher,
	config Config,
	logger *zap.Logger,
) *HealthMonitor {
	config.normalize()
	return &HealthMonitor{
		connections: connections,
		syncLogs:    syncLogs,
		factory:     factory,
		dispatcher:  dispatcher,
		config:      config,
		logger:      logger,
		state:       make(map[uuid.UUID]*connectionState),
		now:         time.Now,
	}
}

// Start launches the monitoring loops. Calling Start on a running monitor is
// a no-op.
func (m *HealthMonitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.isRunning {
		m.mu.Unlock()
		return nil
	}
	m.isRunning = true
	m.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	m.wg.Add(4)
	go m.loop(ctx, "quick", m.config.QuickInterval, m.runQuickCycle)
	go m.loop(ctx, "full", m.config.FullInterval, m.runFullCycle)
	go m.loop(ctx, "deep", m.config.DeepInterval, m.runDeepCycle)
	go m.loop(ctx, "token_expiry", m.config.TokenExpiryInterval, m.runTokenExpiryCycle)

	// first verdict shortly after boot instead of a full quick interval later
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		select {
		case <-ctx.Done():
		case <-time.After(5 * time.Second):
			m.runQuickCycle(ctx)
		}
	}()

	m.logger.Info("health monitor started",
		zap.Duration("quick_interval", m.config.QuickInterval),
		zap.Duration("full_interval", m.config.FullInterval),
		zap.Duration("deep_interval", m.config.DeepInterval),
		zap.Duration("token_expiry_interval", m.config.TokenExpiryInterval),
	)
	return nil
}

// Stop gracefully stops the monitor
func (m *HealthMonitor) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.isRunning {
		m.mu.Unlock()
		return nil
	}
	m.isRunning = false
	m.mu.Unlock()

	if m.cancel != nil {
		m.cancel()
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("health monitor stopped gracefully")
		return nil
	case <-ctx.Done():
		m.logger.Warn("health monitor stop timed out")
		return ctx.Err()
	}
}

// loop drives one cadence. The cycle itself runs in a fresh goroutine per
// tick so a slow platform cannot skip subsequent ticks of the other loops.
func (m *HealthMonitor) loop(ctx context.Context, name string, interval time.Duration, cycle func(context.Context)) {
	defer m.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Debug("health monitor loop stopping", zap.String("loop", name))
			return
		case <-ticker.C:
			m.wg.Add(1)
			go func() {
				defer m.wg.Done()
				cycle(ctx)
			}()
		}
	}
}

// ---------------------------------------------------------------------------
// Check Cycles
// ---------------------------------------------------------------------------

// runQuickCycle probes connectivity for every active connection. Quick
// verdicts drive alert evaluation only; they never enter the sample history,
// which belongs to the full and deep tiers.
func (m *HealthMonitor) runQuickCycle(ctx context.Context) {
	m.forEachActive(ctx, "quick", func(conn *integration.Connection) {
		result := m.probe(ctx, conn)
		m.record(ctx, conn, result, false)
	})
}

// runFullCycle probes connectivity and scores the trailing sync log window
func (m *HealthMonitor) runFullCycle(ctx context.Context) {
	m.forEachActive(ctx, "full", func(conn *integration.Connection) {
		result := m.fullCheck(ctx, conn)
		m.record(ctx, conn, result, true)
	})
}

// runDeepCycle performs an authenticated round trip per connection. The
// outcome is written to the connection record either way: success stamps a
// platform touch, failure lands in the last-sync error.
func (m *HealthMonitor) runDeepCycle(ctx context.Context) {
	m.forEachActive(ctx, "deep", func(conn *integration.Connection) {
		result := m.deepCheck(ctx, conn)
		m.record(ctx, conn, result, true)

		if result.Healthy {
			conn.RecordSyncSuccess(m.now())
		} else {
			conn.RecordSyncFailure(m.now(), result.Error)
		}
		if err := m.connections.Save(ctx, conn); err != nil {
			m.logger.Error("failed to stamp deep check on connection",
				zap.String("connection_id", conn.ID.String()),
				zap.Error(err))
		}
	})
}

// runTokenExpiryCycle scans tracked token expiries and alerts on near ones
func (m *HealthMonitor) runTokenExpiryCycle(ctx context.Context) {
	connections, err := m.connections.FindActiveWithTokenExpiry(ctx)
	if err != nil {
		m.monitorFailure(ctx, "token_expiry", err)
		return
	}

	now := m.now()
	for i := range connections {
		conn := &connections[i]
		days, ok := conn.DaysUntilTokenExpiry(now)
		if !ok {
			continue
		}

		switch {
		case days <= float64(m.config.TokenCriticalDays):
			m.dispatcher.Dispatch(ctx, integration.NewAlert(
				integration.AlertTypeTokenExpiryCritical,
				integration.SeverityCritical,
				fmt.Sprintf("Access token for %s (%s) expires in %.1f days. Re-authorize now to avoid an outage.",
					conn.AccountName, conn.Platform, days),
				m.identity(conn),
			))
		case days <= float64(m.config.TokenWarningDays):
			m.dispatcher.Dispatch(ctx, integration.NewAlert(
				integration.AlertTypeTokenExpiryWarning,
				integration.SeverityWarning,
				fmt.Sprintf("Access token for %s (%s) expires in %.1f days.",
					conn.AccountName, conn.Platform, days),
				m.identity(conn),
			))
		}
	}
}

// forEachActive runs check for every active sales channel connection.
// Carriers have no order feed to probe.
func (m *HealthMonitor) forEachActive(ctx context.Context, cycle string, check func(*integration.Connection)) {
	connections, err := m.connections.FindActive(ctx)
	if err != nil {
		m.monitorFailure(ctx, cycle, err)
		return
	}

	for i := range connections {
		if connections[i].Platform.IsCarrier() {
			continue
		}
		check(&connections[i])
	}
}

// ---------------------------------------------------------------------------
// Individual Checks
// ---------------------------------------------------------------------------

// probe runs the lightweight connectivity check for one connection
func (m *HealthMonitor) probe(ctx context.Context, conn *integration.Connection) *integration.HealthCheckResult {
	result := &integration.HealthCheckResult{
		ConnectionID: conn.ID,
		Platform:     conn.Platform,
	}

	started := m.now()
	client, err := m.factory.ClientFor(ctx, conn)
	if err != nil {
		result.Latency = m.now().Sub(started)
		result.Error = err.Error()
		return result
	}

	test, err := client.TestConnection(ctx)
	result.Latency = m.now().Sub(started)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.ProbeOK = test.OK
	result.Healthy = test.OK
	if !test.OK {
		result.Error = test.Detail
	}
	return result
}

// fullCheck probes connectivity and scores the trailing sync log window.
// A healthy probe with too many recent sync failures is still unhealthy.
func (m *HealthMonitor) fullCheck(ctx context.Context, conn *integration.Connection) *integration.HealthCheckResult {
	result := m.probe(ctx, conn)

	// score the last 10 entries inside the trailing window
	since := m.now().Add(-m.config.RecentSyncWindow)
	entries, err := m.syncLogs.FindRecent(ctx, conn.ID, since, 10)
	if err != nil {
		m.logger.Warn("failed to score recent syncs",
			zap.String("connection_id", conn.ID.String()),
			zap.Error(err))
		return result
	}

	result.RecentSyncs = len(entries)
	for i := range entries {
		if entries[i].Status == integration.SyncLogStatusFailed {
			result.RecentFailures++
		}
	}
	if result.Healthy && result.RecentFailures > m.config.RecentSyncMaxFailures {
		result.Healthy = false
		result.Error = fmt.Sprintf("%d of %d recent syncs failed", result.RecentFailures, result.RecentSyncs)
	}
	return result
}

// deepCheck performs an authenticated round trip by pulling a small order
// window, exercising credentials end to end rather than just reachability
func (m *HealthMonitor) deepCheck(ctx context.Context, conn *integration.Connection) *integration.HealthCheckResult {
	result := &integration.HealthCheckResult{
		ConnectionID: conn.ID,
		Platform:     conn.Platform,
	}

	started := m.now()
	client, err := m.factory.ClientFor(ctx, conn)
	if err != nil {
		result.Latency = m.now().Sub(started)
		result.Error = err.Error()
		return result
	}

	_, err = client.FetchOrdersPage(ctx, m.now().Add(-time.Hour), "")
	result.Latency = m.now().Sub(started)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.ProbeOK = true
	result.Healthy = true
	return result
}

// CheckConnection runs an on-demand full check for one connection and feeds
// the result into the monitor state like a scheduled one.
func (m *HealthMonitor) CheckConnection(ctx context.Context, connectionID uuid.UUID) (*integration.HealthCheckResult, error) {
	conn, err := m.connections.FindByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if !conn.IsActive {
		return nil, integration.ErrConnectionInactive
	}

	result := m.fullCheck(ctx, conn)
	m.record(ctx, conn, result, true)
	return result, nil
}

// ---------------------------------------------------------------------------
// State & Alerts
// ---------------------------------------------------------------------------

// record folds a check result into the connection's monitor state and raises
// whatever alerts the new state warrants. keepSample is false for quick
// checks, whose verdicts must not pollute the retained history.
func (m *HealthMonitor) record(ctx context.Context, conn *integration.Connection, result *integration.HealthCheckResult, keepSample bool) {
	m.stateMu.Lock()
	st, ok := m.state[conn.ID]
	if !ok {
		st = &connectionState{}
		m.state[conn.ID] = st
	}

	st.lastResult = result
	if keepSample {
		st.samples = append(st.samples, result.Sample())
		st.samples = pruneSamples(st.samples, m.now().Add(-m.config.HistoryRetention))
	}

	if result.Healthy {
		st.consecutiveFailures = 0
	} else {
		st.consecutiveFailures++
	}
	failures := st.consecutiveFailures
	m.stateMu.Unlock()

	if !result.Healthy {
		m.logger.Warn("health check failed",
			zap.String("connection_id", conn.ID.String()),
			zap.String("account", conn.AccountName),
			zap.Int("consecutive_failures", failures),
			zap.String("error", result.Error))
	}

	if failures >= m.config.FailureThreshold {
		m.dispatcher.Dispatch(ctx, integration.NewAlert(
			integration.AlertTypeIntegrationDown,
			integration.SeverityCritical,
			fmt.Sprintf("%s (%s) has failed %d consecutive health checks: %s",
				conn.AccountName, conn.Platform, failures, result.Error),
			m.identity(conn),
		))
	}

	if result.Healthy && result.Latency > m.config.LatencyThreshold {
		m.dispatcher.Dispatch(ctx, integration.NewAlert(
			integration.AlertTypeHighLatency,
			integration.SeverityWarning,
			fmt.Sprintf("%s (%s) responded in %dms, above the %dms ceiling.",
				conn.AccountName, conn.Platform,
				result.Latency.Milliseconds(), m.config.LatencyThreshold.Milliseconds()),
			m.identity(conn),
		))
	}
}

// monitorFailure reports a cycle that could not run at all
func (m *HealthMonitor) monitorFailure(ctx context.Context, cycle string, err error) {
	m.logger.Error("health monitor cycle failed",
		zap.String("cycle", cycle),
		zap.Error(err))
	m.dispatcher.Dispatch(ctx, integration.NewAlert(
		integration.AlertTypeMonitorFailure,
		integration.SeverityWarning,
		fmt.Sprintf("The %s health check cycle could not run: %v", cycle, err),
		map[string]string{"cycle": cycle},
	))
}

// identity returns the stable alert detail fields for a connection. Volatile
// detail belongs in the alert message so throttling stays effective.
func (m *HealthMonitor) identity(conn *integration.Connection) map[string]string {
	return map[string]string{
		"connection_id": conn.ID.String(),
		"platform":      conn.Platform.String(),
		"account":       conn.AccountName,
	}
}

// Status returns a snapshot of every active connection's monitor state.
// Connections never checked yet appear with no verdict history.
func (m *HealthMonitor) Status(ctx context.Context) ([]ConnectionStatus, error) {
	connections, err := m.connections.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	m.stateMu.RLock()
	defer m.stateMu.RUnlock()

	statuses := make([]ConnectionStatus, 0, len(connections))
	for i := range connections {
		conn := &connections[i]
		status := ConnectionStatus{
			ConnectionID: conn.ID,
			Platform:     conn.Platform,
			AccountName:  conn.AccountName,
			Healthy:      true,
		}
		if st, ok := m.state[conn.ID]; ok && st.lastResult != nil {
			status.Healthy = st.lastResult.Healthy
			status.ConsecutiveFailures = st.consecutiveFailures
			status.LastLatencyMs = st.lastResult.Latency.Milliseconds()
			status.LastError = st.lastResult.Error
			if n := len(st.samples); n > 0 {
				status.LastCheckedAt = &st.samples[n-1].Timestamp
				status.Samples = append([]integration.HealthSample(nil), st.samples...)
			}
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// StatusFor returns the snapshot entry for one connection
func (m *HealthMonitor) StatusFor(ctx context.Context, connectionID uuid.UUID) (*ConnectionStatus, error) {
	conn, err := m.connections.FindByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	m.stateMu.RLock()
	defer m.stateMu.RUnlock()

	status := &ConnectionStatus{
		ConnectionID: conn.ID,
		Platform:     conn.Platform,
		AccountName:  conn.AccountName,
		Healthy:      true,
	}
	if st, ok := m.state[conn.ID]; ok && st.lastResult != nil {
		status.Healthy = st.lastResult.Healthy
		status.ConsecutiveFailures = st.consecutiveFailures
		status.LastLatencyMs = st.lastResult.Latency.Milliseconds()
		status.LastError = st.lastResult.Error
		if n := len(st.samples); n > 0 {
			status.LastCheckedAt = &st.samples[n-1].Timestamp
			status.Samples = append([]integration.HealthSample(nil), st.samples...)
		}
	}
	return status, nil
}

// pruneSamples drops samples older than cutoff, preserving order
func pruneSamples(samples []integration.HealthSample, cutoff time.Time) []integration.HealthSample {
	idx := 0
	for idx < len(samples) && samples[idx].Timestamp.Before(cutoff) {
		idx++
	}
	if idx == 0 {
		return samples
	}
	return append(samples[:0], samples[idx:]...)
}
