package monitoring

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/integration"
)

// DispatcherConfig holds alert dispatch tunables
type DispatcherConfig struct {
	// ThrottleWindow is how long a fingerprint suppresses duplicate alerts
	ThrottleWindow time.Duration
}

// AlertDispatcher fans alerts out to the configured notification channels.
// Duplicate alerts sharing a fingerprint are suppressed for the throttle
// window. Channels are independent and persistence is best effort, so a
// broken webhook or database never silences the remaining channels.
type AlertDispatcher struct {
	channels []integration.NotificationChannel
	throttle integration.ThrottleStore
	records  integration.AlertRecordRepository
	config   DispatcherConfig
	logger   *zap.Logger
}

// NewAlertDispatcher creates an alert dispatcher
func NewAlertDispatcher(
	channels []integration.NotificationChannel,
	throttle integration.ThrottleStore,
	records integration.AlertRecordRepository,
	config DispatcherConfig,
	logger *zap.Logger,
) *AlertDispatcher {
	if config.ThrottleWindow <= 0 {
		config.ThrottleWindow = 15 * time.Minute
	}
	return &AlertDispatcher{
		channels: channels,
		throttle: throttle,
		records:  records,
		config:   config,
		logger:   logger,
	}
}

// DispatchResult reports what happened to one alert
type DispatchResult struct {
	// Throttled is true when a duplicate inside the window suppressed delivery
	Throttled bool
	// SentChannels names the channels that accepted the alert
	SentChannels []string
}

// Dispatch delivers an alert unless an identical one was sent inside the
// throttle window, and reports the outcome. A throttle store error fails
// open: a duplicate alert is cheaper than a silent outage.
func (d *AlertDispatcher) Dispatch(ctx context.Context, alert *integration.Alert) DispatchResult {
	fingerprint := Fingerprint(alert)

	send, err := d.throttle.ShouldSend(ctx, fingerprint, d.config.ThrottleWindow)
	if err != nil {
		d.logger.Error("alert throttle check failed, sending anyway",
			zap.String("fingerprint", fingerprint),
			zap.Error(err))
		send = true
	}
	if !send {
		d.logger.Debug("alert suppressed by throttle window",
			zap.String("type", string(alert.Type)),
			zap.String("fingerprint", fingerprint))
		return DispatchResult{Throttled: true}
	}

	result := DispatchResult{}
	for _, channel := range d.channels {
		if err := channel.Send(ctx, alert); err != nil {
			d.logger.Error("alert delivery failed",
				zap.String("channel", channel.Name()),
				zap.String("type", string(alert.Type)),
				zap.Error(err))
			continue
		}
		result.SentChannels = append(result.SentChannels, channel.Name())
		d.logger.Info("alert delivered",
			zap.String("channel", channel.Name()),
			zap.String("type", string(alert.Type)),
			zap.String("severity", alert.Severity.String()))
	}

	d.persist(ctx, alert)
	return result
}

// persist appends the alert to the audit trail, best effort
func (d *AlertDispatcher) persist(ctx context.Context, alert *integration.Alert) {
	if d.records == nil {
		return
	}

	data, err := json.Marshal(alert.Data)
	if err != nil {
		data = nil
	}
	record := &integration.AlertRecord{
		ID:        uuid.New(),
		Type:      alert.Type,
		Severity:  alert.Severity,
		Message:   alert.Message,
		Data:      data,
		CreatedAt: alert.CreatedAt,
	}
	if err := d.records.Append(ctx, record); err != nil {
		d.logger.Error("failed to persist alert record",
			zap.String("type", string(alert.Type)),
			zap.Error(err))
	}
}

// Fingerprint derives the throttle key for an alert. Data keys are sorted so
// the same condition always produces the same fingerprint regardless of map
// iteration order.
func Fingerprint(alert *integration.Alert) string {
	keys := make([]string, 0, len(alert.Data))
	for k := range alert.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(string(alert.Type))
	for _, k := range keys {
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(alert.Data[k])
	}
	return b.String()
}
