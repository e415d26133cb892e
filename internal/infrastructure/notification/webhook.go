package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wms/backend/internal/domain/integration"
)

// WebhookChannel posts alerts as JSON to an arbitrary HTTP endpoint
type WebhookChannel struct {
	name       string
	url        string
	httpClient *http.Client
}

// NewWebhookChannel creates a generic webhook channel
func NewWebhookChannel(name, url string, timeout time.Duration) *WebhookChannel {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookChannel{
		name:       name,
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name identifies the channel in logs
func (c *WebhookChannel) Name() string {
	return c.name
}

// webhookPayload is the JSON body posted to the endpoint
type webhookPayload struct {
	Type      string            `json:"type"`
	Severity  string            `json:"severity"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Data      map[string]string `json:"data,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Send delivers the alert
func (c *WebhookChannel) Send(ctx context.Context, alert *integration.Alert) error {
	body, err := json.Marshal(webhookPayload{
		Type:      string(alert.Type),
		Severity:  string(alert.Severity),
		Title:     alert.Type.Title(),
		Message:   alert.Message,
		Data:      alert.Data,
		CreatedAt: alert.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("webhook: marshal alert: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: post alert: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook: endpoint returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// Ensure WebhookChannel implements the NotificationChannel interface
var _ integration.NotificationChannel = (*WebhookChannel)(nil)
