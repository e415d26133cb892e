package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/wms/backend/internal/domain/integration"
)

// severityColors maps alert severity to Slack attachment colors
var severityColors = map[integration.Severity]string{
	integration.SeverityCritical: "#d32f2f",
	integration.SeverityWarning:  "#f9a825",
	integration.SeverityInfo:     "#1976d2",
}

// SlackChannel posts alerts to a Slack incoming webhook
type SlackChannel struct {
	webhookURL string
	httpClient *http.Client
}

// NewSlackChannel creates a Slack webhook channel
func NewSlackChannel(webhookURL string, timeout time.Duration) *SlackChannel {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SlackChannel{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name identifies the channel in logs
func (c *SlackChannel) Name() string {
	return "slack"
}

// slackMessage is the incoming-webhook payload
type slackMessage struct {
	Text        string            `json:"text"`
	Attachments []slackAttachment `json:"attachments,omitempty"`
}

type slackAttachment struct {
	Color  string       `json:"color"`
	Fields []slackField `json:"fields,omitempty"`
	Ts     int64        `json:"ts"`
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// Send delivers the alert
func (c *SlackChannel) Send(ctx context.Context, alert *integration.Alert) error {
	msg := slackMessage{
		Text: fmt.Sprintf("*%s*\n%s", alert.Type.Title(), alert.Message),
		Attachments: []slackAttachment{{
			Color:  severityColors[alert.Severity],
			Fields: dataFields(alert.Data),
			Ts:     alert.CreatedAt.Unix(),
		}},
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("slack: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("slack: post message: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= 400 {
		return fmt.Errorf("slack: webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// dataFields renders alert data as sorted short fields so messages are stable
func dataFields(data map[string]string) []slackField {
	if len(data) == 0 {
		return nil
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]slackField, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, slackField{
			Title: strings.ReplaceAll(k, "_", " "),
			Value: data[k],
			Short: true,
		})
	}
	return fields
}

// Ensure SlackChannel implements the NotificationChannel interface
var _ integration.NotificationChannel = (*SlackChannel)(nil)
