package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"sort"
	"strings"

	"github.com/wms/backend/internal/domain/integration"
)

// EmailConfig holds SMTP delivery settings
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// EmailChannel delivers alerts by plain-text email over SMTP
type EmailChannel struct {
	config EmailConfig

	// send is swapped in tests
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailChannel creates an email channel
func NewEmailChannel(config EmailConfig) *EmailChannel {
	return &EmailChannel{
		config: config,
		send:   smtp.SendMail,
	}
}

// Name identifies the channel in logs
func (c *EmailChannel) Name() string {
	return "email"
}

// Send delivers the alert. SMTP has no context support; delivery runs to
// completion once started, which is acceptable for a best-effort channel.
func (c *EmailChannel) Send(ctx context.Context, alert *integration.Alert) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(c.config.To) == 0 {
		return fmt.Errorf("email: no recipients configured")
	}

	var auth smtp.Auth
	if c.config.Username != "" {
		auth = smtp.PlainAuth("", c.config.Username, c.config.Password, c.config.Host)
	}

	addr := fmt.Sprintf("%s:%d", c.config.Host, c.config.Port)
	msg := c.buildMessage(alert)
	if err := c.send(addr, auth, c.config.From, c.config.To, msg); err != nil {
		return fmt.Errorf("email: send alert: %w", err)
	}
	return nil
}

// buildMessage renders the alert as an RFC 5322 plain-text message
func (c *EmailChannel) buildMessage(alert *integration.Alert) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", c.config.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(c.config.To, ", "))
	fmt.Fprintf(&b, "Subject: [%s] %s\r\n", strings.ToUpper(alert.Severity.String()), alert.Type.Title())
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")

	b.WriteString(alert.Message)
	b.WriteString("\r\n")

	if len(alert.Data) > 0 {
		b.WriteString("\r\n")
		keys := make([]string, 0, len(alert.Data))
		for k := range alert.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "%s: %s\r\n", k, alert.Data[k])
		}
	}

	fmt.Fprintf(&b, "\r\nRaised at %s\r\n", alert.CreatedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	return []byte(b.String())
}

// Ensure EmailChannel implements the NotificationChannel interface
var _ integration.NotificationChannel = (*EmailChannel)(nil)
