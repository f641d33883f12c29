// Package email provides the sales notification sender.
package email

import "context"

type Sender interface {
	SendEmail(ctx context.Context, email *Email) error
}

type Email struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Config struct {
	ResendAPIKey string
	From         string
}

// NewSender returns a resend-backed sender, or a no-op sender when
// notifications are not configured.
func NewSender(cfg Config) Sender {
	if cfg.ResendAPIKey == "" {
		return NoopSender{}
	}
	return NewResendSender(cfg.ResendAPIKey, cfg.From)
}

type NoopSender struct{}

func (NoopSender) SendEmail(ctx context.Context, email *Email) error {
	return nil
}
