package email

import (
	"fmt"
	"time"
)

// Transport names accepted by Config.Transport.
const (
	TransportSMTP     = "smtp"
	TransportPostmark = "postmark"
	TransportDev      = "dev"
)

// Config selects and configures the email transport.
type Config struct {
	Transport         string         `env:"NOTIFY_EMAIL_TRANSPORT" envDefault:"dev"`
	DefaultFrom       string         `env:"NOTIFY_EMAIL_FROM" envDefault:"noreply@localhost"`
	DevDir            string         `env:"NOTIFY_EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
	SlowSendThreshold time.Duration  `env:"NOTIFY_EMAIL_SLOW_THRESHOLD" envDefault:"5s"`
	SMTP              SMTPConfig     `envPrefix:"NOTIFY_SMTP_"`
	Postmark          PostmarkConfig `envPrefix:"NOTIFY_POSTMARK_"`
}

// NewTransport builds the transport named by cfg.Transport.
func NewTransport(cfg Config) (Transport, error) {
	switch cfg.Transport {
	case TransportSMTP:
		return NewSMTPTransport(cfg.SMTP, cfg.DefaultFrom)
	case TransportPostmark:
		return NewPostmarkTransport(cfg.Postmark, cfg.DefaultFrom)
	case TransportDev, "":
		return NewDevTransport(cfg.DevDir, cfg.DefaultFrom), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, cfg.Transport)
	}
}
