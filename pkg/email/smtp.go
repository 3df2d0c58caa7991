package email

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

// SMTPConfig configures SMTPTransport. Variables are read with the
// NOTIFY_SMTP_ prefix when nested in Config.
type SMTPConfig struct {
	Host     string        `env:"HOST"`
	Port     int           `env:"PORT" envDefault:"587"`
	Username string        `env:"USERNAME"`
	Password string        `env:"PASSWORD"`
	TLS      string        `env:"TLS" envDefault:"opportunistic"` // mandatory, opportunistic, ssl or none
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// SMTPTransport delivers messages through an SMTP relay.
// Each send dials its own connection.
type SMTPTransport struct {
	host     string
	from     string
	options  []mail.Option
	inflight inflight
}

// NewSMTPTransport validates cfg and prepares client options.
func NewSMTPTransport(cfg SMTPConfig, defaultFrom string) (*SMTPTransport, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: smtp host is required", ErrInvalidConfig)
	}
	if defaultFrom == "" {
		return nil, fmt.Errorf("%w: default from address is required", ErrInvalidConfig)
	}

	var opts []mail.Option
	if cfg.Port > 0 {
		opts = append(opts, mail.WithPort(cfg.Port))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}
	switch cfg.TLS {
	case "mandatory":
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	case "opportunistic", "":
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	case "ssl":
		opts = append(opts, mail.WithSSL())
	case "none":
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	default:
		return nil, fmt.Errorf("%w: unknown smtp tls mode %q", ErrInvalidConfig, cfg.TLS)
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	return &SMTPTransport{host: cfg.Host, from: defaultFrom, options: opts}, nil
}

func (t *SMTPTransport) DefaultFrom() string { return t.from }

func (t *SMTPTransport) Send(m *Message) error {
	return t.SendContext(context.Background(), m)
}

func (t *SMTPTransport) SendContext(ctx context.Context, m *Message) error {
	msg, err := buildMsg(m, t.from)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(t.host, t.options...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	ctx, done := t.inflight.track(ctx)
	defer done()

	return client.DialAndSendWithContext(ctx, msg)
}

// Abort cancels every dial or send in progress.
func (t *SMTPTransport) Abort() {
	t.inflight.abort()
}

func buildMsg(m *Message, defaultFrom string) (*mail.Msg, error) {
	msg := mail.NewMsg()

	from := m.From
	if from == "" {
		from = defaultFrom
	}
	if m.FromName != "" {
		if err := msg.FromFormat(m.FromName, from); err != nil {
			return nil, fmt.Errorf("invalid from address: %w", err)
		}
	} else if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}

	if len(m.To) > 0 {
		if err := msg.To(m.To...); err != nil {
			return nil, fmt.Errorf("invalid to address: %w", err)
		}
	}
	if len(m.CC) > 0 {
		if err := msg.Cc(m.CC...); err != nil {
			return nil, fmt.Errorf("invalid cc address: %w", err)
		}
	}
	if len(m.BCC) > 0 {
		if err := msg.Bcc(m.BCC...); err != nil {
			return nil, fmt.Errorf("invalid bcc address: %w", err)
		}
	}

	msg.Subject(m.Subject)
	if m.HTML {
		msg.SetBodyString(mail.TypeTextHTML, m.Body)
	} else {
		msg.SetBodyString(mail.TypeTextPlain, m.Body)
	}

	for _, a := range m.Attachments {
		var opts []mail.FileOption
		if a.ContentType != "" {
			opts = append(opts, mail.WithFileContentType(mail.ContentType(a.ContentType)))
		}
		if err := msg.AttachReader(a.Filename, bytes.NewReader(a.Data), opts...); err != nil {
			return nil, fmt.Errorf("attach %s: %w", a.Filename, err)
		}
	}

	return msg, nil
}
