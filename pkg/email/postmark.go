package email

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/mail"
	"strings"

	"github.com/mrz1836/postmark"
)

// PostmarkConfig configures PostmarkTransport. Variables are read with the
// NOTIFY_POSTMARK_ prefix when nested in Config.
type PostmarkConfig struct {
	ServerToken  string `env:"SERVER_TOKEN"`
	AccountToken string `env:"ACCOUNT_TOKEN"`
	ReplyTo      string `env:"REPLY_TO"`
}

// PostmarkAPI is the subset of the Postmark client used by the transport.
type PostmarkAPI interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

// PostmarkTransport delivers messages through Postmark's transactional API.
type PostmarkTransport struct {
	api      PostmarkAPI
	from     string
	replyTo  string
	inflight inflight
}

// NewPostmarkTransport creates a transport backed by the Postmark client.
func NewPostmarkTransport(cfg PostmarkConfig, defaultFrom string) (*PostmarkTransport, error) {
	if cfg.ServerToken == "" {
		return nil, fmt.Errorf("%w: postmark server token is required", ErrInvalidConfig)
	}
	if cfg.AccountToken == "" {
		return nil, fmt.Errorf("%w: postmark account token is required", ErrInvalidConfig)
	}
	return NewPostmarkTransportWithAPI(
		postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		defaultFrom,
		cfg.ReplyTo,
	)
}

// NewPostmarkTransportWithAPI wraps a pre-configured client. Useful for testing.
func NewPostmarkTransportWithAPI(api PostmarkAPI, defaultFrom, replyTo string) (*PostmarkTransport, error) {
	if api == nil {
		return nil, fmt.Errorf("%w: postmark client is required", ErrInvalidConfig)
	}
	if defaultFrom == "" {
		return nil, fmt.Errorf("%w: default from address is required", ErrInvalidConfig)
	}
	return &PostmarkTransport{api: api, from: defaultFrom, replyTo: replyTo}, nil
}

func (t *PostmarkTransport) DefaultFrom() string { return t.from }

func (t *PostmarkTransport) Send(m *Message) error {
	return t.SendContext(context.Background(), m)
}

func (t *PostmarkTransport) SendContext(ctx context.Context, m *Message) error {
	ctx, done := t.inflight.track(ctx)
	defer done()

	resp, err := t.api.SendEmail(ctx, t.toPostmark(m))
	if err != nil {
		return err
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message)
	}
	return nil
}

// Abort cancels the API calls in progress.
func (t *PostmarkTransport) Abort() {
	t.inflight.abort()
}

func (t *PostmarkTransport) toPostmark(m *Message) postmark.Email {
	from := m.From
	if from == "" {
		from = t.from
	}
	if m.FromName != "" {
		from = (&mail.Address{Name: m.FromName, Address: from}).String()
	}

	e := postmark.Email{
		From:       from,
		To:         strings.Join(m.To, ","),
		Cc:         strings.Join(m.CC, ","),
		Bcc:        strings.Join(m.BCC, ","),
		Subject:    m.Subject,
		ReplyTo:    t.replyTo,
		TrackOpens: m.HTML,
	}
	if m.HTML {
		e.HTMLBody = m.Body
		e.TrackLinks = "HtmlOnly"
	} else {
		e.TextBody = m.Body
	}
	for _, a := range m.Attachments {
		e.Attachments = append(e.Attachments, postmark.Attachment{
			Name:        a.Filename,
			Content:     base64.StdEncoding.EncodeToString(a.Data),
			ContentType: a.ContentType,
		})
	}
	return e
}

