package email_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mrz1836/postmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/attachment"
	"github.com/dmitrymomot/notifykit/pkg/email"
)

type stubPostmark struct {
	got  postmark.Email
	resp postmark.EmailResponse
	err  error
}

func (s *stubPostmark) SendEmail(ctx context.Context, e postmark.Email) (postmark.EmailResponse, error) {
	s.got = e
	return s.resp, s.err
}

func TestPostmarkTransport_SendContext(t *testing.T) {
	t.Parallel()

	api := &stubPostmark{}
	tr, err := email.NewPostmarkTransportWithAPI(api, "noreply@certipay.com", "support@certipay.com")
	require.NoError(t, err)

	err = tr.SendContext(context.Background(), &email.Message{
		FromName:    "Payroll",
		To:          []string{"a@certipay.com", "b@certipay.com"},
		CC:          []string{"c@certipay.com"},
		Subject:     "Statement",
		Body:        "<p>hi</p>",
		HTML:        true,
		Attachments: []attachment.Resolved{{Filename: "a.txt", ContentType: "text/plain", Data: []byte("hello")}},
	})
	require.NoError(t, err)

	assert.Equal(t, `"Payroll" <noreply@certipay.com>`, api.got.From)
	assert.Equal(t, "a@certipay.com,b@certipay.com", api.got.To)
	assert.Equal(t, "c@certipay.com", api.got.Cc)
	assert.Equal(t, "support@certipay.com", api.got.ReplyTo)
	assert.Equal(t, "<p>hi</p>", api.got.HTMLBody)
	assert.Empty(t, api.got.TextBody)
	require.Len(t, api.got.Attachments, 1)
	assert.Equal(t, "aGVsbG8=", api.got.Attachments[0].Content)
}

func TestPostmarkTransport_Errors(t *testing.T) {
	t.Parallel()

	api := &stubPostmark{resp: postmark.EmailResponse{ErrorCode: 300, Message: "Invalid email request"}}
	tr, err := email.NewPostmarkTransportWithAPI(api, "noreply@certipay.com", "")
	require.NoError(t, err)

	err = tr.Send(&email.Message{To: []string{"a@certipay.com"}, Body: "plain"})
	require.ErrorContains(t, err, "300")
	assert.Equal(t, "plain", api.got.TextBody)

	api.err = errors.New("network")
	require.Error(t, tr.Send(&email.Message{To: []string{"a@certipay.com"}}))

	_, err = email.NewPostmarkTransport(email.PostmarkConfig{}, "noreply@certipay.com")
	require.ErrorIs(t, err, email.ErrInvalidConfig)
}

func TestPostmarkTransport_AbortCancelsAllInFlight(t *testing.T) {
	t.Parallel()

	api := &blockingPostmark{started: make(chan struct{}, 2), release: make(chan struct{})}
	tr, err := email.NewPostmarkTransportWithAPI(api, "noreply@certipay.com", "")
	require.NoError(t, err)

	errs := make(chan error, 2)
	for _, to := range []string{"a@certipay.com", "b@certipay.com"} {
		go func() { errs <- tr.SendContext(context.Background(), &email.Message{To: []string{to}}) }()
	}
	<-api.started
	<-api.started

	tr.Abort()
	for range 2 {
		require.ErrorIs(t, <-errs, context.Canceled)
	}
}

func TestDevTransport_Send(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tr := email.NewDevTransport(dir, "noreply@localhost")

	err := tr.Send(&email.Message{
		To:          []string{"a@certipay.com"},
		Subject:     "Hello World!",
		Body:        "<p>hi</p>",
		HTML:        true,
		Attachments: []attachment.Resolved{{Filename: "a.txt"}},
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var htmlFile, jsonFile string
	for _, e := range entries {
		switch filepath.Ext(e.Name()) {
		case ".html":
			htmlFile = e.Name()
		case ".json":
			jsonFile = e.Name()
		}
	}
	require.NotEmpty(t, htmlFile)
	require.NotEmpty(t, jsonFile)
	assert.Contains(t, htmlFile, "_hello_world_")

	body, err := os.ReadFile(filepath.Join(dir, htmlFile))
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", string(body))

	raw, err := os.ReadFile(filepath.Join(dir, jsonFile))
	require.NoError(t, err)
	var meta map[string]any
	require.NoError(t, json.Unmarshal(raw, &meta))
	assert.Equal(t, "noreply@localhost", meta["from"])
	assert.Equal(t, "Hello World!", meta["subject"])
	assert.Equal(t, []any{"a.txt"}, meta["attachments"])
}

func TestDevTransport_CanceledContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tr := email.NewDevTransport(dir, "noreply@localhost")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, tr.SendContext(ctx, &email.Message{To: []string{"a@certipay.com"}}), context.Canceled)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewSMTPTransport(t *testing.T) {
	t.Parallel()

	_, err := email.NewSMTPTransport(email.SMTPConfig{}, "noreply@certipay.com")
	require.ErrorIs(t, err, email.ErrInvalidConfig)

	_, err = email.NewSMTPTransport(email.SMTPConfig{Host: "smtp.example.com", TLS: "weird"}, "noreply@certipay.com")
	require.ErrorIs(t, err, email.ErrInvalidConfig)

	tr, err := email.NewSMTPTransport(email.SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "u", Password: "p"}, "noreply@certipay.com")
	require.NoError(t, err)
	assert.Equal(t, "noreply@certipay.com", tr.DefaultFrom())
}

func TestNewTransport(t *testing.T) {
	t.Parallel()

	tr, err := email.NewTransport(email.Config{Transport: email.TransportDev, DevDir: t.TempDir(), DefaultFrom: "x@y.z"})
	require.NoError(t, err)
	assert.IsType(t, &email.DevTransport{}, tr)

	_, err = email.NewTransport(email.Config{Transport: "pigeon"})
	require.ErrorIs(t, err, email.ErrUnknownTransport)
}
