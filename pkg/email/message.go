package email

import (
	"log/slog"
	"slices"

	"github.com/dmitrymomot/notifykit/pkg/attachment"
	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// Message is a fully assembled email ready for a transport.
type Message struct {
	From        string
	FromName    string
	To          []string
	CC          []string
	BCC         []string
	Subject     string
	Body        string
	HTML        bool
	Attachments []attachment.Resolved
}

// HasRecipients reports whether any of To, CC or BCC is non-empty.
func (m *Message) HasRecipients() bool {
	return len(m.To) > 0 || len(m.CC) > 0 || len(m.BCC) > 0
}

func (m *Message) clone() *Message {
	c := *m
	c.To = slices.Clone(m.To)
	c.CC = slices.Clone(m.CC)
	c.BCC = slices.Clone(m.BCC)
	c.Attachments = slices.Clone(m.Attachments)
	return &c
}

// LogValue renders only addressing and subject; bodies and attachments never
// reach the logs.
func (m *Message) LogValue() slog.Value {
	return slog.GroupValue(
		logger.Recipients("to", m.To),
		logger.Recipients("cc", m.CC),
		logger.Recipients("bcc", m.BCC),
		slog.String("from", m.From),
		slog.String("subject", m.Subject),
	)
}
