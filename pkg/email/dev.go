package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DevTransport writes messages to a directory instead of delivering them.
// The body lands in an .html or .txt file, addressing in a .json file next to it.
type DevTransport struct {
	dir  string
	from string
	now  func() time.Time
}

// NewDevTransport creates a transport writing into dir, created on first send.
func NewDevTransport(dir, defaultFrom string) *DevTransport {
	return &DevTransport{dir: dir, from: defaultFrom, now: time.Now}
}

type devMetadata struct {
	Timestamp   string   `json:"timestamp"`
	From        string   `json:"from"`
	FromName    string   `json:"from_name,omitempty"`
	To          []string `json:"to,omitempty"`
	CC          []string `json:"cc,omitempty"`
	BCC         []string `json:"bcc,omitempty"`
	Subject     string   `json:"subject"`
	Attachments []string `json:"attachments,omitempty"`
}

func (d *DevTransport) DefaultFrom() string { return d.from }

func (d *DevTransport) Send(m *Message) error {
	return d.SendContext(context.Background(), m)
}

func (d *DevTransport) SendContext(ctx context.Context, m *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	now := d.now()
	base := fmt.Sprintf("%s_%s_%s", now.Format("2006_01_02_150405"), sanitizeFilename(m.Subject), uuid.NewString()[:8])

	ext := ".txt"
	if m.HTML {
		ext = ".html"
	}
	if err := os.WriteFile(filepath.Join(d.dir, base+ext), []byte(m.Body), 0o644); err != nil {
		return fmt.Errorf("failed to write body file: %w", err)
	}

	from := m.From
	if from == "" {
		from = d.from
	}
	meta := devMetadata{
		Timestamp: now.Format(time.RFC3339),
		From:      from,
		FromName:  m.FromName,
		To:        m.To,
		CC:        m.CC,
		BCC:       m.BCC,
		Subject:   m.Subject,
	}
	for _, a := range m.Attachments {
		meta.Attachments = append(meta.Attachments, a.Filename)
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(d.dir, base+".json"), data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}
	return nil
}

// Abort is a no-op; file writes are not interruptible.
func (d *DevTransport) Abort() {}

var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = sanitizeRegex.ReplaceAllString(s, "")

	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
