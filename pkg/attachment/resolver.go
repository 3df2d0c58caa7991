package attachment

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/metrics"
	"github.com/dmitrymomot/notifykit/pkg/notification"
)

const (
	sourceContent = "content"
	sourceURI     = "uri"
)

// Resolved is an attachment ready to be handed to a transport.
type Resolved struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Resolver turns attachment references into payloads.
type Resolver struct {
	timeout  time.Duration
	maxSize  int64
	fetchers map[string]Fetcher
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithFetcher registers a fetcher for a URI scheme, replacing any existing one.
func WithFetcher(scheme string, f Fetcher) Option {
	return func(r *Resolver) {
		if f != nil {
			r.fetchers[strings.ToLower(scheme)] = f
		}
	}
}

// WithS3Fetcher registers f for s3:// URIs.
func WithS3Fetcher(f *S3Fetcher) Option {
	return WithFetcher("s3", f)
}

// WithHTTPClient replaces the client used for http and https URIs.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) {
		if c != nil {
			f := NewHTTPFetcher(c, r.timeout)
			r.fetchers["http"] = f
			r.fetchers["https"] = f
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics counts resolved attachments.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// NewResolver creates a resolver with HTTP(S) support.
func NewResolver(cfg Config, opts ...Option) *Resolver {
	timeout := cfg.DownloadTimeout
	if timeout <= 0 {
		timeout = DefaultDownloadTimeout
	}
	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	httpFetcher := NewHTTPFetcher(nil, timeout)
	r := &Resolver{
		timeout: timeout,
		maxSize: maxSize,
		fetchers: map[string]Fetcher{
			"http":  httpFetcher,
			"https": httpFetcher,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(logger.Component("attachment_resolver"))
	return r
}

// Resolve returns the payload for a.
// Content wins over URI when both are set.
func (r *Resolver) Resolve(ctx context.Context, a notification.Attachment) (Resolved, error) {
	if strings.TrimSpace(a.Filename) == "" {
		return Resolved{}, fmt.Errorf("%w: attachment filename is required", notification.ErrInvalidArgument)
	}

	hasContent := strings.TrimSpace(a.Content) != ""
	hasURI := strings.TrimSpace(a.URI) != ""
	if !hasContent && !hasURI {
		return Resolved{}, fmt.Errorf("%w: attachment %q needs content or uri", notification.ErrInvalidArgument, a.Filename)
	}

	source := sourceURI
	if hasContent {
		source = sourceContent
	}

	r.logger.InfoContext(ctx, "resolving attachment", logger.Filename(a.Filename), logger.Source(source))

	var (
		data []byte
		err  error
	)
	if hasContent {
		data, err = r.decode(a)
	} else {
		data, err = r.fetch(ctx, strings.TrimSpace(a.URI))
	}
	r.metrics.AttachmentResolved(source, err)
	if err != nil {
		r.logger.WarnContext(ctx, "attachment resolution failed",
			logger.Filename(a.Filename), logger.Source(source), logger.Error(err))
		return Resolved{}, err
	}

	r.logger.InfoContext(ctx, "resolved attachment",
		logger.Filename(a.Filename), logger.Source(source), slog.Int("size", len(data)))

	return Resolved{
		Filename:    a.Filename,
		ContentType: contentType(a.Filename, data),
		Data:        data,
	}, nil
}

// ResolveAll resolves attachments in order, stopping at the first failure.
func (r *Resolver) ResolveAll(ctx context.Context, as []notification.Attachment) ([]Resolved, error) {
	out := make([]Resolved, 0, len(as))
	for _, a := range as {
		res, err := r.Resolve(ctx, a)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *Resolver) decode(a notification.Attachment) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(a.Content))
	if err != nil {
		return nil, fmt.Errorf("%w: attachment %q content is not valid base64: %v", notification.ErrFormat, a.Filename, err)
	}
	if int64(len(data)) > r.maxSize {
		return nil, fmt.Errorf("%w: attachment exceeds %d bytes", notification.ErrInvalidArgument, r.maxSize)
	}
	return data, nil
}

func (r *Resolver) fetch(ctx context.Context, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid attachment uri: %v", notification.ErrInvalidArgument, err)
	}
	fetcher, ok := r.fetchers[strings.ToLower(u.Scheme)]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported attachment uri scheme %q", notification.ErrInvalidArgument, u.Scheme)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	data, err := fetcher.Fetch(ctx, uri, r.maxSize)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: download %s timed out after %s", notification.ErrTransport, uri, r.timeout)
		}
		return nil, err
	}
	return data, nil
}

func contentType(filename string, data []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}
