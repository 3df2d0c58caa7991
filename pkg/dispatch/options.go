package dispatch

import (
	"log/slog"
	"net/http"
	"time"
)

type options struct {
	logger  *slog.Logger
	timeout time.Duration
	client  *http.Client
}

// Option configures a strategy.
type Option func(*options)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTimeout bounds each Remote request.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithHTTPClient replaces the client used by Remote.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.client = c
		}
	}
}

func buildOptions(opts []Option) *options {
	o := &options{logger: slog.Default(), timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
