package recipient

import (
	"context"
	"log/slog"
	"net/mail"
	"slices"
	"strings"

	"github.com/dmitrymomot/notifykit/pkg/environment"
	"github.com/dmitrymomot/notifykit/pkg/metrics"
)

// Filter decides which recipients may receive mail in the current environment.
// It is safe for concurrent use and never changes after construction.
type Filter struct {
	enabled    bool
	subdomains bool
	domains    []string
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// Option configures a Filter.
type Option func(*Filter)

// WithLogger sets the logger used to record removed addresses.
func WithLogger(l *slog.Logger) Option {
	return func(f *Filter) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithMetrics counts removed addresses.
func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Filter) {
		f.metrics = m
	}
}

// WithSubdomains makes an allow-listed domain admit its subdomains as well.
// By default hosts must match exactly.
func WithSubdomains() Option {
	return func(f *Filter) {
		f.subdomains = true
	}
}

// New creates a filter with the given allow-list.
// Domains are normalized to lower case; blank entries are ignored.
func New(domains []string, enabled bool, opts ...Option) *Filter {
	f := &Filter{
		enabled: enabled,
		logger:  slog.Default(),
	}
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" && !slices.Contains(f.domains, d) {
			f.domains = append(f.domains, d)
		}
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With(slog.String("component", "recipient_filter"))
	return f
}

// NewFromConfig creates a filter from configuration for the given environment.
func NewFromConfig(cfg Config, env environment.Environment, opts ...Option) (*Filter, error) {
	enabled, err := cfg.Enabled(env)
	if err != nil {
		return nil, err
	}
	if cfg.AllowSubdomains {
		opts = append(slices.Clone(opts), WithSubdomains())
	}
	return New(cfg.AllowedTestingDomains, enabled, opts...), nil
}

// Disabled returns a filter that lets every address through.
func Disabled() *Filter {
	return New(nil, false)
}

// Enabled reports whether the allow-list is enforced.
func (f *Filter) Enabled() bool { return f.enabled }

// AllowedDomains returns a copy of the allow-list.
func (f *Filter) AllowedDomains() []string { return slices.Clone(f.domains) }

// Allowed reports whether a single address would survive the filter.
func (f *Filter) Allowed(addr string) bool {
	if !f.enabled {
		return true
	}
	host := Host(addr)
	if host == "" {
		return false
	}
	for _, d := range f.domains {
		if host == d || (f.subdomains && strings.HasSuffix(host, "."+d)) {
			return true
		}
	}
	return false
}

// Apply removes disallowed addresses from addrs in place and returns the
// shortened slice. Callers that must keep their input intact pass a clone.
func (f *Filter) Apply(ctx context.Context, addrs []string) []string {
	if !f.enabled {
		return addrs
	}
	return slices.DeleteFunc(addrs, func(addr string) bool {
		if f.Allowed(addr) {
			return false
		}
		f.logger.InfoContext(ctx, "filtering address from email outside production",
			slog.String("address", addr))
		f.metrics.RecipientFiltered()
		return true
	})
}

// Host returns the lower-cased host part of an email address, or an empty
// string when the address cannot be parsed.
func Host(addr string) string {
	parsed, err := mail.ParseAddress(strings.TrimSpace(addr))
	if err != nil {
		return ""
	}
	at := strings.LastIndexByte(parsed.Address, '@')
	if at < 0 {
		return ""
	}
	return strings.ToLower(parsed.Address[at+1:])
}
