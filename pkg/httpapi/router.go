package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/notifykit/pkg/dispatch"
	"github.com/dmitrymomot/notifykit/pkg/httpserver"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// DefaultMaxBodySize limits request bodies; inline attachments make emails large.
const DefaultMaxBodySize int64 = 32 << 20

type api struct {
	sender  dispatch.Sender
	logger  *slog.Logger
	maxBody int64
	checks  []func(context.Context) error
	metrics http.Handler
}

// Option configures the router.
type Option func(*api)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *api) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithHealthChecks adds readiness checks to /healthz.
func WithHealthChecks(checks ...func(context.Context) error) Option {
	return func(a *api) {
		a.checks = append(a.checks, checks...)
	}
}

// WithMetricsHandler mounts h on /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(a *api) {
		a.metrics = h
	}
}

// WithMaxBodySize overrides DefaultMaxBodySize.
func WithMaxBodySize(n int64) Option {
	return func(a *api) {
		if n > 0 {
			a.maxBody = n
		}
	}
}

// NewRouter builds the HTTP API on top of sender.
func NewRouter(sender dispatch.Sender, opts ...Option) chi.Router {
	a := &api{sender: sender, logger: slog.Default(), maxBody: DefaultMaxBodySize}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With(logger.Component("httpapi"))

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.Recoverer)

	r.Post(notification.KindEmail.Resource(), accept[notification.Email](a))
	r.Post(notification.KindSMS.Resource(), accept[notification.SMS](a))
	r.Post(notification.KindAndroid.Resource(), accept[notification.Android](a))
	r.Post(notification.KindIOS.Resource(), accept[notification.IOS](a))

	r.Get("/healthz", httpserver.HealthCheckHandler(a.logger, a.checks...))
	if a.metrics != nil {
		r.Method(http.MethodGet, "/metrics", a.metrics)
	}

	return r
}

type response struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func accept[T notification.Notification](a *api) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var n T
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, a.maxBody)).Decode(&n); err != nil {
			a.writeError(w, r, errors.Join(notification.ErrInvalidArgument, err))
			return
		}
		if err := n.Validate(); err != nil {
			a.writeError(w, r, err)
			return
		}
		if err := a.sender.Send(ctx, n); err != nil {
			a.writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusAccepted, response{Status: "accepted", RequestID: RequestIDFromContext(ctx)})
	}
}

func (a *api) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	a.logger.Log(r.Context(), level, "notification request failed",
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		logger.Error(err))

	writeJSON(w, status, response{Status: "error", Error: err.Error(), RequestID: RequestIDFromContext(r.Context())})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, notification.ErrInvalidArgument),
		errors.Is(err, notification.ErrInvalidOperation),
		errors.Is(err, notification.ErrFormat):
		return http.StatusBadRequest
	case errors.Is(err, notification.ErrUnsupportedKind):
		return http.StatusNotImplemented
	case errors.Is(err, notification.ErrTransport):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
