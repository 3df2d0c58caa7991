package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// Remote posts notifications to a remote notification service.
type Remote struct {
	baseURL string
	client  *http.Client
	opts    *options
	logger  *slog.Logger
}

// NewRemote creates a remote sender for baseURL, falling back to
// DefaultServiceURL when it is empty.
func NewRemote(baseURL string, opts ...Option) *Remote {
	o := buildOptions(opts)
	if baseURL == "" {
		baseURL = DefaultServiceURL
	}
	client := o.client
	if client == nil {
		client = &http.Client{}
	}
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		opts:    o,
		logger:  o.logger.With(logger.Component("dispatch_remote")),
	}
}

// Send posts n to {baseURL}{kind resource}. Any non-2xx status is a
// transport failure; nothing is retried.
func (r *Remote) Send(ctx context.Context, n notification.Notification) error {
	if err := checkNotification(n); err != nil {
		return err
	}
	payload, err := json.Marshal(deref(n))
	if err != nil {
		return fmt.Errorf("%w: marshal notification: %v", notification.ErrInvalidArgument, err)
	}
	url := r.baseURL + n.Kind().Resource()

	defer logger.Timer(ctx, r.logger, "dispatch.remote",
		logger.WarnIfExceeds(r.opts.timeout),
		logger.WithTimerAttrs(slog.String("url", url), logger.Channel(string(n.Kind()))),
	)()

	reqCtx, cancel := context.WithTimeout(ctx, r.opts.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", notification.ErrInvalidArgument, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "notifykit/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.ErrorContext(ctx, "remote notification request failed", slog.String("url", url), logger.Error(err))
		if reqCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%w: request to %s timed out after %s", notification.ErrTransport, url, r.opts.timeout)
		}
		return fmt.Errorf("%w: %w", notification.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024*64))
		msg := fmt.Sprintf("remote service returned status %d", resp.StatusCode)
		if len(body) > 0 {
			bodyStr := strings.ReplaceAll(string(body), "\n", " ")
			if len(bodyStr) > 200 {
				bodyStr = bodyStr[:200] + "..."
			}
			msg += ": " + bodyStr
		}
		r.logger.ErrorContext(ctx, "remote notification rejected", slog.String("url", url), slog.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: %s", notification.ErrTransport, msg)
	}
	return nil
}
