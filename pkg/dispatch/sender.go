package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/notifykit/pkg/email"
	"github.com/dmitrymomot/notifykit/pkg/metrics"
	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/sms"
	"github.com/dmitrymomot/notifykit/pkg/workqueue"
)

// Sender delivers a notification using one strategy.
type Sender interface {
	Send(ctx context.Context, n notification.Notification) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, n notification.Notification) error

func (f SenderFunc) Send(ctx context.Context, n notification.Notification) error { return f(ctx, n) }

// checkNotification rejects nil notifications, including typed nil pointers.
func checkNotification(n notification.Notification) error {
	var isNil bool
	switch v := n.(type) {
	case nil:
		isNil = true
	case *notification.Email:
		isNil = v == nil
	case *notification.SMS:
		isNil = v == nil
	case *notification.Android:
		isNil = v == nil
	case *notification.IOS:
		isNil = v == nil
	}
	if isNil {
		return fmt.Errorf("%w: notification is nil", notification.ErrInvalidArgument)
	}
	return nil
}

// Deps are the collaborators strategies may need. Only those used by the
// selected strategy must be set.
type Deps struct {
	Email      *email.Service
	SMS        *sms.Service
	Enqueuer   workqueue.Enqueuer
	HTTPClient *http.Client
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
}

// New builds the sender selected by cfg.Strategy. When deps.Metrics is set
// the sender is wrapped with Instrumented.
func New(cfg Config, deps Deps) (Sender, error) {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	var s Sender
	switch cfg.Strategy {
	case StrategyDirect, "":
		s = NewDirect(deps.Email, deps.SMS, WithLogger(log))
	case StrategyQueued:
		if deps.Enqueuer == nil {
			return nil, fmt.Errorf("%w: queued strategy requires an enqueuer", ErrUnknownStrategy)
		}
		s = NewQueued(deps.Enqueuer, WithLogger(log))
	case StrategyRemote:
		s = NewRemote(cfg.ServiceURL, WithLogger(log), WithTimeout(cfg.Timeout), WithHTTPClient(deps.HTTPClient))
	case StrategyNoOp:
		s = NewNoOp(WithLogger(log))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, cfg.Strategy)
	}

	if deps.Metrics != nil {
		strategy := cfg.Strategy
		if strategy == "" {
			strategy = StrategyDirect
		}
		s = Instrument(s, strategy, deps.Metrics)
	}
	return s, nil
}
