package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/notifykit/pkg/email"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/sms"
)

// Direct delivers email and SMS in-process.
type Direct struct {
	email  *email.Service
	sms    *sms.Service
	logger *slog.Logger
}

// NewDirect creates a direct sender. A nil service disables its kind.
func NewDirect(emailSvc *email.Service, smsSvc *sms.Service, opts ...Option) *Direct {
	o := buildOptions(opts)
	return &Direct{
		email:  emailSvc,
		sms:    smsSvc,
		logger: o.logger.With(logger.Component("dispatch_direct")),
	}
}

func (d *Direct) Send(ctx context.Context, n notification.Notification) error {
	if err := checkNotification(n); err != nil {
		return err
	}
	switch v := deref(n).(type) {
	case notification.Email:
		if d.email == nil {
			return fmt.Errorf("%w: email delivery is not configured", notification.ErrUnsupportedKind)
		}
		return d.email.SendNotification(ctx, v).Wait()
	case notification.SMS:
		if d.sms == nil {
			return fmt.Errorf("%w: sms delivery is not configured", notification.ErrUnsupportedKind)
		}
		return d.sms.SendAsync(ctx, v).Wait()
	default:
		d.logger.WarnContext(ctx, "direct delivery does not support kind", logger.Channel(string(n.Kind())))
		return fmt.Errorf("%w: %s", notification.ErrUnsupportedKind, n.Kind())
	}
}

// deref turns pointer notifications into values so type switches see one shape.
func deref(n notification.Notification) notification.Notification {
	switch v := n.(type) {
	case *notification.Email:
		return *v
	case *notification.SMS:
		return *v
	case *notification.Android:
		return *v
	case *notification.IOS:
		return *v
	}
	return n
}
