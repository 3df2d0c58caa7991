package dispatch

import (
	"context"
	"errors"

	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/workqueue"
)

// RegisterConsumers makes w deliver queued email and SMS through direct.
// These are the only kinds Queued accepts.
func RegisterConsumers(w *workqueue.Worker, direct *Direct) {
	w.Handle(notification.KindEmail.QueueName(), workqueue.NewHandler(func(ctx context.Context, n notification.Email) error {
		return classify(direct.Send(ctx, n))
	}))
	w.Handle(notification.KindSMS.QueueName(), workqueue.NewHandler(func(ctx context.Context, n notification.SMS) error {
		return classify(direct.Send(ctx, n))
	}))
}

// classify marks errors that retrying cannot fix.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, notification.ErrInvalidOperation),
		errors.Is(err, notification.ErrInvalidArgument),
		errors.Is(err, notification.ErrFormat),
		errors.Is(err, notification.ErrUnsupportedKind):
		return workqueue.Permanent(err)
	default:
		return err
	}
}
