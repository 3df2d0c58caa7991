package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/workqueue"
)

// Queued hands notifications to a work queue for later delivery.
type Queued struct {
	enqueuer workqueue.Enqueuer
	logger   *slog.Logger
}

// NewQueued creates a queued sender.
func NewQueued(enqueuer workqueue.Enqueuer, opts ...Option) *Queued {
	o := buildOptions(opts)
	return &Queued{enqueuer: enqueuer, logger: o.logger.With(logger.Component("dispatch_queued"))}
}

// Send validates n and enqueues it on n.Kind().QueueName(). Delivery is not
// awaited. Only email and SMS are accepted, since those are the queues
// RegisterConsumers drains.
func (q *Queued) Send(ctx context.Context, n notification.Notification) error {
	if err := checkNotification(n); err != nil {
		return err
	}
	if !queueable(n.Kind()) {
		q.logger.WarnContext(ctx, "queued delivery does not support kind", logger.Channel(string(n.Kind())))
		return fmt.Errorf("%w: %s", notification.ErrUnsupportedKind, n.Kind())
	}
	if err := n.Validate(); err != nil {
		return err
	}

	queue := n.Kind().QueueName()
	if err := q.enqueuer.Enqueue(ctx, queue, deref(n)); err != nil {
		q.logger.ErrorContext(ctx, "failed to enqueue notification", logger.Queue(queue), logger.Error(err))
		return fmt.Errorf("%w: %w", notification.ErrTransport, err)
	}

	q.logger.DebugContext(ctx, "notification enqueued", logger.Queue(queue), logger.Channel(string(n.Kind())))
	return nil
}

func queueable(k notification.Kind) bool {
	return k == notification.KindEmail || k == notification.KindSMS
}
