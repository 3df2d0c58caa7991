package dispatch

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// NoOp drops every notification after logging it.
type NoOp struct {
	logger *slog.Logger
}

func NewNoOp(opts ...Option) *NoOp {
	o := buildOptions(opts)
	return &NoOp{logger: o.logger.With(logger.Component("dispatch_noop"))}
}

func (s *NoOp) Send(ctx context.Context, n notification.Notification) error {
	if err := checkNotification(n); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "notification dropped", logger.Channel(string(n.Kind())))
	return nil
}
