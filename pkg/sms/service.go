package sms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/async"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// Service sends SMS notifications through a Transport.
type Service struct {
	transport Transport
	from      string
	logger    *slog.Logger
	slowAfter time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSlowSendThreshold logs sends slower than d at WARN.
func WithSlowSendThreshold(d time.Duration) Option {
	return func(s *Service) {
		s.slowAfter = d
	}
}

// NewService creates a service sending from the given number.
func NewService(transport Transport, from string, opts ...Option) *Service {
	s := &Service{transport: transport, from: from, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("sms"))
	return s
}

// Send delivers n to every recipient in order and stops at the first failure.
func (s *Service) Send(ctx context.Context, n notification.SMS) error {
	if err := n.Validate(); err != nil {
		return err
	}

	defer logger.Timer(ctx, s.logger, "sms.send",
		logger.WarnIfExceeds(s.slowAfter),
		logger.WithTimerAttrs(logger.Recipients("to", n.Recipients)),
	)()

	for _, to := range n.Recipients {
		if err := ctx.Err(); err != nil {
			s.logger.InfoContext(ctx, "sms send canceled", slog.String("to", to))
			return err
		}

		res, err := s.transport.SendMessage(ctx, s.from, to, n.Content)
		if err != nil {
			s.logger.ErrorContext(ctx, "sms send failed", slog.String("to", to), logger.Error(err))
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return fmt.Errorf("%w: send to %s: %w", notification.ErrTransport, to, err)
		}
		if res.Failed() {
			terr := &TransportError{To: to, Code: res.ErrorCode, Message: res.ErrorMessage, MoreInfo: res.MoreInfo}
			s.logger.ErrorContext(ctx, "sms send failed", slog.String("to", to), logger.Error(terr))
			return terr
		}
		s.logger.DebugContext(ctx, "sms sent", slog.String("to", to), slog.String("sid", res.SID))
	}
	return nil
}

// SendAsync runs Send in the background.
func (s *Service) SendAsync(ctx context.Context, n notification.SMS) *async.Task {
	return async.Go(ctx, func(ctx context.Context) error {
		return s.Send(ctx, n)
	})
}
