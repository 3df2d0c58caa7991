package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/async"
	"github.com/dmitrymomot/notifykit/pkg/attachment"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/recipient"
)

// Service filters recipients and hands messages to a Transport.
type Service struct {
	transport Transport
	filter    *recipient.Filter
	resolver  *attachment.Resolver
	logger    *slog.Logger
	slowAfter time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithFilter sets the recipient filter. Without one, no address is removed.
func WithFilter(f *recipient.Filter) Option {
	return func(s *Service) {
		if f != nil {
			s.filter = f
		}
	}
}

// WithResolver sets the attachment resolver used by SendNotification.
func WithResolver(r *attachment.Resolver) Option {
	return func(s *Service) {
		if r != nil {
			s.resolver = r
		}
	}
}

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

// NewService creates an email service on top of transport.
func NewService(transport Transport, opts ...Option) *Service {
	s := &Service{
		transport: transport,
		filter:    recipient.Disabled(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("email"))
	if s.resolver == nil {
		s.resolver = attachment.NewResolver(attachment.Config{}, attachment.WithLogger(s.logger))
	}
	return s
}

// Send filters msg's recipients and delivers it synchronously.
// The caller's msg is never modified.
func (s *Service) Send(msg *Message) error {
	ctx := context.Background()
	m, err := s.prepare(ctx, msg)
	if err != nil {
		return err
	}

	defer s.span(ctx, "email.send", m)()

	if err := s.transport.Send(m); err != nil {
		s.logger.ErrorContext(ctx, "email send failed", slog.Any("message", m), logger.Error(err))
		return errors.Join(notification.ErrTransport, err)
	}
	return nil
}

// SendAsync filters msg's recipients synchronously and delivers it in the
// background. Canceling ctx while the send is in flight aborts that send.
// A context that is already done never reaches the transport.
func (s *Service) SendAsync(ctx context.Context, msg *Message) *async.Task {
	m, err := s.prepare(ctx, msg)
	if err != nil {
		return async.Completed(err)
	}
	return async.Go(ctx, func(ctx context.Context) error {
		return s.deliver(ctx, m)
	})
}

// SendNotification builds a message from n, resolves its attachments in
// order and delivers it like SendAsync.
func (s *Service) SendNotification(ctx context.Context, n notification.Email) *async.Task {
	m, err := s.prepare(ctx, s.messageFrom(n))
	if err != nil {
		return async.Completed(err)
	}

	return async.Go(ctx, func(ctx context.Context) error {
		if len(n.Attachments) > 0 {
			resolved, err := s.resolver.ResolveAll(ctx, n.Attachments)
			if err != nil {
				return err
			}
			m.Attachments = resolved
		}
		return s.deliver(ctx, m)
	})
}

func (s *Service) messageFrom(n notification.Email) *Message {
	from := n.FromAddress
	if from == "" {
		from = s.transport.DefaultFrom()
	}
	return &Message{
		From:     from,
		FromName: n.FromName,
		To:       n.Recipients,
		CC:       n.CC,
		BCC:      n.BCC,
		Subject:  n.Subject,
		Body:     n.Content,
		HTML:     n.Format == notification.FormatHTML,
	}
}

// prepare returns a filtered copy of msg or ErrInvalidOperation when no
// recipient is left.
func (s *Service) prepare(ctx context.Context, msg *Message) (*Message, error) {
	if msg == nil {
		return nil, fmt.Errorf("%w: message is nil", notification.ErrInvalidArgument)
	}

	m := msg.clone()
	if m.From == "" {
		m.From = s.transport.DefaultFrom()
	}
	m.To = s.filter.Apply(ctx, m.To)
	m.CC = s.filter.Apply(ctx, m.CC)
	m.BCC = s.filter.Apply(ctx, m.BCC)

	if !m.HasRecipients() {
		s.logger.WarnContext(ctx, "email has no deliverable recipients", slog.Any("message", msg))
		return nil, notification.ErrInvalidOperation
	}
	return m, nil
}

// deliver runs the transport send and aborts it if ctx ends first.
// The abort reaches this send only; other sends sharing the transport keep
// running. The abort callback cannot fire once the send has returned.
func (s *Service) deliver(ctx context.Context, m *Message) error {
	defer s.span(ctx, "email.send_async", m)()

	sendCtx, abort := context.WithCancel(context.WithoutCancel(ctx))
	defer abort()

	var (
		mu       sync.Mutex
		finished bool
	)
	stop := context.AfterFunc(ctx, func() {
		mu.Lock()
		defer mu.Unlock()
		if finished {
			return
		}
		s.logger.WarnContext(context.WithoutCancel(ctx), "aborting in-flight email send", slog.Any("message", m))
		abort()
	})

	err := s.transport.SendContext(sendCtx, m)

	mu.Lock()
	finished = true
	mu.Unlock()
	stop()

	if err == nil {
		return nil
	}
	s.logger.ErrorContext(ctx, "email send failed", slog.Any("message", m), logger.Error(err))
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Join(ctxErr, notification.ErrTransport, err)
	}
	return errors.Join(notification.ErrTransport, err)
}

func (s *Service) span(ctx context.Context, msg string, m *Message) func() {
	return logger.Timer(ctx, s.logger, msg,
		logger.WarnIfExceeds(s.slowAfter),
		logger.WithTimerAttrs(slog.Any("message", m)),
	)
}
