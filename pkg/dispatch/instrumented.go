package dispatch

import (
	"context"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/metrics"
	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// Instrumented records dispatch metrics around another Sender.
type Instrumented struct {
	next     Sender
	strategy string
	metrics  *metrics.Metrics
}

// Instrument wraps next.
func Instrument(next Sender, strategy string, m *metrics.Metrics) *Instrumented {
	return &Instrumented{next: next, strategy: strategy, metrics: m}
}

func (s *Instrumented) Send(ctx context.Context, n notification.Notification) error {
	if err := checkNotification(n); err != nil {
		return err
	}
	start := time.Now()
	err := s.next.Send(ctx, n)
	s.metrics.ObserveDispatch(string(n.Kind()), s.strategy, time.Since(start), err)
	return err
}
