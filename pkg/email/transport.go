package email

import (
	"context"
	"sync"
)

// Transport delivers assembled messages.
type Transport interface {
	// Send delivers m synchronously.
	Send(m *Message) error
	// SendContext delivers m, giving up when ctx is done.
	SendContext(ctx context.Context, m *Message) error
	// Abort cancels every send currently in flight. Best-effort; meant for
	// shutdown. A single send is aborted by canceling its context.
	Abort()
	// DefaultFrom is the sender used when a message has none.
	DefaultFrom() string
}

// inflight tracks cancel functions of running sends so Abort can reach them.
type inflight struct {
	mu      sync.Mutex
	next    uint64
	cancels map[uint64]context.CancelFunc
}

func (f *inflight) track(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)

	f.mu.Lock()
	if f.cancels == nil {
		f.cancels = make(map[uint64]context.CancelFunc)
	}
	id := f.next
	f.next++
	f.cancels[id] = cancel
	f.mu.Unlock()

	return ctx, func() {
		f.mu.Lock()
		delete(f.cancels, id)
		f.mu.Unlock()
		cancel()
	}
}

func (f *inflight) abort() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, cancel := range f.cancels {
		cancel()
		delete(f.cancels, id)
	}
}
