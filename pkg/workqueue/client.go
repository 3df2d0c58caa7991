package workqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// DefaultMaxAttempts is how many times an item is handled before it is dead-lettered.
const DefaultMaxAttempts = 3

// Enqueuer accepts work for a named queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, queue string, payload any) error
}

// Client enqueues JSON payloads into a Store.
type Client struct {
	store       Store
	maxAttempts int
	logger      *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithMaxAttempts sets the attempts budget of enqueued items (1-10).
func WithMaxAttempts(n int) ClientOption {
	return func(c *Client) {
		if n >= 1 && n <= 10 {
			c.maxAttempts = n
		}
	}
}

// WithClientLogger sets the logger.
func WithClientLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client on top of store.
func NewClient(store Store, opts ...ClientOption) (*Client, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	c := &Client{store: store, maxAttempts: DefaultMaxAttempts, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Enqueue marshals payload and pushes it to queue. It returns once the
// store has acknowledged the push.
func (c *Client) Enqueue(ctx context.Context, queue string, payload any) error {
	if queue == "" {
		return ErrQueueRequired
	}
	if payload == nil {
		return ErrPayloadNil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload of type %T: %w", payload, err)
	}

	item := &Item{
		ID:          uuid.New(),
		Queue:       queue,
		Payload:     data,
		MaxAttempts: c.maxAttempts,
		EnqueuedAt:  time.Now().UTC(),
	}
	if err := c.store.Push(ctx, item); err != nil {
		return fmt.Errorf("failed to enqueue item into queue %q: %w", queue, err)
	}

	c.logger.DebugContext(ctx, "item enqueued", logger.Queue(queue), slog.String("item_id", item.ID.String()))
	return nil
}
