package workqueue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Item is a unit of work stored in a queue.
type Item struct {
	ID          uuid.UUID       `json:"id"`
	Queue       string          `json:"queue"`
	Payload     json.RawMessage `json:"payload"`
	Attempt     int             `json:"attempt"`
	MaxAttempts int             `json:"max_attempts"`
	LastError   string          `json:"last_error,omitempty"`
	EnqueuedAt  time.Time       `json:"enqueued_at"`
	// NotBefore holds a retried item back until the given time.
	NotBefore time.Time `json:"not_before,omitzero"`
}

// Exhausted reports whether no attempts are left after the current one.
func (i *Item) Exhausted() bool {
	return i.Attempt >= i.MaxAttempts
}

// Ready reports whether the item may be handed out at now.
func (i *Item) Ready(now time.Time) bool {
	return !i.NotBefore.After(now)
}

// Store persists items per queue.
type Store interface {
	// Push appends the item to the tail of item.Queue. An item whose
	// NotBefore lies in the future is not popped before that time.
	Push(ctx context.Context, item *Item) error
	// Pop removes the oldest ready item from the first non-empty queue,
	// waiting up to wait for one. Returns ErrNoItem when none was ready.
	Pop(ctx context.Context, queues []string, wait time.Duration) (*Item, error)
	// DeadLetter stores an item that will not be retried.
	DeadLetter(ctx context.Context, item *Item) error
}
