package workqueue

import (
	"context"
	"encoding/json"
)

// Handler processes the payload of one item.
type Handler interface {
	Handle(ctx context.Context, payload json.RawMessage) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) error

func (f HandlerFunc) Handle(ctx context.Context, payload json.RawMessage) error {
	return f(ctx, payload)
}

// NewHandler decodes the payload into T before calling fn.
// Undecodable payloads fail permanently.
func NewHandler[T any](fn func(ctx context.Context, payload T) error) Handler {
	return HandlerFunc(func(ctx context.Context, payload json.RawMessage) error {
		var v T
		if err := json.Unmarshal(payload, &v); err != nil {
			return Permanent(err)
		}
		return fn(ctx, v)
	})
}
