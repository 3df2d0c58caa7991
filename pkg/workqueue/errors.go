package workqueue

import "errors"

var (
	// ErrStoreNil is returned when a nil store is provided
	ErrStoreNil = errors.New("workqueue: store cannot be nil")

	// ErrPayloadNil is returned when attempting to enqueue a nil payload
	ErrPayloadNil = errors.New("workqueue: payload cannot be nil")

	// ErrQueueRequired is returned when the queue name is empty
	ErrQueueRequired = errors.New("workqueue: queue name is required")

	// ErrPermanent marks handler failures that retrying cannot fix
	ErrPermanent = errors.New("workqueue: permanent failure")

	// ErrNoItem is returned by Store.Pop when nothing arrived within the wait time
	ErrNoItem = errors.New("workqueue: no item available")

	// ErrNoHandlers is returned when a worker starts without handlers
	ErrNoHandlers = errors.New("workqueue: no handlers registered")

	// ErrAlreadyStarted is returned when Start is called twice
	ErrAlreadyStarted = errors.New("workqueue: worker already started")

	// ErrNotStarted is returned when Stop is called before Start
	ErrNotStarted = errors.New("workqueue: worker not started")

	ErrFailedToParseRedisURL = errors.New("workqueue: failed to parse redis connection string")
	ErrRedisNotReady         = errors.New("workqueue: redis did not become ready within the given time period")
)

// Permanent marks err so the worker dead-letters the item without retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(ErrPermanent, err)
}
