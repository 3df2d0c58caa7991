package async

import (
	"context"
	"time"
)

// Task represents the outcome of an asynchronous operation.
type Task struct {
	err  error
	done chan struct{}
}

// Go executes fn asynchronously and returns a Task.
func Go(ctx context.Context, fn func(ctx context.Context) error) *Task {
	t := &Task{done: make(chan struct{})}

	// Pre-canceled contexts never start the operation.
	if err := ctx.Err(); err != nil {
		t.err = err
		close(t.done)
		return t
	}

	go func() {
		defer close(t.done)
		t.err = fn(ctx)
	}()

	return t
}

// Completed returns a Task that has already finished with err.
func Completed(err error) *Task {
	t := &Task{err: err, done: make(chan struct{})}
	close(t.done)
	return t
}

// Wait blocks until the task completes and returns its error.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}

// WaitTimeout waits at most d for the task to complete.
// Returns ErrTimeout if the task is still running; the task itself keeps going.
func (t *Task) WaitTimeout(d time.Duration) error {
	select {
	case <-t.done:
		return t.err
	case <-time.After(d):
		return ErrTimeout
	}
}

// Done returns a channel closed when the task completes.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// IsComplete checks if the task is complete without blocking.
func (t *Task) IsComplete() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// WaitAll waits for every task and returns the first non-nil error in order.
func WaitAll(tasks ...*Task) error {
	var first error
	for _, t := range tasks {
		if err := t.Wait(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
