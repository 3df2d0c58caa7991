// Package async runs cancellable operations in the background and lets the
// caller wait for their outcome.
//
// A Task is started with Go. If the supplied context is already done, the
// function is never invoked and the Task completes with the context error;
// otherwise the function runs in its own goroutine and receives the context so
// it can observe cancellation while it is in flight.
//
//	task := async.Go(ctx, func(ctx context.Context) error {
//	    return transport.SendContext(ctx, msg)
//	})
//	if err := task.Wait(); err != nil {
//	    // handle failure
//	}
package async
