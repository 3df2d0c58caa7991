package workqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// DefaultRetryBackoff is the base delay between attempts of a failed item.
const DefaultRetryBackoff = 30 * time.Second

// Worker pulls items from a Store and runs the handler registered for their queue.
type Worker struct {
	store    Store
	handlers map[string]Handler
	workerID uuid.UUID
	mu       sync.RWMutex
	wg       sync.WaitGroup

	concurrency    int
	pollWait       time.Duration
	handlerTimeout time.Duration
	retryBackoff   time.Duration
	logger         *slog.Logger

	cancel context.CancelFunc
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithConcurrency sets how many items are processed at once.
func WithConcurrency(n int) WorkerOption {
	return func(w *Worker) {
		if n > 0 {
			w.concurrency = n
		}
	}
}

// WithPollWait sets how long a single Pop waits for new items.
func WithPollWait(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.pollWait = d
		}
	}
}

// WithHandlerTimeout bounds a single handler run.
func WithHandlerTimeout(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.handlerTimeout = d
		}
	}
}

// WithRetryBackoff sets the base delay before a failed item is retried.
// The n-th retry waits n times this long.
func WithRetryBackoff(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.retryBackoff = d
		}
	}
}

// WithWorkerLogger sets the logger.
func WithWorkerLogger(l *slog.Logger) WorkerOption {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWorker creates a worker reading from store.
func NewWorker(store Store, opts ...WorkerOption) (*Worker, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	w := &Worker{
		store:          store,
		handlers:       make(map[string]Handler),
		workerID:       uuid.New(),
		concurrency:    1,
		pollWait:       time.Second,
		handlerTimeout: 5 * time.Minute,
		retryBackoff:   DefaultRetryBackoff,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With(logger.Component("workqueue"), slog.String("worker_id", w.workerID.String()))
	return w, nil
}

// Handle registers h for queue, replacing any previous handler.
func (w *Worker) Handle(queue string, h Handler) {
	if queue == "" || h == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[queue] = h
}

// Queues returns the registered queue names in sorted order.
func (w *Worker) Queues() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Sorted(maps.Keys(w.handlers))
}

// Start launches the processing loops in the background.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel != nil {
		return ErrAlreadyStarted
	}
	if len(w.handlers) == 0 {
		return ErrNoHandlers
	}

	ctx, w.cancel = context.WithCancel(ctx)
	queues := slices.Sorted(maps.Keys(w.handlers))

	for range w.concurrency {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.loop(ctx, queues)
		}()
	}

	w.logger.Info("worker started",
		slog.Any("queues", queues),
		slog.Int("concurrency", w.concurrency))
	return nil
}

// Stop stops pulling new items and waits for running handlers to finish.
func (w *Worker) Stop() error {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel == nil {
		return ErrNotStarted
	}
	cancel()

	w.logger.Info("worker stopping, waiting for active items to complete")
	w.wg.Wait()
	w.logger.Info("worker stopped")
	return nil
}

// Run starts the worker and returns a function suitable for errgroup.
// The function blocks until ctx is done and the worker has drained.
func (w *Worker) Run(ctx context.Context) func() error {
	return func() error {
		if err := w.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		return w.Stop()
	}
}

func (w *Worker) loop(ctx context.Context, queues []string) {
	for {
		if ctx.Err() != nil {
			return
		}

		item, err := w.store.Pop(ctx, queues, w.pollWait)
		if err != nil {
			if errors.Is(err, ErrNoItem) || ctx.Err() != nil {
				continue
			}
			w.logger.Error("failed to pop item", logger.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(w.pollWait):
			}
			continue
		}

		if err := w.process(ctx, item); err != nil {
			w.logger.Error("failed to settle item",
				logger.Queue(item.Queue),
				slog.String("item_id", item.ID.String()),
				logger.Error(err))
		}
	}
}

// process runs the handler for item and settles the outcome.
// Handlers are detached from worker cancellation so shutdown lets them finish.
func (w *Worker) process(ctx context.Context, item *Item) (retErr error) {
	start := time.Now()
	item.Attempt++

	w.mu.RLock()
	h, ok := w.handlers[item.Queue]
	w.mu.RUnlock()
	if !ok {
		item.LastError = "no handler registered for queue " + item.Queue
		return w.store.DeadLetter(context.WithoutCancel(ctx), item)
	}

	hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.handlerTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("handler panicked",
				logger.Queue(item.Queue),
				slog.String("item_id", item.ID.String()),
				slog.Any("panic", r))
			retErr = w.fail(hctx, item, fmt.Errorf("panic in handler: %v", r), time.Since(start))
		}
	}()

	if err := h.Handle(hctx, item.Payload); err != nil {
		return w.fail(hctx, item, err, time.Since(start))
	}

	w.logger.Info("item processed",
		logger.Queue(item.Queue),
		slog.String("item_id", item.ID.String()),
		slog.Int("attempt", item.Attempt),
		logger.Duration(time.Since(start)))
	return nil
}

func (w *Worker) fail(ctx context.Context, item *Item, execErr error, d time.Duration) error {
	item.LastError = execErr.Error()

	w.logger.Error("item failed",
		logger.Queue(item.Queue),
		slog.String("item_id", item.ID.String()),
		slog.Int("attempt", item.Attempt),
		slog.Int("max_attempts", item.MaxAttempts),
		logger.Duration(d),
		logger.Error(execErr))

	if item.Exhausted() || errors.Is(execErr, ErrPermanent) {
		if err := w.store.DeadLetter(ctx, item); err != nil {
			return fmt.Errorf("failed to dead-letter item %s: %w", item.ID, err)
		}
		w.logger.Warn("item moved to dead letter queue",
			logger.Queue(item.Queue),
			slog.String("item_id", item.ID.String()))
		return nil
	}

	delay := time.Duration(item.Attempt) * w.retryBackoff
	item.NotBefore = time.Now().Add(delay)
	if err := w.store.Push(ctx, item); err != nil {
		return fmt.Errorf("failed to requeue item %s: %w", item.ID, err)
	}
	w.logger.Info("item scheduled for retry",
		logger.Queue(item.Queue),
		slog.String("item_id", item.ID.String()),
		slog.Duration("delay", delay))
	return nil
}
