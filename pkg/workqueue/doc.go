// Package workqueue is a small at-least-once work queue used by the queued
// delivery strategy.
//
// A Client marshals payloads into Items and pushes them to a Store. A Worker
// pops items from the queues it has handlers for, runs the handler and either
// drops the item on success, pushes it back for another attempt, or moves it
// to the queue's dead-letter list once MaxAttempts is reached.
//
// Two stores are provided: MemoryStore for tests and single-process setups,
// and RedisStore, which keeps one Redis list per queue plus a ":dead" list.
//
//	store := workqueue.NewRedisStore(rdb)
//	client, _ := workqueue.NewClient(store)
//	_ = client.Enqueue(ctx, "EmailNotifications", payload)
//
//	worker, _ := workqueue.NewWorker(store, workqueue.WithConcurrency(4))
//	worker.Handle("EmailNotifications", workqueue.NewHandler(sendEmail))
//	g.Go(worker.Run(ctx))
package workqueue
