// Package dispatch routes notifications to a delivery strategy.
//
// Every strategy implements Sender:
//
//   - Direct delivers email and SMS in the caller's context through
//     email.Service and sms.Service. Push notifications are not supported.
//   - Queued enqueues the notification on the queue named after its kind and
//     returns once the enqueue is acknowledged.
//   - Remote posts the notification as JSON to a remote notification service.
//   - NoOp only logs.
//
// New picks the strategy from Config at construction time. RegisterConsumers
// attaches Direct delivery to a workqueue.Worker so queued email and SMS are
// eventually delivered.
package dispatch
