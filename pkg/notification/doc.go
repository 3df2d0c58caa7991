// Package notification defines the value types describing what to send and to
// whom, the error taxonomy shared by every delivery package, and the channel
// metadata (queue names, remote resources) used by the dispatch strategies.
//
// Notifications are plain values. They are built by the caller, handed to a
// sender by value and never mutated by it: senders copy recipient slices before
// applying any filtering.
//
// # Kinds
//
//   - Email: addressed to mailboxes, optionally with CC/BCC and attachments
//   - SMS: addressed to phone numbers
//   - Android: addressed to device registration ids
//   - IOS: addressed to device tokens
//
// # Errors
//
// ErrInvalidOperation, ErrInvalidArgument, ErrFormat and ErrTransport classify
// every failure the delivery packages surface. They are wrapped, never
// replaced, so callers match them with errors.Is.
package notification
