// Package email delivers email messages through a pluggable Transport after
// removing recipients that are not allowed in the current environment.
//
// A Service owns the recipient filter and the attachment resolver. Send is the
// synchronous path; SendAsync and SendNotification return an *async.Task and
// abort the in-flight transport operation when the caller's context is
// canceled. A send whose To, CC and BCC lists are all empty after filtering
// fails with notification.ErrInvalidOperation without touching the transport.
//
// Transports:
//
//   - SMTPTransport delivers through an SMTP relay (github.com/wneessen/go-mail).
//   - PostmarkTransport delivers through the Postmark API.
//   - DevTransport writes messages to a directory for local development.
//
// Basic usage:
//
//	transport, err := email.NewTransport(cfg)
//	if err != nil {
//		return err
//	}
//	svc := email.NewService(transport, email.WithFilter(filter))
//	err = svc.SendNotification(ctx, n).Wait()
package email
