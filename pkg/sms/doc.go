// Package sms delivers text messages to phone numbers through a Transport,
// one recipient at a time. Numbers are not filtered by environment.
//
// TwilioTransport is the production transport. A provider-reported failure
// becomes a *TransportError, which matches notification.ErrTransport with
// errors.Is.
package sms
