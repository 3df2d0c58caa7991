package notification

import "errors"

var (
	// ErrInvalidOperation is returned when no recipient remains to deliver to.
	// Retrying without changing the recipients will fail again.
	ErrInvalidOperation = errors.New("notification: a recipient must be specified")

	// ErrInvalidArgument is returned for malformed input such as an attachment
	// without a filename or without any content source.
	ErrInvalidArgument = errors.New("notification: invalid argument")

	// ErrFormat is returned when attachment content is not valid base64.
	ErrFormat = errors.New("notification: invalid format")

	// ErrTransport is returned when the mail, SMS or HTTP transport fails or
	// reports an error payload.
	ErrTransport = errors.New("notification: transport failure")

	// ErrUnsupportedKind is returned by strategies that cannot deliver a kind.
	ErrUnsupportedKind = errors.New("notification: unsupported notification kind")
)
