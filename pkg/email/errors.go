package email

import "errors"

var (
	ErrInvalidConfig    = errors.New("email: invalid config")
	ErrUnknownTransport = errors.New("email: unknown transport")
)
