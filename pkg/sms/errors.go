package sms

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

var ErrInvalidConfig = errors.New("sms: invalid config")

// TransportError carries the provider's failure details.
type TransportError struct {
	To       string
	Code     int
	Message  string
	MoreInfo string
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("sms: send to %s failed: code %d: %s", e.To, e.Code, e.Message)
	if e.MoreInfo != "" {
		msg += " (" + e.MoreInfo + ")"
	}
	return msg
}

func (e *TransportError) Unwrap() error { return notification.ErrTransport }
