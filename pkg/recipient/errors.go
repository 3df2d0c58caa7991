package recipient

import "errors"

// ErrInvalidToggle is returned when the enabled setting is not true, false or auto.
var ErrInvalidToggle = errors.New("recipient: invalid allowed testing domains toggle")
