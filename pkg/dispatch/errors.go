package dispatch

import "errors"

var ErrUnknownStrategy = errors.New("dispatch: unknown strategy")
