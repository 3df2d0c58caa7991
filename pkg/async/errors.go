package async

import "errors"

var ErrTimeout = errors.New("async: operation timed out waiting for task completion")
