package timer

import "errors"

// ErrInvalidInterval is the panic value for non-positive Every intervals.
var ErrInvalidInterval = errors.New("timer: interval must be positive")
