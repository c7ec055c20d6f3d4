package timer

import "time"

// Handle identifies a scheduled callback. The zero Handle is never
// returned by a scheduler and cancelling it is a no-op.
type Handle struct {
	id uint64
}

// Valid reports whether h was returned by a scheduler.
func (h Handle) Valid() bool {
	return h.id != 0
}

// Scheduler runs callbacks after a delay or on a fixed interval.
//
// Callbacks registered with Every never overlap: the next tick is not
// delivered while the previous callback is still running. Cancel stops
// future invocations; a callback that is already running is not
// interrupted.
type Scheduler interface {
	// Schedule runs fn once after delay.
	Schedule(fn func(), delay time.Duration) Handle

	// Every runs fn every interval, first after one interval.
	Every(fn func(), interval time.Duration) Handle

	// Cancel stops the callback identified by h. It is safe to call more
	// than once and from inside the callback itself.
	Cancel(h Handle)
}
