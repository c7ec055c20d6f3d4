package timer

import (
	"slices"
	"sync"
	"time"
)

// Manual is a Scheduler driven by Advance instead of the wall clock.
// Callbacks run synchronously on the goroutine calling Advance, in due
// order, which makes detector behaviour deterministic under test.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	nextID  uint64
	entries map[uint64]*manualEntry
}

type manualEntry struct {
	id       uint64
	due      time.Duration
	interval time.Duration
	fn       func()
}

// NewManual creates a scheduler whose clock starts at zero.
func NewManual() *Manual {
	return &Manual{entries: make(map[uint64]*manualEntry)}
}

// Schedule registers fn to run once delay after the current manual time.
func (m *Manual) Schedule(fn func(), delay time.Duration) Handle {
	return m.add(fn, delay, 0)
}

// Every registers fn to run every interval.
// Panics with ErrInvalidInterval if interval is not positive.
func (m *Manual) Every(fn func(), interval time.Duration) Handle {
	if interval <= 0 {
		panic(ErrInvalidInterval)
	}
	return m.add(fn, interval, interval)
}

// Cancel removes the entry identified by h.
func (m *Manual) Cancel(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, h.id)
}

// Advance moves the clock forward by d and runs every callback that
// becomes due, including ones scheduled by callbacks during the advance.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		e := m.nextDue(target)
		if e == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = e.due
		if e.interval > 0 {
			e.due += e.interval
		} else {
			delete(m.entries, e.id)
		}
		fn := e.fn
		m.mu.Unlock()

		fn()
	}
}

// Pending returns the number of active entries.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Delays returns the remaining delay of every active entry, shortest first.
func (m *Manual) Delays() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	delays := make([]time.Duration, 0, len(m.entries))
	for _, e := range m.entries {
		delays = append(delays, e.due-m.now)
	}
	slices.Sort(delays)
	return delays
}

// Now returns the elapsed manual time.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) add(fn func(), delay, interval time.Duration) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	e := &manualEntry{
		id:       m.nextID,
		due:      m.now + max(delay, 0),
		interval: interval,
		fn:       fn,
	}
	m.entries[e.id] = e
	return Handle{id: e.id}
}

// nextDue returns the earliest entry due at or before target.
// Ties run in registration order. Must be called with lock held.
func (m *Manual) nextDue(target time.Duration) *manualEntry {
	var next *manualEntry
	for _, e := range m.entries {
		if e.due > target {
			continue
		}
		if next == nil || e.due < next.due || (e.due == next.due && e.id < next.id) {
			next = e
		}
	}
	return next
}
