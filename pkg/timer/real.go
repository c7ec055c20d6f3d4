package timer

import (
	"sync"
	"time"
)

// Real is a Scheduler backed by the runtime timers.
// Each recurring callback runs on its own goroutine.
type Real struct {
	mu      sync.Mutex
	nextID  uint64
	cancels map[uint64]func()
	stopped bool
	wg      sync.WaitGroup
}

// NewReal creates a wall-clock scheduler.
func NewReal() *Real {
	return &Real{cancels: make(map[uint64]func())}
}

// Schedule runs fn once after delay on a timer goroutine.
// After Stop it returns a zero Handle and fn never runs.
func (r *Real) Schedule(fn func(), delay time.Duration) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return Handle{}
	}
	r.nextID++
	id := r.nextID

	r.wg.Add(1)
	t := time.AfterFunc(delay, func() {
		defer r.wg.Done()
		if !r.release(id) {
			return
		}
		fn()
	})
	r.cancels[id] = func() {
		// A timer that already fired releases the group itself.
		if t.Stop() {
			r.wg.Done()
		}
	}

	return Handle{id: id}
}

// Every starts a goroutine that runs fn every interval until cancelled.
// After Stop it returns a zero Handle.
// Panics with ErrInvalidInterval if interval is not positive.
func (r *Real) Every(fn func(), interval time.Duration) Handle {
	if interval <= 0 {
		panic(ErrInvalidInterval)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return Handle{}
	}
	r.nextID++
	id := r.nextID

	stop := make(chan struct{})
	var once sync.Once
	r.cancels[id] = func() { once.Do(func() { close(stop) }) }

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
			}
			// A tick and a cancel can be ready together; cancel wins.
			select {
			case <-stop:
				return
			default:
			}
			fn()
		}
	}()

	return Handle{id: id}
}

// Cancel stops the callback identified by h.
func (r *Real) Cancel(h Handle) {
	r.mu.Lock()
	cancel, ok := r.cancels[h.id]
	delete(r.cancels, h.id)
	r.mu.Unlock()

	if ok {
		cancel()
	}
}

// Stop cancels every outstanding callback and waits for callbacks that
// are running to finish. Later Schedule and Every calls do nothing.
func (r *Real) Stop() {
	r.mu.Lock()
	r.stopped = true
	cancels := r.cancels
	r.cancels = make(map[uint64]func())
	r.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	r.wg.Wait()
}

// release removes a one-shot entry when it fires.
// It reports false if the entry was cancelled concurrently.
func (r *Real) release(id uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cancels[id]; !ok {
		return false
	}
	delete(r.cancels, id)
	return true
}
