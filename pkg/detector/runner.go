package detector

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/consolekit/pkg/feature"
	"github.com/dmitrymomot/consolekit/pkg/logger"
)

// Runner fires every registered detector and stops them on shutdown.
type Runner struct {
	registry   *Registry
	dispatcher feature.Dispatcher
	logger     *slog.Logger

	mu      sync.Mutex
	started bool
	wg      sync.WaitGroup
}

// NewRunner creates a runner for the detectors in registry.
func NewRunner(registry *Registry, dispatcher feature.Dispatcher, opts ...Option) *Runner {
	o := applyOptions(opts)
	return &Runner{
		registry:   registry,
		dispatcher: dispatcher,
		logger:     o.logger.With(logger.Component("detector_runner")),
	}
}

// Start invokes every detector once, each on its own goroutine, and
// returns immediately. ctx is handed to the detectors and bounds their
// queries and retries.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return ErrRunnerStarted
	}
	r.started = true

	entries := r.registry.Entries()
	r.logger.InfoContext(ctx, "starting feature detectors", slog.Int("count", len(entries)))

	for _, e := range entries {
		r.wg.Add(1)
		go func(e Entry) {
			defer r.wg.Done()
			defer func() {
				if v := recover(); v != nil {
					r.logger.ErrorContext(ctx, "detector panicked",
						logger.Detector(e.Name),
						slog.Any("panic", v),
					)
				}
			}()
			e.Detector.Detect(ctx, r.dispatcher)
		}(e)
	}
	return nil
}

// Wait blocks until the first invocation of every detector has returned.
// Retries and polling continue in the background.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Stop stops every detector, cancelling pending retries and polls, and
// waits for first invocations that are still running.
func (r *Runner) Stop() {
	for _, e := range r.registry.Entries() {
		e.Detector.Stop()
	}
	r.wg.Wait()
	r.logger.Info("feature detectors stopped")
}
