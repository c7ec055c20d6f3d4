package detector

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/consolekit/pkg/feature"
	"github.com/dmitrymomot/consolekit/pkg/k8s"
	"github.com/dmitrymomot/consolekit/pkg/logger"
	"github.com/dmitrymomot/consolekit/pkg/timer"
)

// ProbeFunc queries the cluster and derives flag values from the result.
type ProbeFunc func(ctx context.Context) ([]Assignment, error)

// OneShot runs its probe once per Detect call and reschedules itself
// through the scheduler after transient failures.
//
// On success every assignment is dispatched in order. On failure:
//   - 404: every owned flag is set to False and nothing is retried;
//   - otherwise owned flags are withdrawn when the policy says so, and a
//     retry of the whole detector is scheduled unless the status is
//     excluded from retries.
type OneShot struct {
	name      string
	owned     []string
	probe     ProbeFunc
	scheduler timer.Scheduler
	policy    Policy
	logger    *slog.Logger

	mu      sync.Mutex
	retry   timer.Handle
	stopped bool
}

// Option configures detectors built by this package.
type Option func(*options)

type options struct {
	policy Policy
	logger *slog.Logger
}

// WithPolicy overrides DefaultPolicy.
func WithPolicy(p Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithLogger sets the logger used to report failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{
		policy: DefaultPolicy(),
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewOneShot creates a one-shot detector. owned lists the flags that are
// set to False on 404 and withdrawn on ambiguous failures.
func NewOneShot(name string, owned []string, probe ProbeFunc, scheduler timer.Scheduler, opts ...Option) *OneShot {
	o := applyOptions(opts)
	return &OneShot{
		name:      name,
		owned:     owned,
		probe:     probe,
		scheduler: scheduler,
		policy:    o.policy,
		logger:    o.logger.With(logger.Detector(name)),
	}
}

// Name returns the detector name.
func (o *OneShot) Name() string {
	return o.name
}

// Detect runs the probe and dispatches its outcome.
func (o *OneShot) Detect(ctx context.Context, d feature.Dispatcher) {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	// An explicit run supersedes a pending retry.
	if o.retry.Valid() {
		o.scheduler.Cancel(o.retry)
		o.retry = timer.Handle{}
	}
	o.mu.Unlock()

	assignments, err := o.probe(ctx)
	if o.isStopped() {
		return
	}
	if err == nil {
		for _, a := range assignments {
			d.SetFlag(ctx, a.Flag, a.Value)
		}
		return
	}

	status := k8s.StatusCode(err)
	if k8s.IsNotFound(err) {
		o.logger.InfoContext(ctx, "feature not present", logger.StatusCode(status))
		dispatchAll(ctx, d, o.owned, feature.False)
		return
	}

	if o.policy.Withdraw(status) {
		dispatchAll(ctx, d, o.owned, feature.Unset)
	}

	if !o.policy.Retry(status) {
		o.logger.WarnContext(ctx, "detection failed, not retrying",
			logger.StatusCode(status),
			logger.Error(err),
		)
		return
	}

	if ctx.Err() != nil {
		return
	}

	o.logger.WarnContext(ctx, "detection failed, retrying",
		logger.StatusCode(status),
		logger.RetryIn(o.policy.RetryDelay),
		logger.Error(err),
	)
	o.scheduleRetry(ctx, d)
}

// scheduleRetry re-submits Detect through the scheduler. A pending retry is
// replaced, so at most one retry is outstanding.
func (o *OneShot) scheduleRetry(ctx context.Context, d feature.Dispatcher) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.stopped {
		return
	}
	if o.retry.Valid() {
		o.scheduler.Cancel(o.retry)
	}
	o.retry = o.scheduler.Schedule(func() { o.Detect(ctx, d) }, o.policy.RetryDelay)
}

func (o *OneShot) isStopped() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stopped
}

// Stop cancels a pending retry. Results of a probe still in flight are
// discarded. Later Detect calls do nothing.
func (o *OneShot) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.stopped = true
	if o.retry.Valid() {
		o.scheduler.Cancel(o.retry)
		o.retry = timer.Handle{}
	}
}
