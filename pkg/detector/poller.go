package detector

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/consolekit/pkg/feature"
	"github.com/dmitrymomot/consolekit/pkg/k8s"
	"github.com/dmitrymomot/consolekit/pkg/logger"
	"github.com/dmitrymomot/consolekit/pkg/timer"
)

// DefaultPollInterval is the tick interval of recurring detectors.
const DefaultPollInterval = 10 * time.Second

// MatchFunc reports whether the cluster currently satisfies the condition
// a Poller waits for.
type MatchFunc func(ctx context.Context) (bool, error)

// PollState is the lifecycle state of a Poller.
type PollState int

const (
	// PollIdle means Detect has not been called or Stop was called.
	PollIdle PollState = iota
	// PollPolling means the recurring timer is active.
	PollPolling
	// PollMatched means the condition was met and the flag set to True.
	PollMatched
	// PollDormant means a query failed; the poller waits for a new Detect.
	PollDormant
)

func (s PollState) String() string {
	switch s {
	case PollPolling:
		return "polling"
	case PollMatched:
		return "matched"
	case PollDormant:
		return "dormant"
	default:
		return "idle"
	}
}

// Poller sets a single flag by polling until a condition is met.
//
// Every tick runs the match function: a match dispatches True and stops
// polling, no match dispatches False and keeps polling, and any query
// failure stops polling without dispatching anything.
type Poller struct {
	name      string
	flag      string
	interval  time.Duration
	match     MatchFunc
	scheduler timer.Scheduler
	logger    *slog.Logger

	mu    sync.Mutex
	run   *pollRun
	state PollState
}

// pollRun is one Detect invocation. Cancelling a run makes the results of
// an in-flight tick be ignored.
type pollRun struct {
	handle    timer.Handle
	cancelled bool
}

// NewPoller creates a recurring detector for flag.
// A non-positive interval falls back to DefaultPollInterval.
func NewPoller(name, flag string, interval time.Duration, match MatchFunc, scheduler timer.Scheduler, opts ...Option) *Poller {
	o := applyOptions(opts)
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		name:      name,
		flag:      flag,
		interval:  interval,
		match:     match,
		scheduler: scheduler,
		logger:    o.logger.With(logger.Detector(name), logger.Flag(flag)),
	}
}

// Name returns the detector name.
func (p *Poller) Name() string {
	return p.name
}

// State returns the current lifecycle state.
func (p *Poller) State() PollState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Detect starts polling. A poller that is already running is cancelled
// first, so at most one recurring timer exists per Poller.
func (p *Poller) Detect(ctx context.Context, d feature.Dispatcher) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cancelLocked()

	run := &pollRun{}
	run.handle = p.scheduler.Every(func() { p.tick(ctx, d, run) }, p.interval)
	p.run = run
	p.state = PollPolling
}

func (p *Poller) tick(ctx context.Context, d feature.Dispatcher, run *pollRun) {
	p.mu.Lock()
	cancelled := run.cancelled
	p.mu.Unlock()
	if cancelled {
		return
	}

	matched, err := p.match(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if run.cancelled {
		return
	}

	if err != nil {
		p.logger.WarnContext(ctx, "polling stopped after query failure",
			logger.StatusCode(k8s.StatusCode(err)),
			logger.Error(err),
		)
		p.cancelLocked()
		p.state = PollDormant
		return
	}

	if matched {
		d.SetFlag(ctx, p.flag, feature.True)
		p.cancelLocked()
		p.state = PollMatched
		return
	}

	d.SetFlag(ctx, p.flag, feature.False)
}

// Stop cancels polling. An in-flight tick finishes but its result is ignored.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cancelLocked()
	p.state = PollIdle
}

// Must be called with lock held.
func (p *Poller) cancelLocked() {
	if p.run == nil {
		return
	}
	p.run.cancelled = true
	p.scheduler.Cancel(p.run.handle)
	p.run = nil
}
