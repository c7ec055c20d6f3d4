package detector_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/consolekit/pkg/detector"
	"github.com/dmitrymomot/consolekit/pkg/feature"
	"github.com/dmitrymomot/consolekit/pkg/k8s"
	"github.com/dmitrymomot/consolekit/pkg/timer"
)

func TestPoller_MatchStopsPolling(t *testing.T) {
	t.Parallel()
	sched := timer.NewManual()
	rec := &recorder{}

	ticks := 0
	p := detector.NewPoller("rgw", "RGW", 10*time.Second, func(context.Context) (bool, error) {
		ticks++
		return ticks == 3, nil
	}, sched)

	p.Detect(context.Background(), rec)
	assert.Equal(t, detector.PollPolling, p.State())
	assert.Empty(t, rec.Calls(), "nothing is dispatched before the first tick")

	sched.Advance(30 * time.Second)
	assert.Equal(t, []detector.Assignment{
		{Flag: "RGW", Value: feature.False},
		{Flag: "RGW", Value: feature.False},
		{Flag: "RGW", Value: feature.True},
	}, rec.Calls())
	assert.Equal(t, detector.PollMatched, p.State())
	assert.Equal(t, 0, sched.Pending())

	sched.Advance(time.Minute)
	assert.Equal(t, 3, ticks)
	assert.Len(t, rec.Calls(), 3)
}

func TestPoller_ImmediateMatchDispatchesOnce(t *testing.T) {
	t.Parallel()
	sched := timer.NewManual()
	rec := &recorder{}

	p := detector.NewPoller("rgw", "RGW", 0, func(context.Context) (bool, error) {
		return true, nil
	}, sched)

	p.Detect(context.Background(), rec)
	sched.Advance(detector.DefaultPollInterval)
	sched.Advance(5 * detector.DefaultPollInterval)

	assert.Equal(t, []detector.Assignment{{Flag: "RGW", Value: feature.True}}, rec.Calls())
}

func TestPoller_FailureGoesDormant(t *testing.T) {
	t.Parallel()
	sched := timer.NewManual()
	rec := &recorder{}

	ticks := 0
	p := detector.NewPoller("rgw", "RGW", 10*time.Second, func(context.Context) (bool, error) {
		ticks++
		return false, errors.Join(k8s.ErrRequestFailed, errors.New("boom"))
	}, sched)

	p.Detect(context.Background(), rec)
	sched.Advance(10 * time.Second)

	assert.Empty(t, rec.Calls())
	assert.Equal(t, detector.PollDormant, p.State())
	assert.Equal(t, 0, sched.Pending())

	sched.Advance(time.Minute)
	assert.Equal(t, 1, ticks)
}

func TestPoller_FailureAfterNoMatchKeepsLastValue(t *testing.T) {
	t.Parallel()
	sched := timer.NewManual()
	rec := &recorder{}

	ticks := 0
	p := detector.NewPoller("rgw", "RGW", time.Second, func(context.Context) (bool, error) {
		ticks++
		if ticks == 2 {
			return false, &k8s.StatusError{Code: 403}
		}
		return false, nil
	}, sched)

	p.Detect(context.Background(), rec)
	sched.Advance(5 * time.Second)

	assert.Equal(t, []detector.Assignment{{Flag: "RGW", Value: feature.False}}, rec.Calls())
	assert.Equal(t, detector.PollDormant, p.State())
}

func TestPoller_DetectAgainReplacesTimer(t *testing.T) {
	t.Parallel()
	sched := timer.NewManual()
	rec := &recorder{}

	p := detector.NewPoller("rgw", "RGW", 10*time.Second, func(context.Context) (bool, error) {
		return false, nil
	}, sched)

	p.Detect(context.Background(), rec)
	p.Detect(context.Background(), rec)
	assert.Equal(t, 1, sched.Pending())

	sched.Advance(10 * time.Second)
	assert.Len(t, rec.Calls(), 1)
}

func TestPoller_ResultAfterStopIsIgnored(t *testing.T) {
	t.Parallel()
	sched := timer.NewManual()
	rec := &recorder{}

	var p *detector.Poller
	p = detector.NewPoller("rgw", "RGW", time.Second, func(context.Context) (bool, error) {
		// Stop arrives while the query is in flight.
		p.Stop()
		return true, nil
	}, sched)

	p.Detect(context.Background(), rec)
	sched.Advance(time.Second)

	assert.Empty(t, rec.Calls())
	assert.Equal(t, detector.PollIdle, p.State())
	assert.Equal(t, 0, sched.Pending())
}

func TestPollState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idle", detector.PollIdle.String())
	assert.Equal(t, "polling", detector.PollPolling.String())
	assert.Equal(t, "matched", detector.PollMatched.String())
	assert.Equal(t, "dormant", detector.PollDormant.String())
}
