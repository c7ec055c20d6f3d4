package detector

import (
	"context"

	"github.com/dmitrymomot/consolekit/pkg/feature"
)

// Detector determines one or more flag values from cluster state.
//
// Detect is fire-and-forget: failures are handled inside the detector and
// only ever show up as flag values. A detector may keep working after
// Detect returns (retries, polling) until Stop is called.
type Detector interface {
	Detect(ctx context.Context, d feature.Dispatcher)
	Stop()
}

// Func adapts a plain function into a Detector with no background work.
type Func func(ctx context.Context, d feature.Dispatcher)

// Detect calls f(ctx, d).
func (f Func) Detect(ctx context.Context, d feature.Dispatcher) {
	f(ctx, d)
}

// Stop is a no-op.
func (Func) Stop() {}

// Assignment is a single flag value produced by a probe.
type Assignment struct {
	Flag  string
	Value feature.Value
}

// Set returns an Assignment of a boolean value.
func Set(flag string, v bool) Assignment {
	return Assignment{Flag: flag, Value: feature.Bool(v)}
}

func dispatchAll(ctx context.Context, d feature.Dispatcher, flags []string, v feature.Value) {
	for _, f := range flags {
		d.SetFlag(ctx, f, v)
	}
}
