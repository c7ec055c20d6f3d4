package detector_test

import (
	"context"
	"sync"

	"github.com/dmitrymomot/consolekit/pkg/detector"
	"github.com/dmitrymomot/consolekit/pkg/feature"
)

// recorder captures every dispatch in order.
type recorder struct {
	mu    sync.Mutex
	calls []detector.Assignment
}

func (r *recorder) SetFlag(_ context.Context, name string, v feature.Value) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, detector.Assignment{Flag: name, Value: v})
}

func (r *recorder) Calls() []detector.Assignment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]detector.Assignment(nil), r.calls...)
}
