package detector

import (
	"errors"
	"sync"
)

// Entry is a named detector.
type Entry struct {
	Name     string
	Detector Detector
}

// Registry holds the detectors contributed by console plugins, in
// registration order.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
	names   map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Register adds a detector under name.
func (r *Registry) Register(name string, d Detector) error {
	if name == "" || d == nil {
		return errors.Join(ErrInvalidDetector, errors.New("name and detector are required"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.names[name]; exists {
		return errors.Join(ErrDuplicateDetector, errors.New(name))
	}
	r.names[name] = struct{}{}
	r.entries = append(r.entries, Entry{Name: name, Detector: d})
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, d Detector) {
	if err := r.Register(name, d); err != nil {
		panic(err)
	}
}

// Entries returns a snapshot of the registered detectors.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
