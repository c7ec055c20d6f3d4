package feature

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/consolekit/pkg/logger"
)

// ChangeHook is called after a flag's observable value changed.
type ChangeHook func(ctx context.Context, name string, value Value)

// StoreDispatcher writes dispatched flags into a Store.
// Storage errors are logged and otherwise swallowed: a failed write leaves
// the previous value in place, which is the same outcome as a lost dispatch.
type StoreDispatcher struct {
	store  Store
	logger *slog.Logger
	hooks  []ChangeHook
}

// DispatcherOption configures a StoreDispatcher.
type DispatcherOption func(*StoreDispatcher)

// WithLogger sets the logger used to report storage failures and changes.
func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *StoreDispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithChangeHook registers a callback invoked for every effective change.
func WithChangeHook(h ChangeHook) DispatcherOption {
	return func(d *StoreDispatcher) {
		if h != nil {
			d.hooks = append(d.hooks, h)
		}
	}
}

// NewDispatcher creates a Dispatcher backed by store.
func NewDispatcher(store Store, opts ...DispatcherOption) *StoreDispatcher {
	d := &StoreDispatcher{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetFlag stores the value and fires change hooks when it changed.
// Re-dispatching the current value is a no-op.
func (d *StoreDispatcher) SetFlag(ctx context.Context, name string, value Value) {
	changed, err := d.store.Set(ctx, name, value)
	if err != nil {
		d.logger.ErrorContext(ctx, "failed to store feature flag",
			logger.Flag(name),
			logger.FlagValue(value.String()),
			logger.Error(err),
		)
		return
	}
	if !changed {
		return
	}

	d.logger.InfoContext(ctx, "feature flag changed",
		logger.Flag(name),
		logger.FlagValue(value.String()),
	)
	for _, h := range d.hooks {
		h(ctx, name, value)
	}
}

// Store returns the underlying store.
func (d *StoreDispatcher) Store() Store {
	return d.store
}
