package feature

import (
	"context"
	"encoding/json"
)

// Value is the tri-state value of a console feature flag.
// The zero value is Unset.
type Value int8

const (
	// Unset withdraws any previous assertion about the flag.
	Unset Value = iota
	// False asserts the capability is definitively absent.
	False
	// True asserts the capability is present.
	True
)

// Bool converts a boolean into a flag value.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// Bool returns the boolean form of the value and whether the value is set.
func (v Value) Bool() (value bool, ok bool) {
	switch v {
	case True:
		return true, true
	case False:
		return false, true
	default:
		return false, false
	}
}

// IsSet reports whether the value carries an assertion.
func (v Value) IsSet() bool {
	return v == True || v == False
}

func (v Value) String() string {
	switch v {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unset"
	}
}

// MarshalJSON encodes Unset as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if b, ok := v.Bool(); ok {
		return json.Marshal(b)
	}
	return []byte("null"), nil
}

// UnmarshalJSON decodes true, false and null.
func (v *Value) UnmarshalJSON(data []byte) error {
	var b *bool
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	if b == nil {
		*v = Unset
		return nil
	}
	*v = Bool(*b)
	return nil
}

// Dispatcher is the sink detectors report flag values to.
// SetFlag never fails from the caller's point of view; implementations
// handle and log their own storage errors.
type Dispatcher interface {
	SetFlag(ctx context.Context, name string, value Value)
}

// DispatcherFunc adapts a plain function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, name string, value Value)

// SetFlag calls f(ctx, name, value).
func (f DispatcherFunc) SetFlag(ctx context.Context, name string, value Value) {
	f(ctx, name, value)
}

// Store is the interface that all flag stores must implement.
type Store interface {
	// Set stores the value. Unset removes the flag.
	// It reports whether the observable state changed.
	Set(ctx context.Context, name string, value Value) (bool, error)

	// Get returns the asserted value of the flag.
	// If the flag is unset, it returns false and ErrFlagNotFound.
	Get(ctx context.Context, name string) (bool, error)

	// List returns every asserted flag.
	List(ctx context.Context) (map[string]bool, error)

	// Close releases any resources used by the store.
	Close() error
}
