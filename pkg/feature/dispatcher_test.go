package feature_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/consolekit/pkg/feature"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Set(ctx context.Context, name string, value feature.Value) (bool, error) {
	args := m.Called(ctx, name, value)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) Get(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) List(ctx context.Context) (map[string]bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockStore) Close() error {
	return m.Called().Error(0)
}

type change struct {
	name  string
	value feature.Value
}

func TestStoreDispatcher(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("HooksFireOnlyOnChange", func(t *testing.T) {
		t.Parallel()
		store := feature.NewMemoryStore()

		var changes []change
		d := feature.NewDispatcher(store, feature.WithChangeHook(func(_ context.Context, name string, v feature.Value) {
			changes = append(changes, change{name, v})
		}))

		d.SetFlag(ctx, "RGW", feature.False)
		d.SetFlag(ctx, "RGW", feature.False)
		d.SetFlag(ctx, "RGW", feature.True)
		d.SetFlag(ctx, "RGW", feature.Unset)
		d.SetFlag(ctx, "RGW", feature.Unset)

		assert.Equal(t, []change{
			{"RGW", feature.False},
			{"RGW", feature.True},
			{"RGW", feature.Unset},
		}, changes)
		assert.Same(t, store, d.Store())
	})

	t.Run("StoreErrorIsSwallowed", func(t *testing.T) {
		t.Parallel()
		store := new(MockStore)
		store.On("Set", mock.Anything, "OCS", feature.True).Return(false, feature.ErrOperationFailed)

		called := false
		d := feature.NewDispatcher(store, feature.WithChangeHook(func(context.Context, string, feature.Value) {
			called = true
		}))

		require.NotPanics(t, func() { d.SetFlag(ctx, "OCS", feature.True) })
		assert.False(t, called)
		store.AssertExpectations(t)
	})

	t.Run("DispatcherFunc", func(t *testing.T) {
		t.Parallel()
		var got change
		var d feature.Dispatcher = feature.DispatcherFunc(func(_ context.Context, name string, v feature.Value) {
			got = change{name, v}
		})
		d.SetFlag(ctx, "LSO", feature.True)
		assert.Equal(t, change{"LSO", feature.True}, got)
	})
}
