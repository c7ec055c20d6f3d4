package feature_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/consolekit/pkg/feature"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		t.Parallel()
		store := feature.NewMemoryStore()

		changed, err := store.Set(ctx, "RGW", feature.True)
		require.NoError(t, err)
		assert.True(t, changed)

		enabled, err := store.Get(ctx, "RGW")
		require.NoError(t, err)
		assert.True(t, enabled)

		changed, err = store.Set(ctx, "RGW", feature.False)
		require.NoError(t, err)
		assert.True(t, changed)

		enabled, err = store.Get(ctx, "RGW")
		require.NoError(t, err)
		assert.False(t, enabled)
	})

	t.Run("SameValueIsNotAChange", func(t *testing.T) {
		t.Parallel()
		store := feature.NewMemoryStore()

		changed, err := store.Set(ctx, "OCS", feature.False)
		require.NoError(t, err)
		assert.True(t, changed)

		changed, err = store.Set(ctx, "OCS", feature.False)
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("UnsetWithdrawsAssertion", func(t *testing.T) {
		t.Parallel()
		store := feature.NewMemoryStore()

		_, err := store.Set(ctx, "OCS_CONVERGED", feature.True)
		require.NoError(t, err)

		changed, err := store.Set(ctx, "OCS_CONVERGED", feature.Unset)
		require.NoError(t, err)
		assert.True(t, changed)

		_, err = store.Get(ctx, "OCS_CONVERGED")
		assert.ErrorIs(t, err, feature.ErrFlagNotFound)

		changed, err = store.Set(ctx, "OCS_CONVERGED", feature.Unset)
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("EmptyName", func(t *testing.T) {
		t.Parallel()
		store := feature.NewMemoryStore()

		_, err := store.Set(ctx, "", feature.True)
		require.Error(t, err)
		assert.ErrorIs(t, err, feature.ErrInvalidFlag)
		assert.Contains(t, err.Error(), "flag name cannot be empty")
	})

	t.Run("ListReturnsCopy", func(t *testing.T) {
		t.Parallel()
		store := feature.NewMemoryStore()
		_, _ = store.Set(ctx, "A", feature.True)
		_, _ = store.Set(ctx, "B", feature.False)

		flags, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]bool{"A": true, "B": false}, flags)

		flags["A"] = false
		enabled, err := store.Get(ctx, "A")
		require.NoError(t, err)
		assert.True(t, enabled)
	})

	t.Run("Closed", func(t *testing.T) {
		t.Parallel()
		store := feature.NewMemoryStore()
		require.NoError(t, store.Close())

		_, err := store.Set(ctx, "A", feature.True)
		assert.ErrorIs(t, err, feature.ErrStoreClosed)
		_, err = store.Get(ctx, "A")
		assert.ErrorIs(t, err, feature.ErrStoreClosed)
		_, err = store.List(ctx)
		assert.ErrorIs(t, err, feature.ErrStoreClosed)
	})

	t.Run("ConcurrentWriters", func(t *testing.T) {
		t.Parallel()
		store := feature.NewMemoryStore()

		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, _ = store.Set(ctx, "RGW", feature.Bool(i%2 == 0))
				_, _ = store.List(ctx)
			}(i)
		}
		wg.Wait()

		_, err := store.Get(ctx, "RGW")
		assert.NoError(t, err)
	})
}

func TestValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		value  feature.Value
		str    string
		json   string
		isSet  bool
		asBool bool
	}{
		{name: "true", value: feature.True, str: "true", json: "true", isSet: true, asBool: true},
		{name: "false", value: feature.False, str: "false", json: "false", isSet: true},
		{name: "unset", value: feature.Unset, str: "unset", json: "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.str, tt.value.String())
			assert.Equal(t, tt.isSet, tt.value.IsSet())

			b, ok := tt.value.Bool()
			assert.Equal(t, tt.isSet, ok)
			assert.Equal(t, tt.asBool, b)

			data, err := json.Marshal(tt.value)
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(data))

			var decoded feature.Value
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, tt.value, decoded)
		})
	}

	assert.Equal(t, feature.True, feature.Bool(true))
	assert.Equal(t, feature.False, feature.Bool(false))
	assert.Equal(t, feature.Unset, feature.Value(0))
}
