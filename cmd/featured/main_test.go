package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/consolekit/pkg/feature"
	"github.com/dmitrymomot/consolekit/pkg/httpserver"
	"github.com/dmitrymomot/consolekit/pkg/k8s"
	"github.com/dmitrymomot/consolekit/pkg/logger"
	"github.com/dmitrymomot/consolekit/pkg/requestid"
)

type emptyClient struct{}

func (emptyClient) List(context.Context, k8s.Model, ...k8s.ListOption) ([]k8s.Resource, error) {
	return nil, nil
}

func (emptyClient) Fetch(context.Context, k8s.Model, string, string) (*k8s.Resource, error) {
	return nil, &k8s.StatusError{Code: http.StatusNotFound}
}

func TestRouter(t *testing.T) {
	t.Parallel()

	store := feature.NewMemoryStore()
	_, err := store.Set(context.Background(), "RGW", feature.True)
	require.NoError(t, err)

	h := newRouter(routerDeps{
		store:  store,
		client: emptyClient{},
		checks: []httpserver.Check{{Name: "redis", Fn: func(context.Context) error {
			return errors.New("down")
		}}},
		logger: logger.Discard(),
	})

	serve := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	t.Run("Flags", func(t *testing.T) {
		t.Parallel()
		rec := serve("/flags/")
		assert.Equal(t, http.StatusOK, rec.Code)

		var flags map[string]bool
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &flags))
		assert.Equal(t, map[string]bool{"RGW": true}, flags)
		assert.True(t, requestid.Valid(rec.Header().Get(requestid.Header)))

		assert.Equal(t, http.StatusNotFound, serve("/flags/OCS").Code)
	})

	t.Run("Health", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, http.StatusOK, serve("/healthz").Code)
		assert.Equal(t, http.StatusServiceUnavailable, serve("/readyz").Code)
	})

	t.Run("Console", func(t *testing.T) {
		t.Parallel()
		rec := serve("/console/buckets")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "<tbody></tbody>", rec.Body.String())
	})
}

func TestOpenStore(t *testing.T) {
	t.Parallel()

	store, checks, err := openStore(context.Background(), Config{FlagStore: StoreMemory})
	require.NoError(t, err)
	assert.IsType(t, &feature.MemoryStore{}, store)
	assert.Empty(t, checks)

	_, _, err = openStore(context.Background(), Config{FlagStore: "etcd"})
	assert.Error(t, err)
}
