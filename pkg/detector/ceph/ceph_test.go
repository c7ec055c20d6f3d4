package ceph_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/consolekit/pkg/detector"
	"github.com/dmitrymomot/consolekit/pkg/detector/ceph"
	"github.com/dmitrymomot/consolekit/pkg/feature"
	"github.com/dmitrymomot/consolekit/pkg/k8s"
	"github.com/dmitrymomot/consolekit/pkg/timer"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) List(ctx context.Context, model k8s.Model, opts ...k8s.ListOption) ([]k8s.Resource, error) {
	args := m.Called(ctx, model.Kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]k8s.Resource), args.Error(1)
}

func (m *MockClient) Fetch(ctx context.Context, model k8s.Model, name, namespace string) (*k8s.Resource, error) {
	args := m.Called(ctx, model.Kind, name, namespace)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*k8s.Resource), args.Error(1)
}

// flags collects dispatched values into a store and keeps the raw call log.
type flags struct {
	store *feature.MemoryStore
	calls []detector.Assignment
}

func newFlags() *flags {
	return &flags{store: feature.NewMemoryStore()}
}

func (f *flags) SetFlag(ctx context.Context, name string, v feature.Value) {
	f.calls = append(f.calls, detector.Assignment{Flag: name, Value: v})
	_, _ = f.store.Set(ctx, name, v)
}

func (f *flags) list(t *testing.T) map[string]bool {
	t.Helper()
	m, err := f.store.List(context.Background())
	require.NoError(t, err)
	return m
}

func storageCluster(name, phase string, external map[string]any) k8s.Resource {
	spec := map[string]any{}
	if external != nil {
		spec["externalStorage"] = external
	}
	return k8s.MustResource(map[string]any{
		"apiVersion": "ocs.openshift.io/v1",
		"kind":       "StorageCluster",
		"metadata":   map[string]any{"name": name, "namespace": ceph.StorageNamespace},
		"spec":       spec,
		"status":     map[string]any{"phase": phase},
	})
}

func csv(name, annotation string) k8s.Resource {
	meta := map[string]any{"name": name, "namespace": ceph.StorageNamespace}
	if annotation != "" {
		meta["annotations"] = map[string]string{ceph.SupportAnnotation: annotation}
	}
	return k8s.MustResource(map[string]any{"kind": "ClusterServiceVersion", "metadata": meta})
}

func storageClass(name, provisioner string) k8s.Resource {
	return k8s.MustResource(map[string]any{
		"kind":        "StorageClass",
		"metadata":    map[string]any{"name": name},
		"provisioner": provisioner,
	})
}

func TestOCSDetector(t *testing.T) {
	t.Parallel()

	t.Run("internal cluster", func(t *testing.T) {
		t.Parallel()
		client := new(MockClient)
		client.On("List", mock.Anything, "StorageCluster").Return([]k8s.Resource{
			storageCluster("ignored", "Ignored", map[string]any{"enable": true}),
			storageCluster("ocs-storagecluster", "Ready", nil),
		}, nil)

		sched := timer.NewManual()
		f := newFlags()
		ceph.NewOCSDetector(client, sched).Detect(context.Background(), f)

		assert.Equal(t, []detector.Assignment{
			{Flag: ceph.FlagOCS, Value: feature.True},
			{Flag: ceph.FlagOCSConverged, Value: feature.True},
			{Flag: ceph.FlagOCSIndependent, Value: feature.False},
		}, f.calls)
		assert.Equal(t, 0, sched.Pending())
		client.AssertExpectations(t)
	})

	t.Run("external cluster", func(t *testing.T) {
		t.Parallel()
		client := new(MockClient)
		client.On("List", mock.Anything, "StorageCluster").Return([]k8s.Resource{
			storageCluster("ocs-external-storagecluster", "Progressing", map[string]any{"enable": true}),
		}, nil)

		f := newFlags()
		ceph.NewOCSDetector(client, timer.NewManual()).Detect(context.Background(), f)

		assert.Equal(t, map[string]bool{
			ceph.FlagOCS:            true,
			ceph.FlagOCSConverged:   false,
			ceph.FlagOCSIndependent: true,
		}, f.list(t))
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		client := new(MockClient)
		client.On("List", mock.Anything, "StorageCluster").Return(nil, &k8s.StatusError{Code: 404}).Once()

		sched := timer.NewManual()
		f := newFlags()
		ceph.NewOCSDetector(client, sched).Detect(context.Background(), f)

		assert.Equal(t, []detector.Assignment{
			{Flag: ceph.FlagOCSConverged, Value: feature.False},
			{Flag: ceph.FlagOCSIndependent, Value: feature.False},
		}, f.calls)
		assert.Equal(t, 0, sched.Pending())
	})

	t.Run("forbidden withdraws without retry", func(t *testing.T) {
		t.Parallel()
		client := new(MockClient)
		client.On("List", mock.Anything, "StorageCluster").Return(nil, &k8s.StatusError{Code: 403}).Once()

		sched := timer.NewManual()
		f := newFlags()
		_, _ = f.store.Set(context.Background(), ceph.FlagOCSConverged, feature.True)

		ceph.NewOCSDetector(client, sched).Detect(context.Background(), f)

		assert.Equal(t, []detector.Assignment{
			{Flag: ceph.FlagOCSConverged, Value: feature.Unset},
			{Flag: ceph.FlagOCSIndependent, Value: feature.Unset},
		}, f.calls)
		assert.Empty(t, f.list(t))
		assert.Equal(t, 0, sched.Pending())
	})

	t.Run("bad gateway withdraws and retries", func(t *testing.T) {
		t.Parallel()
		client := new(MockClient)
		client.On("List", mock.Anything, "StorageCluster").Return(nil, &k8s.StatusError{Code: 502}).Once()
		client.On("List", mock.Anything, "StorageCluster").Return([]k8s.Resource{
			storageCluster("ocs-storagecluster", "Ready", nil),
		}, nil).Once()

		sched := timer.NewManual()
		f := newFlags()
		ceph.NewOCSDetector(client, sched).Detect(context.Background(), f)

		assert.Equal(t, []detector.Assignment{
			{Flag: ceph.FlagOCSConverged, Value: feature.Unset},
			{Flag: ceph.FlagOCSIndependent, Value: feature.Unset},
		}, f.calls)
		assert.Equal(t, []time.Duration{15 * time.Second}, sched.Delays())

		sched.Advance(15 * time.Second)
		assert.Equal(t, map[string]bool{
			ceph.FlagOCS:            true,
			ceph.FlagOCSConverged:   true,
			ceph.FlagOCSIndependent: false,
		}, f.list(t))
		assert.Equal(t, 0, sched.Pending())
		client.AssertExpectations(t)
	})

	t.Run("cluster without status retries", func(t *testing.T) {
		t.Parallel()
		client := new(MockClient)
		client.On("List", mock.Anything, "StorageCluster").Return([]k8s.Resource{
			k8s.MustResource(map[string]any{
				"kind":     "StorageCluster",
				"metadata": map[string]any{"name": "ocs-storagecluster", "namespace": ceph.StorageNamespace},
				"spec":     map[string]any{},
			}),
			storageCluster("ready", "Ready", nil),
		}, nil)

		sched := timer.NewManual()
		f := newFlags()
		ceph.NewOCSDetector(client, sched).Detect(context.Background(), f)

		assert.Empty(t, f.calls)
		assert.Equal(t, []time.Duration{detector.DefaultRetryDelay}, sched.Delays())
	})

	t.Run("no active cluster retries", func(t *testing.T) {
		t.Parallel()
		client := new(MockClient)
		client.On("List", mock.Anything, "StorageCluster").Return([]k8s.Resource{
			storageCluster("ignored", "Ignored", nil),
		}, nil)

		sched := timer.NewManual()
		f := newFlags()
		ceph.NewOCSDetector(client, sched).Detect(context.Background(), f)

		assert.Empty(t, f.calls)
		assert.Equal(t, 1, sched.Pending())

		sched.Advance(15 * time.Second)
		client.AssertNumberOfCalls(t, "List", 2)
		assert.Equal(t, 1, sched.Pending())
	})
}

func TestSupportedFeaturesDetector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		csvs    []k8s.Resource
		want    []detector.Assignment
		retries bool
	}{
		{
			name: "multus enabled",
			csvs: []k8s.Resource{
				csv("lib-bucket-provisioner.v1", ""),
				csv("ocs-operator.v4.6.0", `["kms","multus"]`),
			},
			want: []detector.Assignment{{Flag: ceph.FlagOCSMultus, Value: feature.True}},
		},
		{
			name: "multus not listed",
			csvs: []k8s.Resource{csv("ocs-operator.v4.5.0", `["kms"]`)},
			want: []detector.Assignment{{Flag: ceph.FlagOCSMultus, Value: feature.False}},
		},
		{
			name:    "operator missing",
			csvs:    []k8s.Resource{csv("etcd-operator", `["multus"]`)},
			retries: true,
		},
		{
			name:    "annotation missing",
			csvs:    []k8s.Resource{csv("ocs-operator.v4.4.0", "")},
			retries: true,
		},
		{
			name:    "annotation null",
			csvs:    []k8s.Resource{csv("ocs-operator.v4.6.0", `null`)},
			retries: true,
		},
		{
			name:    "annotation malformed",
			csvs:    []k8s.Resource{csv("ocs-operator.v4.6.0", `multus`)},
			retries: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := new(MockClient)
			client.On("List", mock.Anything, "ClusterServiceVersion").Return(tt.csvs, nil)

			sched := timer.NewManual()
			f := newFlags()
			ceph.NewSupportedFeaturesDetector(client, sched).Detect(context.Background(), f)

			assert.Equal(t, tt.want, f.calls)
			if tt.retries {
				assert.Equal(t, []time.Duration{detector.DefaultRetryDelay}, sched.Delays())
			} else {
				assert.Equal(t, 0, sched.Pending())
			}
		})
	}

	t.Run("bad gateway withdraws multus", func(t *testing.T) {
		t.Parallel()
		client := new(MockClient)
		client.On("List", mock.Anything, "ClusterServiceVersion").Return(nil, &k8s.StatusError{Code: 502})

		f := newFlags()
		ceph.NewSupportedFeaturesDetector(client, timer.NewManual()).Detect(context.Background(), f)

		assert.Equal(t, []detector.Assignment{{Flag: ceph.FlagOCSMultus, Value: feature.Unset}}, f.calls)
	})
}

func TestRGWDetector(t *testing.T) {
	t.Parallel()

	t.Run("match stops polling", func(t *testing.T) {
		t.Parallel()
		client := new(MockClient)
		client.On("List", mock.Anything, "StorageClass").Return([]k8s.Resource{
			storageClass("gp2", "kubernetes.io/aws-ebs"),
		}, nil).Once()
		client.On("List", mock.Anything, "StorageClass").Return([]k8s.Resource{
			storageClass("gp2", "kubernetes.io/aws-ebs"),
			storageClass("ocs-storagecluster-ceph-rgw", ceph.RGWProvisioner),
		}, nil).Once()

		sched := timer.NewManual()
		f := newFlags()
		d := ceph.NewRGWDetector(client, sched)
		d.Detect(context.Background(), f)

		sched.Advance(detector.DefaultPollInterval)
		assert.Equal(t, map[string]bool{ceph.FlagRGW: false}, f.list(t))

		sched.Advance(detector.DefaultPollInterval)
		assert.Equal(t, map[string]bool{ceph.FlagRGW: true}, f.list(t))
		assert.Equal(t, detector.PollMatched, d.State())
		assert.Equal(t, 0, sched.Pending())

		sched.Advance(time.Minute)
		client.AssertNumberOfCalls(t, "List", 2)
	})

	t.Run("failure goes dormant", func(t *testing.T) {
		t.Parallel()
		client := new(MockClient)
		client.On("List", mock.Anything, "StorageClass").Return(nil, errors.Join(k8s.ErrRequestFailed, errors.New("connection refused")))

		sched := timer.NewManual()
		f := newFlags()
		d := ceph.NewRGWDetector(client, sched)
		d.Detect(context.Background(), f)

		sched.Advance(time.Minute)
		assert.Empty(t, f.calls)
		assert.Equal(t, detector.PollDormant, d.State())
		client.AssertNumberOfCalls(t, "List", 1)
	})
}

func TestRegister(t *testing.T) {
	t.Parallel()

	reg := detector.NewRegistry()
	require.NoError(t, ceph.Register(reg, new(MockClient), timer.NewManual()))

	names := make([]string, 0, 3)
	for _, e := range reg.Entries() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{ceph.DetectorOCS, ceph.DetectorSupportedFeatures, ceph.DetectorRGW}, names)

	err := ceph.Register(reg, new(MockClient), timer.NewManual())
	assert.ErrorIs(t, err, detector.ErrDuplicateDetector)
}
