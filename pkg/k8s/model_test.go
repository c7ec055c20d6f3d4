package k8s_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/consolekit/pkg/k8s"
)

func TestReferenceForModel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Namespace", k8s.ReferenceForModel(k8s.NamespaceModel))
	assert.Equal(t, "tekton.dev~v1beta1~Pipeline", k8s.PipelineModel.Reference())
	assert.Equal(t, "storage.k8s.io/v1", k8s.StorageClassModel.GroupVersion())
	assert.Equal(t, "v1", k8s.PodModel.GroupVersion())
}

func TestKindForReference(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Pipeline", k8s.KindForReference("tekton.dev~v1beta1~Pipeline"))
	assert.Equal(t, "Pod", k8s.KindForReference("Pod"))
}

func TestModelFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ref  string
		want string
		ok   bool
	}{
		{ref: "tekton.dev~v1beta1~PipelineRun", want: "PipelineRun", ok: true},
		{ref: "StorageClass", want: "StorageClass", ok: true},
		{ref: "Namespace", want: "Namespace", ok: true},
		{ref: "example.com~v1~StorageClass", ok: false},
		{ref: "Widget", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			t.Parallel()
			m, ok := k8s.ModelFor(tt.ref)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, m.Kind)
		})
	}
}
