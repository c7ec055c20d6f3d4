package pipeline_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/consolekit/pkg/k8s"
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

func pipelineObj(name, namespace string, labels map[string]string, tasks ...string) k8s.Resource {
	specTasks := make([]map[string]any, 0, len(tasks))
	for _, t := range tasks {
		specTasks = append(specTasks, map[string]any{"name": t})
	}
	return k8s.MustResource(map[string]any{
		"apiVersion": "tekton.dev/v1beta1",
		"kind":       "Pipeline",
		"metadata": map[string]any{
			"name":      name,
			"namespace": namespace,
			"uid":       "uid-" + name,
			"labels":    labels,
		},
		"spec": map[string]any{"tasks": specTasks},
	})
}

type runOpts struct {
	created    time.Time
	completed  *time.Time
	conditions []map[string]any
	taskRuns   map[string]any
	specStatus string
}

func runObj(name, namespace, pipelineName string, o runOpts) k8s.Resource {
	status := map[string]any{}
	if o.completed != nil {
		status["completionTime"] = o.completed.Format(time.RFC3339)
	}
	if o.conditions != nil {
		status["conditions"] = o.conditions
	}
	if o.taskRuns != nil {
		status["taskRuns"] = o.taskRuns
	}
	spec := map[string]any{"pipelineRef": map[string]any{"name": pipelineName}}
	if o.specStatus != "" {
		spec["status"] = o.specStatus
	}
	return k8s.MustResource(map[string]any{
		"apiVersion": "tekton.dev/v1beta1",
		"kind":       "PipelineRun",
		"metadata": map[string]any{
			"name":              name,
			"namespace":         namespace,
			"labels":            map[string]string{"tekton.dev/pipeline": pipelineName},
			"creationTimestamp": o.created.Format(time.RFC3339),
		},
		"spec":   spec,
		"status": status,
	})
}

func succeeded(status, reason string) []map[string]any {
	return []map[string]any{{"type": "Succeeded", "status": status, "reason": reason}}
}
