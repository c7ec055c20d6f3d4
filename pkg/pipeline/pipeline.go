package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/consolekit/pkg/k8s"
)

// Labels and namespaces used by pipeline templates and runs.
const (
	RuntimeLabel  = "pipeline.openshift.io/runtime"
	TypeLabel     = "pipeline.openshift.io/type"
	StrategyLabel = "pipeline.openshift.io/strategy"

	// PipelineLabel is set by Tekton on every run to the pipeline name.
	PipelineLabel = "tekton.dev/pipeline"

	// TemplateNamespace holds the cluster-provided pipeline templates.
	TemplateNamespace = "openshift"
)

// Condition is a status condition of a run or task run.
type Condition struct {
	Type    string `json:"type"`
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// TaskRun is the status entry of one task of a pipeline run.
type TaskRun struct {
	PipelineTaskName string `json:"pipelineTaskName"`
	Status           struct {
		Conditions []Condition `json:"conditions,omitempty"`
	} `json:"status"`
}

// RunSpec is the part of a PipelineRun spec the console reads.
type RunSpec struct {
	PipelineRef struct {
		Name string `json:"name"`
	} `json:"pipelineRef"`
	Status string `json:"status,omitempty"`
}

// RunStatus is the part of a PipelineRun status the console reads.
type RunStatus struct {
	CompletionTime *time.Time         `json:"completionTime,omitempty"`
	Conditions     []Condition        `json:"conditions,omitempty"`
	TaskRuns       map[string]TaskRun `json:"taskRuns,omitempty"`
}

// PipelineRun is a single execution of a pipeline.
type PipelineRun struct {
	k8s.Resource
	Spec   RunSpec
	Status RunStatus
}

// Pipeline is a pipeline together with its most recent run.
type Pipeline struct {
	k8s.Resource
	Tasks     []string
	LatestRun *PipelineRun
}

// NewPipeline decodes the fields the console needs from a Pipeline object.
func NewPipeline(r k8s.Resource) (Pipeline, error) {
	var doc struct {
		Spec struct {
			Tasks []struct {
				Name string `json:"name"`
			} `json:"tasks"`
		} `json:"spec"`
	}
	if err := r.Decode(&doc); err != nil {
		return Pipeline{}, errors.Join(ErrInvalidPipeline, err)
	}

	p := Pipeline{Resource: r}
	for _, t := range doc.Spec.Tasks {
		p.Tasks = append(p.Tasks, t.Name)
	}
	return p, nil
}

// NewPipelineRun decodes a PipelineRun object.
func NewPipelineRun(r k8s.Resource) (PipelineRun, error) {
	var doc struct {
		Spec   RunSpec   `json:"spec"`
		Status RunStatus `json:"status"`
	}
	if err := r.Decode(&doc); err != nil {
		return PipelineRun{}, errors.Join(ErrInvalidPipeline, err)
	}
	return PipelineRun{Resource: r, Spec: doc.Spec, Status: doc.Status}, nil
}

// PipelineName returns the pipeline the run belongs to.
func (r PipelineRun) PipelineName() string {
	if name := r.GetLabels()[PipelineLabel]; name != "" {
		return name
	}
	return r.Spec.PipelineRef.Name
}

// Condition returns the condition of the given type, or nil.
func (r PipelineRun) Condition(typ string) *Condition {
	for i := range r.Status.Conditions {
		if r.Status.Conditions[i].Type == typ {
			return &r.Status.Conditions[i]
		}
	}
	return nil
}

// Augment pairs every pipeline with its latest run, by creation time.
func Augment(pipelines, runs []k8s.Resource) ([]Pipeline, error) {
	type key struct{ namespace, name string }

	latest := make(map[key]*PipelineRun, len(runs))
	for _, r := range runs {
		run, err := NewPipelineRun(r)
		if err != nil {
			return nil, err
		}
		k := key{run.GetNamespace(), run.PipelineName()}
		if cur, ok := latest[k]; !ok || run.Metadata.CreationTimestamp.After(cur.Metadata.CreationTimestamp) {
			latest[k] = &run
		}
	}

	out := make([]Pipeline, 0, len(pipelines))
	for _, r := range pipelines {
		p, err := NewPipeline(r)
		if err != nil {
			return nil, err
		}
		p.LatestRun = latest[key{p.GetNamespace(), p.GetName()}]
		out = append(out, p)
	}
	return out, nil
}

// List returns the pipelines of a namespace with their latest runs.
func List(ctx context.Context, client k8s.Client, namespace string) ([]Pipeline, error) {
	pipelines, err := client.List(ctx, k8s.PipelineModel, k8s.InNamespace(namespace))
	if err != nil {
		return nil, err
	}
	runs, err := client.List(ctx, k8s.PipelineRunModel, k8s.InNamespace(namespace))
	if err != nil {
		return nil, err
	}
	return Augment(pipelines, runs)
}
