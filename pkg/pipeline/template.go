package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/consolekit/pkg/cache"
	"github.com/dmitrymomot/consolekit/pkg/k8s"
	"github.com/dmitrymomot/consolekit/pkg/logger"
)

// DefaultCacheSize bounds the number of label selectors whose template
// lists are memoized.
const DefaultCacheSize = 64

// ResourceType is the kind of workload an import form creates.
type ResourceType string

const (
	ResourceKubernetes ResourceType = "kubernetes"
	ResourceOpenShift  ResourceType = "openshift"
	ResourceKnative    ResourceType = "knative"
)

// ReadableName returns the display name of the workload kind.
func (r ResourceType) ReadableName() string {
	switch r {
	case ResourceKubernetes:
		return "Deployment"
	case ResourceOpenShift:
		return "DeploymentConfig"
	case ResourceKnative:
		return "Knative Service"
	default:
		return string(r)
	}
}

// Request describes the import form values that drive template selection.
type Request struct {
	// Image is the selected builder image.
	Image string
	// DockerStrategy is set when the application builds from a Dockerfile.
	DockerStrategy bool
	// Resources is the workload kind the form creates.
	Resources ResourceType
}

// Labels returns the label selector used to look templates up.
func (r Request) Labels() map[string]string {
	if r.DockerStrategy {
		return map[string]string{StrategyLabel: "docker"}
	}
	return map[string]string{RuntimeLabel: r.Image}
}

// TemplateSelector finds the pipeline template matching an import form.
// Template lists are cached per label selector.
//
// Only the latest Select call counts: a call that was overtaken by a newer
// one while it was fetching returns ErrStale.
type TemplateSelector struct {
	client    k8s.Client
	namespace string
	templates *cache.LRU[string, []k8s.Resource]
	logger    *slog.Logger

	mu         sync.Mutex
	generation uint64
}

// SelectorOption configures a TemplateSelector.
type SelectorOption func(*TemplateSelector)

// WithNamespace overrides TemplateNamespace.
func WithNamespace(ns string) SelectorOption {
	return func(s *TemplateSelector) { s.namespace = ns }
}

// WithCacheSize overrides DefaultCacheSize.
func WithCacheSize(n int) SelectorOption {
	return func(s *TemplateSelector) {
		if n > 0 {
			s.templates = cache.NewLRU[string, []k8s.Resource](n)
		}
	}
}

// WithCache shares a template cache between selectors. Each import form
// gets its own selector, so superseding is tracked per form while fetched
// template lists are reused across forms.
func WithCache(c *cache.LRU[string, []k8s.Resource]) SelectorOption {
	return func(s *TemplateSelector) {
		if c != nil {
			s.templates = c
		}
	}
}

// WithLogger sets the selector logger.
func WithLogger(l *slog.Logger) SelectorOption {
	return func(s *TemplateSelector) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewTemplateSelector creates a selector backed by client.
func NewTemplateSelector(client k8s.Client, opts ...SelectorOption) *TemplateSelector {
	s := &TemplateSelector{
		client:    client,
		namespace: TemplateNamespace,
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.templates == nil {
		s.templates = cache.NewLRU[string, []k8s.Resource](DefaultCacheSize)
	}
	s.logger = s.logger.With(logger.Component("pipeline.template"))
	return s
}

// Select returns the template for req, or nil when none exists. A template
// labelled for req.Resources wins over a generic one without a type label.
func (s *TemplateSelector) Select(ctx context.Context, req Request) (*Pipeline, error) {
	gen := s.begin()

	labels := req.Labels()
	selector := k8s.LabelSelector(labels)

	items, ok := s.templates.Get(selector)
	if !ok {
		fetched, err := s.client.List(ctx, k8s.PipelineModel,
			k8s.InNamespace(s.namespace),
			k8s.WithLabelSelector(labels),
		)
		if err != nil {
			if s.stale(gen) {
				return nil, ErrStale
			}
			s.logger.WarnContext(ctx, "failed to list pipeline templates",
				slog.String("selector", selector),
				logger.StatusCode(k8s.StatusCode(err)),
				logger.Error(err),
			)
			return nil, err
		}
		s.templates.Add(selector, fetched)
		items = fetched
	}

	if s.stale(gen) {
		return nil, ErrStale
	}

	return pick(items, req.Resources)
}

func pick(items []k8s.Resource, resources ResourceType) (*Pipeline, error) {
	var chosen *k8s.Resource
	for i := range items {
		typ := items[i].GetLabels()[TypeLabel]
		if typ != "" && typ == string(resources) {
			chosen = &items[i]
			break
		}
		if chosen == nil && typ == "" {
			chosen = &items[i]
		}
	}
	if chosen == nil {
		return nil, nil
	}
	p, err := NewPipeline(*chosen)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *TemplateSelector) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

func (s *TemplateSelector) stale(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen != s.generation
}

// Invalidate forgets every cached template list.
func (s *TemplateSelector) Invalidate() {
	s.templates.Purge()
}

// AlertText returns the message shown when no template matches.
func AlertText(dockerStrategy, pipelineAttached bool, builderImage, resourceType string) string {
	switch {
	case dockerStrategy:
		return "The pipeline template for Dockerfiles is not available at this time."
	case pipelineAttached:
		return "There are no pipeline templates available for " + builderImage +
			", current pipeline will be dissociated from application."
	default:
		return "There are no pipeline templates available for " + builderImage +
			" and " + resourceType + " combination."
	}
}

// Changed reports whether template targets a different runtime than the
// pipeline already attached to the application. It is false when nothing
// is attached.
func Changed(template, existing *Pipeline) bool {
	if existing == nil {
		return false
	}
	var tmplRuntime string
	if template != nil {
		tmplRuntime = template.GetLabels()[RuntimeLabel]
	}
	return tmplRuntime != existing.GetLabels()[RuntimeLabel]
}
