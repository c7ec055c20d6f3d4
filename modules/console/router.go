package console

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"slices"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/consolekit/handler"
	"github.com/dmitrymomot/consolekit/pkg/cache"
	"github.com/dmitrymomot/consolekit/pkg/k8s"
	"github.com/dmitrymomot/consolekit/pkg/logger"
	"github.com/dmitrymomot/consolekit/pkg/pipeline"
	"github.com/dmitrymomot/consolekit/pkg/resourceui"
	"github.com/dmitrymomot/consolekit/pkg/tablefilter"
)

// Options configures the console views.
type Options struct {
	Client k8s.Client
	Logger *slog.Logger
	// Templates caches pipeline template lists across requests.
	Templates *cache.LRU[string, []k8s.Resource]
}

// Router serves server-rendered console fragments:
//
//	GET /pipelines?namespace=&status=            pipeline list rows
//	GET /pipelines/template?image=&strategy=...  import form pipeline section
//	GET /buckets/claims?namespace=&phase=        object bucket claim rows
//	GET /buckets?phase=                          object bucket rows
func Router(opts Options) chi.Router {
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	if opts.Templates == nil {
		opts.Templates = cache.NewLRU[string, []k8s.Resource](pipeline.DefaultCacheSize)
	}
	v := &views{opts: opts}
	wrap := []handler.WrapOption{handler.WithLogger(opts.Logger)}

	r := chi.NewRouter()
	r.Get("/pipelines", handler.Wrap(v.pipelines, wrap...))
	r.Get("/pipelines/template", handler.Wrap(v.template, wrap...))
	r.Get("/buckets/claims", handler.Wrap(v.bucketClaims, wrap...))
	r.Get("/buckets", handler.Wrap(v.buckets, wrap...))
	return r
}

type views struct {
	opts Options
}

func (v *views) pipelines(r *http.Request) handler.Response {
	q := r.URL.Query()
	namespace := q.Get("namespace")
	if namespace == "" {
		return handler.Error(errors.Join(handler.ErrBadRequest, errors.New("namespace is required")))
	}

	items, err := pipeline.List(r.Context(), v.opts.Client, namespace)
	if err != nil {
		return handler.Error(err)
	}
	if statuses := q["status"]; len(statuses) > 0 {
		items = slices.DeleteFunc(items, func(p pipeline.Pipeline) bool {
			return !slices.Contains(statuses, pipeline.FilterReducer(p))
		})
	}

	rows := make([]templ.Component, 0, len(items))
	for i, p := range items {
		rows = append(rows, pipeline.Row(p, i))
	}
	return handler.Templ(tbody(rows))
}

func (v *views) template(r *http.Request) handler.Response {
	ctx := r.Context()
	q := r.URL.Query()

	state := pipeline.TemplateState{
		Request: pipeline.Request{
			Image:          q.Get("image"),
			DockerStrategy: q.Get("strategy") == "docker",
			Resources:      pipeline.ResourceType(q.Get("resources")),
		},
		BuilderImageTitle: q.Get("title"),
		Enabled:           q.Get("enabled") == "true",
		Expanded:          q.Get("expanded") == "true",
	}
	if state.Request.Image == "" && !state.Request.DockerStrategy {
		return handler.Error(errors.Join(handler.ErrBadRequest, errors.New("image or docker strategy is required")))
	}

	if name := q.Get("existing"); name != "" {
		existing, err := v.opts.Client.Fetch(ctx, k8s.PipelineModel, name, q.Get("namespace"))
		if err != nil && !k8s.IsNotFound(err) {
			return handler.Error(err)
		}
		if existing != nil {
			p, err := pipeline.NewPipeline(*existing)
			if err != nil {
				return handler.Error(err)
			}
			state.Existing = &p
		}
	}

	selector := pipeline.NewTemplateSelector(v.opts.Client,
		pipeline.WithCache(v.opts.Templates),
		pipeline.WithLogger(v.opts.Logger),
	)
	tmpl, err := selector.Select(ctx, state.Request)
	if err != nil {
		return handler.Error(err)
	}
	state.Template = tmpl
	state.NoTemplate = tmpl == nil

	return handler.Templ(pipeline.TemplateSection(state))
}

func (v *views) bucketClaims(r *http.Request) handler.Response {
	namespace := r.URL.Query().Get("namespace")
	return v.bucketRows(r, k8s.ObjectBucketClaimModel, tablefilter.OBCStatusFilter(), k8s.InNamespace(namespace))
}

func (v *views) buckets(r *http.Request) handler.Response {
	return v.bucketRows(r, k8s.ObjectBucketModel, tablefilter.OBStatusFilter())
}

func (v *views) bucketRows(r *http.Request, m k8s.Model, filter tablefilter.RowFilter, opts ...k8s.ListOption) handler.Response {
	objs, err := v.opts.Client.List(r.Context(), m, opts...)
	if err != nil {
		return handler.Error(err)
	}

	var selections map[string]*tablefilter.Selection
	if phases, ok := r.URL.Query()["phase"]; ok {
		selections = map[string]*tablefilter.Selection{
			filter.Type: tablefilter.NewSelection(tablefilter.AllPhases, phases...),
		}
	}
	visible := tablefilter.Apply([]tablefilter.RowFilter{filter}, selections, objs)

	rows := make([]templ.Component, 0, len(visible))
	for _, obj := range visible {
		rows = append(rows, bucketRow(m, obj, filter.Reducer(obj)))
	}
	return handler.Templ(tbody(rows))
}

func tbody(rows []templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<tbody>"); err != nil {
			return err
		}
		for _, row := range rows {
			if err := row.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</tbody>")
		return err
	})
}

func bucketRow(m k8s.Model, obj k8s.Resource, phase string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<tr><td>"); err != nil {
			return err
		}
		if err := resourceui.Link(m.Reference(), obj.GetName(), obj.GetNamespace()).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "</td>"); err != nil {
			return err
		}
		if m.Namespaced {
			if _, err := io.WriteString(w, `<td data-column-id="namespace">`); err != nil {
				return err
			}
			if err := resourceui.Link(k8s.NamespaceModel.Kind, obj.GetNamespace(), "").Render(ctx, w); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "</td>"); err != nil {
				return err
			}
		}
		if phase == "" {
			phase = "-"
		}
		_, err := io.WriteString(w, `<td data-test-id="status-text">`+templ.EscapeString(phase)+"</td></tr>")
		return err
	})
}
