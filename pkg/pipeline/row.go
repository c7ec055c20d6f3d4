package pipeline

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/consolekit/pkg/k8s"
	"github.com/dmitrymomot/consolekit/pkg/resourceui"
)

// timestampLayout is used for run completion times.
const timestampLayout = "Jan 2, 2006, 3:04 PM"

var columnClasses = [7]string{
	"",
	"",
	"pf-m-hidden pf-m-visible-on-md",
	"pf-m-hidden pf-m-visible-on-lg",
	"pf-m-hidden pf-m-visible-on-lg",
	"pf-m-hidden pf-m-visible-on-xl",
	"dropdown-kebab-pf pf-c-table__action",
}

// Action is an entry of the row actions menu.
type Action struct {
	ID    string
	Label string
}

// Actions returns the row actions available for p.
func Actions(p Pipeline) []Action {
	actions := []Action{{ID: "start", Label: "Start"}}
	if p.LatestRun != nil {
		actions = append(actions, Action{ID: "start-last-run", Label: "Start last run"})
	}
	return append(actions,
		Action{ID: "edit-labels", Label: "Edit labels"},
		Action{ID: "edit-annotations", Label: "Edit annotations"},
		Action{ID: "edit", Label: "Edit Pipeline"},
		Action{ID: "delete", Label: "Delete Pipeline"},
	)
}

// Row renders the list view row of a pipeline: name, namespace, last run,
// task status, run status, completion time and actions.
func Row(p Pipeline, index int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{ctx: ctx, w: w}
		run := p.LatestRun

		h.raw("<tr")
		h.attr("id", p.Metadata.UID)
		h.attr("data-test-id", p.GetNamespace()+"-"+p.GetName())
		h.attr("data-index", strconv.Itoa(index))
		h.raw(">")

		cell(h, 0, "", func() {
			h.component(resourceui.Link(k8s.PipelineModel.Reference(), p.GetName(), p.GetNamespace()))
		})
		cell(h, 1, "namespace", func() {
			h.component(resourceui.Link(k8s.NamespaceModel.Kind, p.GetNamespace(), ""))
		})
		cell(h, 2, "", func() {
			if run == nil || run.GetName() == "" {
				h.text(StatusNone)
				return
			}
			h.component(resourceui.Link(k8s.PipelineRunModel.Reference(), run.GetName(), run.GetNamespace()))
		})
		cell(h, 3, "", func() {
			if run == nil {
				h.text(StatusNone)
				return
			}
			taskStatus(h, run)
		})
		cell(h, 4, "", func() {
			status := FilterReducer(p)
			h.raw(`<span class="co-icon-and-text co-status--` + strings.ToLower(status) + `" data-test-id="status-text">`)
			h.text(status)
			h.raw("</span>")
		})
		cell(h, 5, "", func() {
			if run == nil || run.Status.CompletionTime == nil {
				h.text(StatusNone)
				return
			}
			timestamp(h, *run.Status.CompletionTime)
		})
		cell(h, 6, "", func() {
			kebab(h, Actions(p))
		})

		h.raw("</tr>")
		return h.err
	})
}

func cell(h *htmlWriter, col int, columnID string, body func()) {
	h.raw("<td")
	if columnClasses[col] != "" {
		h.attr("class", columnClasses[col])
	}
	if columnID != "" {
		h.attr("data-column-id", columnID)
	}
	h.raw(">")
	body()
	h.raw("</td>")
}

func taskStatus(h *htmlWriter, run *PipelineRun) {
	s := TaskStatusOf(run)
	href := resourceui.Path(k8s.PipelineRunModel.Reference(), run.GetName(), run.GetNamespace()) + "/logs"

	h.raw("<a")
	h.attr("href", href)
	h.attr("title", s.String())
	h.raw(` class="odc-pipeline-run-task-status">`)
	for _, seg := range []struct {
		status string
		n      int
	}{
		{StatusSucceeded, s.Succeeded},
		{StatusFailed, s.Failed},
		{StatusCancelled, s.Cancelled},
		{StatusRunning, s.Running},
		{StatusPending, s.Pending},
	} {
		if seg.n == 0 {
			continue
		}
		h.raw(`<span class="odc-pipeline-run-task-status__` + strings.ToLower(seg.status) + `"`)
		h.attr("data-count", strconv.Itoa(seg.n))
		h.raw("></span>")
	}
	h.raw("</a>")
}

func timestamp(h *htmlWriter, t time.Time) {
	t = t.UTC()
	h.raw(`<span class="co-timestamp"><time`)
	h.attr("datetime", t.Format(time.RFC3339))
	h.raw(">")
	h.text(t.Format(timestampLayout))
	h.raw("</time></span>")
}

func kebab(h *htmlWriter, actions []Action) {
	h.raw(`<div class="pf-c-dropdown" data-test-id="kebab-button">`)
	h.raw(`<button type="button" class="pf-c-dropdown__toggle pf-m-plain" aria-label="Actions">&#8942;</button>`)
	h.raw(`<ul class="pf-c-dropdown__menu" hidden>`)
	for _, a := range actions {
		h.raw("<li><button type=\"button\" class=\"pf-c-dropdown__menu-item\"")
		h.attr("data-action", a.ID)
		h.raw(">")
		h.text(a.Label)
		h.raw("</button></li>")
	}
	h.raw("</ul></div>")
}
