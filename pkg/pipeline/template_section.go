package pipeline

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// defaultImageTitle names the builder image when it has no title.
const defaultImageTitle = "this Builder Image"

// TemplateState is what the import form knows about pipeline templates.
type TemplateState struct {
	Request Request
	// BuilderImageTitle is the display title of Request.Image.
	BuilderImageTitle string
	// Template is the selected template; nil while loading or when none exists.
	Template *Pipeline
	// Existing is the pipeline already attached to the application, if any.
	Existing *Pipeline
	// NoTemplate is set once a selection finished without a template.
	NoTemplate bool
	// Enabled mirrors the "Add pipeline" checkbox.
	Enabled bool
	// Expanded shows the pipeline visualization.
	Expanded bool
}

// Attached reports whether the application already has a pipeline.
func (s TemplateState) Attached() bool {
	return s.Existing != nil
}

// Alert returns the message shown when no template matches.
func (s TemplateState) Alert() string {
	title := s.BuilderImageTitle
	if title == "" {
		title = defaultImageTitle
	}
	return AlertText(s.Request.DockerStrategy, s.Attached(), title, s.Request.Resources.ReadableName())
}

// ToggleText returns the label of the visualization toggle.
func (s TemplateState) ToggleText() string {
	if s.Expanded {
		return "Hide pipeline visualization"
	}
	return "Show pipeline visualization"
}

// TemplateSection renders the pipeline part of the import form: an info
// alert when no template exists, a loader while selecting, otherwise the
// "Add pipeline" checkbox and the visualization toggle.
func TemplateSection(state TemplateState) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{ctx: ctx, w: w}

		switch {
		case state.NoTemplate:
			infoAlert(h, state.Alert())
		case state.Template == nil:
			h.raw(`<div class="co-m-loader co-an-fade-in-out" aria-label="Loading"></div>`)
		default:
			if Changed(state.Template, state.Existing) {
				infoAlert(h, "Pipeline will be updated to match the builder Image.")
			}
			checkbox(h, state)
			visualization(h, state)
		}

		return h.err
	})
}

func infoAlert(h *htmlWriter, title string) {
	h.raw(`<div class="pf-c-alert pf-m-inline pf-m-info" aria-label="Info Alert"><h4 class="pf-c-alert__title">`)
	h.text(title)
	h.raw("</h4></div>")
}

func checkbox(h *htmlWriter, state TemplateState) {
	h.raw(`<div class="pf-c-check"><input type="checkbox" class="pf-c-check__input" id="pipeline-enabled" name="pipeline.enabled"`)
	if state.Enabled || state.Attached() {
		h.raw(" checked")
	}
	if state.Attached() {
		h.raw(" disabled")
	}
	h.raw(`><label class="pf-c-check__label" for="pipeline-enabled">`)
	h.text("Add pipeline")
	h.raw("</label></div>")
}

func visualization(h *htmlWriter, state TemplateState) {
	h.raw(`<div class="pf-c-expandable-section`)
	if state.Expanded {
		h.raw(" pf-m-expanded")
	}
	h.raw(`"><button type="button" class="pf-c-expandable-section__toggle"`)
	if state.Expanded {
		h.attr("aria-expanded", "true")
	} else {
		h.attr("aria-expanded", "false")
	}
	h.raw(">")
	h.text(state.ToggleText())
	h.raw("</button>")

	if state.Expanded {
		h.raw(`<ol class="odc-pipeline-vis-graph__stages"`)
		h.attr("data-pipeline", state.Template.GetName())
		h.raw(">")
		for _, task := range state.Template.Tasks {
			h.raw(`<li class="odc-pipeline-vis-task">`)
			h.text(task)
			h.raw("</li>")
		}
		h.raw("</ol>")
	}
	h.raw("</div>")
}
