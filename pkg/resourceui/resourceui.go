package resourceui

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/consolekit/pkg/k8s"
)

// IconLabel returns the text shown inside a resource icon: the model
// abbreviation, or the first three letters of the kind upper-cased.
func IconLabel(kind string) string {
	if m, ok := k8s.ModelFor(kind); ok && m.Abbr != "" {
		return m.Abbr
	}
	label := []rune(strings.ToUpper(kindString(kind)))
	if len(label) > 3 {
		label = label[:3]
	}
	return string(label)
}

// IconClass returns the CSS classes of a resource icon.
func IconClass(kind, class string) string {
	classes := "co-m-resource-icon co-m-resource-" + strings.ToLower(kindString(kind))
	if class != "" {
		classes += " " + class
	}
	return classes
}

func kindString(kind string) string {
	if m, ok := k8s.ModelFor(kind); ok {
		return m.Kind
	}
	return kind
}

// Icon renders the badge identifying a resource kind. kind is a bare kind
// or a group~version~kind reference; class adds extra CSS classes.
func Icon(kind, class string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<span class="`+templ.EscapeString(IconClass(kind, class))+`">`+
			templ.EscapeString(IconLabel(kind))+`</span>`)
		return err
	})
}

// Name renders the kind icon followed by the resource name.
func Name(kind, name string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<span>"); err != nil {
			return err
		}
		if err := Icon(kind, "").Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, " "+templ.EscapeString(name)+"</span>")
		return err
	})
}

// Path returns the console URL of an object. Cluster-scoped kinds and an
// empty namespace produce a cluster path.
func Path(kind, name, namespace string) string {
	ref := kind
	if m, ok := k8s.ModelFor(kind); ok {
		ref = m.Reference()
		if !m.Namespaced {
			namespace = ""
		}
	}

	parts := []string{"/k8s"}
	if namespace != "" {
		parts = append(parts, "ns", url.PathEscape(namespace))
	} else {
		parts = append(parts, "cluster")
	}
	parts = append(parts, url.PathEscape(ref), url.PathEscape(name))
	return strings.Join(parts, "/")
}

// Link renders the kind icon and a link to the object.
func Link(kind, name, namespace string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<span class="co-resource-item">`); err != nil {
			return err
		}
		if err := Icon(kind, "").Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<a href="`+templ.EscapeString(Path(kind, name, namespace))+
			`" class="co-resource-item__resource-name" data-test-id="`+templ.EscapeString(name)+`">`+
			templ.EscapeString(name)+`</a></span>`)
		return err
	})
}

// Render renders c to a string.
func Render(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
