package handler

import (
	"encoding/json"
	"net/http"

	"github.com/a-h/templ"
)

type jsonResponse struct {
	status int
	body   any
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	data, err := json.Marshal(j.body)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	_, err = w.Write(append(data, '\n'))
	return err
}

// JSON renders v with status 200.
func JSON(v any) Response {
	return jsonResponse{status: http.StatusOK, body: v}
}

// JSONStatus renders v with the given status.
func JSONStatus(status int, v any) Response {
	return jsonResponse{status: status, body: v}
}

type templResponse struct {
	component templ.Component
}

func (t templResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return t.component.Render(r.Context(), w)
}

// Templ renders a templ component as HTML.
func Templ(c templ.Component) Response {
	return templResponse{component: c}
}
