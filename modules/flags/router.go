package flags

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/consolekit/handler"
	"github.com/dmitrymomot/consolekit/pkg/feature"
)

// Reader is the read side of a flag store.
type Reader interface {
	Get(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) (map[string]bool, error)
}

// FlagResponse is the body of GET /{name}.
type FlagResponse struct {
	Name  string `json:"name"`
	Value bool   `json:"value"`
}

// Router serves the detected flags:
//
//	GET /        {"OCS": true, "RGW": false, ...}
//	GET /{name}  {"name": "RGW", "value": false}, 404 when unset
func Router(store Reader, log *slog.Logger) chi.Router {
	r := chi.NewRouter()
	opts := []handler.WrapOption{handler.WithLogger(log)}

	r.Get("/", handler.Wrap(func(r *http.Request) handler.Response {
		flags, err := store.List(r.Context())
		if err != nil {
			return handler.Error(storeError(err))
		}
		return handler.JSON(flags)
	}, opts...))

	r.Get("/{name}", handler.Wrap(func(r *http.Request) handler.Response {
		name := chi.URLParam(r, "name")
		value, err := store.Get(r.Context(), name)
		if err != nil {
			return handler.Error(storeError(err))
		}
		return handler.JSON(FlagResponse{Name: name, Value: value})
	}, opts...))

	return r
}

func storeError(err error) error {
	switch {
	case errors.Is(err, feature.ErrFlagNotFound), errors.Is(err, feature.ErrInvalidFlag):
		return errors.Join(handler.ErrNotFound, err)
	case errors.Is(err, feature.ErrStoreClosed):
		return errors.Join(handler.ErrServiceUnavailable, err)
	default:
		return err
	}
}
