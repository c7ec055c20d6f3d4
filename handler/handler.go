package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/consolekit/pkg/k8s"
	"github.com/dmitrymomot/consolekit/pkg/logger"
)

// Response renders itself to an http.ResponseWriter.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Func handles a request and returns the response to render.
type Func func(r *http.Request) Response

// ErrorHandler writes the response for a failed request.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// WrapOption configures Wrap.
type WrapOption func(*wrapConfig)

type wrapConfig struct {
	logger       *slog.Logger
	errorHandler ErrorHandler
}

// WithLogger logs server-side failures.
func WithLogger(l *slog.Logger) WrapOption {
	return func(c *wrapConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithErrorHandler replaces the default plain-text error response.
func WithErrorHandler(h ErrorHandler) WrapOption {
	return func(c *wrapConfig) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// Wrap adapts f to http.HandlerFunc. A nil response or a render failure
// goes through the error handler.
//
//	r.Get("/flags", handler.Wrap(func(r *http.Request) handler.Response {
//		flags, err := store.List(r.Context())
//		if err != nil {
//			return handler.Error(err)
//		}
//		return handler.JSON(flags)
//	}))
func Wrap(f Func, opts ...WrapOption) http.HandlerFunc {
	cfg := &wrapConfig{logger: logger.Discard()}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.errorHandler == nil {
		cfg.errorHandler = defaultErrorHandler(cfg.logger)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		resp := f(r)
		if resp == nil {
			cfg.errorHandler(w, r, ErrNilResponse)
			return
		}
		if err := resp.Render(w, r); err != nil {
			cfg.errorHandler(w, r, err)
		}
	}
}

// StatusOf maps err to an HTTP status: HTTPError codes are kept, cluster
// API failures become 502 except 403 and 404 which pass through.
func StatusOf(err error) int {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	switch code := k8s.StatusCode(err); {
	case code == http.StatusNotFound || code == http.StatusForbidden:
		return code
	case code != 0, errors.Is(err, k8s.ErrRequestFailed), errors.Is(err, k8s.ErrDecode):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func defaultErrorHandler(log *slog.Logger) ErrorHandler {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		code := StatusOf(err)
		if code >= http.StatusInternalServerError {
			log.ErrorContext(r.Context(), "request failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				logger.StatusCode(code),
				logger.Error(err),
			)
		}
		http.Error(w, http.StatusText(code), code)
	}
}
