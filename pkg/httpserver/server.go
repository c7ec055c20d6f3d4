package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/dmitrymomot/consolekit/pkg/logger"
)

// Server runs an http.Server until its context is cancelled and then shuts
// it down gracefully.
type Server struct {
	cfg      Config
	logger   *slog.Logger
	listener net.Listener

	mu      sync.Mutex
	srv     *http.Server
	ready   chan struct{}
	stopped sync.Once
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithListener serves on an existing listener instead of Config.Addr.
func WithListener(l net.Listener) Option {
	return func(s *Server) { s.listener = l }
}

// New creates a server from cfg.
func New(cfg Config, opts ...Option) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	s := &Server{
		cfg:    cfg,
		logger: logger.Discard(),
		ready:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("httpserver"))
	return s
}

// Ready is closed once the server accepts connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the listening address, or "" before the server is ready.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil || s.srv == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run serves handler and blocks until ctx is cancelled or the listener
// fails. Cancellation triggers a graceful shutdown bounded by
// Config.ShutdownTimeout.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, errors.New("server already running"))
	}
	if s.listener == nil {
		l, err := net.Listen("tcp", s.cfg.Addr)
		if err != nil {
			s.mu.Unlock()
			return errors.Join(ErrStart, err)
		}
		s.listener = l
	}
	s.srv = &http.Server{
		Handler:      handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	srv, l := s.srv, s.listener
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(l) }()

	s.logger.InfoContext(ctx, "http server started", slog.String("addr", l.Addr().String()))
	close(s.ready)

	var err error
	select {
	case <-ctx.Done():
		err = s.Shutdown(context.WithoutCancel(ctx))
		if serveErr := <-errCh; serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			err = errors.Join(err, serveErr)
		}
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		} else {
			err = errors.Join(ErrStart, err)
		}
	}

	s.logger.InfoContext(ctx, "http server stopped")
	return err
}

// Shutdown stops the server gracefully. Repeated calls are no-ops.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	var err error
	s.stopped.Do(func() {
		if s.cfg.ShutdownTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
			defer cancel()
		}
		if shutdownErr := srv.Shutdown(ctx); shutdownErr != nil {
			s.logger.ErrorContext(ctx, "graceful shutdown failed", logger.Error(shutdownErr))
			err = errors.Join(ErrShutdown, shutdownErr)
		}
	})
	return err
}
