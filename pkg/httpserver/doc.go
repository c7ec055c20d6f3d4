// Package httpserver runs an HTTP handler with configurable timeouts and a
// graceful shutdown tied to a context, and provides liveness and readiness
// handlers.
//
//	srv := httpserver.New(cfg.HTTP, httpserver.WithLogger(log))
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
//
// Readiness checks run with the request context:
//
//	r.Get("/readyz", httpserver.ReadinessHandler(log,
//		httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)},
//	))
package httpserver
