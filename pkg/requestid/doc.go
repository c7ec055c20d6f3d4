// Package requestid tags every HTTP request with an id, propagated through
// the X-Request-ID header, the request context and log records.
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
package requestid
