// Package logger builds the slog loggers used across consolekit.
//
// New creates a *slog.Logger configured by Option functions: output format
// (text or json), minimum level, static attributes and ContextExtractor
// callbacks that pull values such as the request id out of the context on
// every record.
//
// Attribute helpers (Flag, Detector, StatusCode, Resource, Error, ...) keep
// key names consistent between detectors, stores and the HTTP daemon.
//
//	log := logger.New(
//		logger.WithEnvironment(environment.Production, "featured"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.WarnContext(ctx, "detector failed",
//		logger.Detector("ocs"),
//		logger.StatusCode(502),
//		logger.Error(err),
//	)
//
// Error and StatusCode return an empty slog.Attr for nil errors and zero
// codes, so callers can pass them unconditionally.
package logger
