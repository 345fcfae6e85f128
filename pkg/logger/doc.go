// Package logger builds the slog loggers used across anvil applications.
//
// It adds two things on top of log/slog: per-call context extraction, so
// request-scoped values like request IDs land on every record without
// handler plumbing at each call site, and optional Sentry fan-out for
// error reporting.
//
// # Usage
//
// Create a JSON logger with extractors:
//
//	log := logger.New(middlewares.RequestIDExtractor())
//
//	log.InfoContext(ctx, "request processed", slog.Int("status", 200))
//	// {"level":"INFO","msg":"request processed","status":200,"request_id":"abc-123"}
//
// An extractor returns an attribute and whether it applies to this record:
//
//	type ContextExtractor func(ctx context.Context) (slog.Attr, bool)
//
// Extractors run on every log call, so request-scoped values stay fresh.
//
// # Sentry
//
// NewWithSentry fans records out to stdout and Sentry. With an empty DSN,
// or when the SDK fails to initialize, it degrades to stdout-only, so the
// same construction works in development and production:
//
//	log := logger.NewWithSentry(logger.SentryConfig{
//		DSN:         os.Getenv("SENTRY_DSN"),
//		Environment: "production",
//	}, middlewares.RequestIDExtractor())
//
// # Custom handlers
//
// NewLogHandlerDecorator wraps any slog.Handler with extraction, for
// callers that bring their own handler:
//
//	decorated := logger.NewLogHandlerDecorator(myHandler, extractors...)
//	log := slog.New(decorated)
//
// NewNope returns a discard-everything logger; anvil.New defaults to it
// when no logger option is given.
package logger
