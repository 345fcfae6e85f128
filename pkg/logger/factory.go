package logger

import (
	"log/slog"
	"os"
)

// New creates a JSON logger writing to stdout at Info level, decorated
// with the given context extractors.
func New(extractors ...ContextExtractor) *slog.Logger {
	return slog.New(NewLogHandlerDecorator(newJSONHandler(), extractors...))
}

// newJSONHandler is the base handler shared by New and NewWithSentry.
func newJSONHandler() slog.Handler {
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
}
