package logger

import (
	"io"
	"log/slog"
)

// NewNope creates a logger that discards every record. It is the default
// logger for apps constructed without a logging option.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
