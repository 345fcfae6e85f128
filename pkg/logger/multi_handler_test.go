package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingHandler struct {
	slog.Handler
	err error
}

func (h *failingHandler) Handle(context.Context, slog.Record) error { return h.err }

func TestMultiHandlerFanOut(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	h := newMultiHandler(slog.NewJSONHandler(&a, nil), slog.NewJSONHandler(&b, nil))
	log := slog.New(h)

	log.Info("both")
	assert.Contains(t, a.String(), "both")
	assert.Contains(t, b.String(), "both")
}

func TestMultiHandlerDeliversPastFailure(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := slog.NewJSONHandler(&buf, nil)
	boom := errors.New("sink unavailable")
	h := newMultiHandler(&failingHandler{Handler: sink, err: boom}, sink)

	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "delivered", 0)
	err := h.Handle(context.Background(), rec)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, buf.String(), "delivered")
}
