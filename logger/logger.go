// Package logger configures the process-wide slog logger and carries a
// per-calculation batch ID through context.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

type ctxKey string

const batchIDKey ctxKey = "batchID"

// InitLogger installs the default logger writing to stderr.
func InitLogger(cfg Config) *slog.Logger {
	return InitLoggerWithWriter(cfg, os.Stderr)
}

// InitLoggerWithWriter installs the default logger writing to w.
func InitLoggerWithWriter(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     cfg.LogLevel(),
		AddSource: cfg.AddSource,
	}
	var handler slog.Handler
	if cfg.IsJSON() {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	handler = handler.WithAttrs(cfg.BaseAttributes())
	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

// GenerateBatchID creates a new UUID identifying one calculation.
func GenerateBatchID() string {
	return uuid.NewString()
}

// WithBatchID returns a new context containing the batch ID.
func WithBatchID(ctx context.Context, batchID string) context.Context {
	return context.WithValue(ctx, batchIDKey, batchID)
}

// BatchIDFromContext extracts the batch ID from the context, if present.
func BatchIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(batchIDKey).(string)
	return id, ok
}

// FromContext returns a logger that includes the batch_id attribute when present.
func FromContext(ctx context.Context) *slog.Logger {
	if id, ok := BatchIDFromContext(ctx); ok {
		return slog.Default().With(AttrKeyBatchID, id)
	}
	return slog.Default()
}
