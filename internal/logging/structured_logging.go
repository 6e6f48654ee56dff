package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// loggerKey is used to store the logger in context
type loggerKey struct{}

// NewStructuredLogger creates a new structured logger with JSON output
func NewStructuredLogger(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}
	handler := slog.NewJSONHandler(w, opts)
	return slog.New(handler)
}

// ParseLevel maps a level name (debug, info, warn, error) to a slog.Level. Unknown names give Info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogError logs an error with structured context
func LogError(logger *slog.Logger, message string, err error, attrs ...slog.Attr) {
	if logger == nil {
		return
	}

	args := make([]any, 0, len(attrs)+1)
	if err != nil {
		args = append(args, slog.String("error", err.Error()))
	}
	for _, attr := range attrs {
		args = append(args, attr)
	}

	logger.Error(message, args...)
}

// LogOperation logs an operation with structured context
func LogOperation(logger *slog.Logger, operation string, attrs ...slog.Attr) {
	if logger == nil {
		return
	}

	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		// Skip zero-value durations
		if attr.Key == "duration" && attr.Value.Kind() == slog.KindDuration && attr.Value.Duration() == 0 {
			continue
		}
		args = append(args, attr)
	}

	logger.Info(operation, args...)
}

// LogSkippedRecords warns about malformed schedule rows that were left out of a result.
// Nothing is logged when count is zero.
func LogSkippedRecords(logger *slog.Logger, kind string, count int, attrs ...slog.Attr) {
	if logger == nil || count == 0 {
		return
	}

	args := make([]any, 0, len(attrs)+2)
	args = append(args,
		slog.String("kind", kind),
		slog.Int("count", count),
	)
	for _, attr := range attrs {
		args = append(args, attr)
	}

	logger.Warn("skipped malformed records", args...)
}

// LogHTTPRequest logs one served request. Server errors log at ERROR, client errors at WARN.
func LogHTTPRequest(logger *slog.Logger, method, path string, status int, durationMs float64, attrs ...slog.Attr) {
	if logger == nil {
		return
	}

	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	}

	all := append([]slog.Attr{
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("duration_ms", durationMs),
	}, attrs...)

	logger.LogAttrs(context.Background(), level, "http_request", all...)
}

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext retrieves a logger from the context, or returns a default logger
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}

	return slog.Default()
}

// OrDefault returns logger, or slog.Default() when logger is nil.
func OrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
