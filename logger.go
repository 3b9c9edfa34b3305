package evec

import (
	"context"
	"log/slog"
	"os"

	"golang.org/x/time/rate"
)

// Logger wraps slog.Logger with vector-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithOp adds an operation name field to the logger.
func (l *Logger) WithOp(op string) *Logger {
	return &Logger{
		Logger: l.Logger.With("op", op),
	}
}

// WithElementSize adds an element size field to the logger.
func (l *Logger) WithElementSize(size int) *Logger {
	return &Logger{
		Logger: l.Logger.With("element_size", size),
	}
}

// LogCreate logs the creation of a backing block.
func (l *Logger) LogCreate(elementSize, slots int) {
	l.WithElementSize(elementSize).Debug("vector created",
		"slots", slots,
	)
}

// LogGrow logs a reallocation of a backing block.
func (l *Logger) LogGrow(elementSize, oldSlots, newSlots int) {
	l.WithElementSize(elementSize).Debug("vector grown",
		"old_slots", oldSlots,
		"new_slots", newSlots,
	)
}

// LogFree logs the release of a backing block.
func (l *Logger) LogFree(bytes int) {
	l.Debug("vector freed",
		"bytes", bytes,
	)
}

// LogWarn logs a recoverable condition, such as popping an empty vector.
func (l *Logger) LogWarn(op, msg string) {
	l.Warn(msg,
		"op", op,
	)
}

// LogFailure logs a failed operation. Failures the caller gets back as an
// error are logged at warning level; fatal ones at error level.
func (l *Logger) LogFailure(op string, err error, fatal bool) {
	level := slog.LevelWarn
	if fatal {
		level = slog.LevelError
	}
	l.WithOp(op).Log(context.Background(), level, "vector operation failed",
		"error", err,
		"fatal", fatal,
	)
}

// RateLimitedHandler drops warning and lower records once its token bucket is
// empty. Error records always pass.
type RateLimitedHandler struct {
	next    slog.Handler
	limiter *rate.Limiter
}

// NewRateLimitedHandler wraps next with a limiter allowing perSecond records and
// bursts of burst. A non-positive perSecond disables limiting and returns next.
func NewRateLimitedHandler(next slog.Handler, perSecond float64, burst int) slog.Handler {
	if perSecond <= 0 {
		return next
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimitedHandler{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Enabled implements slog.Handler.
func (h *RateLimitedHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *RateLimitedHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level < slog.LevelError && !h.limiter.Allow() {
		return nil
	}
	return h.next.Handle(ctx, r)
}

// WithAttrs implements slog.Handler. The returned handler shares the limiter.
func (h *RateLimitedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &RateLimitedHandler{next: h.next.WithAttrs(attrs), limiter: h.limiter}
}

// WithGroup implements slog.Handler. The returned handler shares the limiter.
func (h *RateLimitedHandler) WithGroup(name string) slog.Handler {
	return &RateLimitedHandler{next: h.next.WithGroup(name), limiter: h.limiter}
}
