package evec

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.LogCreate(4, 8)
	logger.LogGrow(4, 8, 16)
	logger.LogFree(112)
	logger.LogWarn("pop", "pop on empty vector")
	logger.LogFailure("index", errors.New("boom"), true)
	logger.WithOp("sort").WithElementSize(8).Info("done")

	out := buf.String()
	assert.Contains(t, out, `"msg":"vector created","element_size":4,"slots":8`)
	assert.Contains(t, out, `"old_slots":8,"new_slots":16`)
	assert.Contains(t, out, `"msg":"vector freed","bytes":112`)
	assert.Contains(t, out, `"level":"WARN","msg":"pop on empty vector","op":"pop"`)
	assert.Contains(t, out, `"op":"index","error":"boom","fatal":true`)
	assert.Contains(t, out, `"op":"sort","element_size":8`)
}

func TestNoopLogger(t *testing.T) {
	logger := NoopLogger()
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
	logger.LogFailure("push", errors.New("ignored"), false)
}

func TestRateLimitedHandler(t *testing.T) {
	t.Run("DropsBelowError", func(t *testing.T) {
		var buf bytes.Buffer
		next := slog.NewTextHandler(&buf, nil)
		logger := slog.New(NewRateLimitedHandler(next, 0.001, 2))

		for range 10 {
			logger.Warn("noisy")
		}
		logger.Error("important")
		logger.Error("important")

		out := buf.String()
		assert.Equal(t, 2, strings.Count(out, "noisy"))
		assert.Equal(t, 2, strings.Count(out, "important"))
	})

	t.Run("SharedLimiter", func(t *testing.T) {
		var buf bytes.Buffer
		h := NewRateLimitedHandler(slog.NewTextHandler(&buf, nil), 0.001, 1)
		a := slog.New(h).With("vector", "a")
		b := slog.New(h).WithGroup("g")

		a.Warn("first")
		b.Warn("second")

		out := buf.String()
		assert.Contains(t, out, "first")
		assert.NotContains(t, out, "second")
	})

	t.Run("Disabled", func(t *testing.T) {
		next := slog.NewTextHandler(&bytes.Buffer{}, nil)
		assert.Same(t, next, NewRateLimitedHandler(next, 0, 10))
	})

	t.Run("Enabled", func(t *testing.T) {
		next := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})
		h := NewRateLimitedHandler(next, 1, 1)
		assert.False(t, h.Enabled(t.Context(), slog.LevelInfo))
		assert.True(t, h.Enabled(t.Context(), slog.LevelWarn))
	})
}

func TestLogFailureLevels(t *testing.T) {
	var buf bytes.Buffer
	next := slog.NewTextHandler(&buf, nil)
	logger := NewLogger(NewRateLimitedHandler(next, 0.001, 1))

	for range 5 {
		logger.LogFailure("at", errors.New("out of range"), false)
	}
	logger.LogFailure("push", errors.New("no memory"), true)

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "level=WARN"))
	assert.Equal(t, 1, strings.Count(out, "level=ERROR"))
	assert.Contains(t, out, "op=push")
}

func TestEnvLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	v, err := NewWithCapacity[int](1, WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, v.PushAll(1, 2))
	_, err = v.At(5)
	require.Error(t, err)
	require.NoError(t, v.Free())

	out := buf.String()
	assert.Contains(t, out, "vector created")
	assert.Contains(t, out, "vector grown")
	assert.Contains(t, out, "op=at")
	assert.Contains(t, out, "vector freed")
}
