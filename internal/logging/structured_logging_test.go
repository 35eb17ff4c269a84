package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredLogger(t *testing.T) {
	t.Run("creates JSON logger with proper configuration", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		logger.Info("test message",
			slog.String("component", "test"),
			slog.Int("count", 42))

		output := buf.String()
		assert.Contains(t, output, `"level":"INFO"`)
		assert.Contains(t, output, `"msg":"test message"`)
		assert.Contains(t, output, `"component":"test"`)
		assert.Contains(t, output, `"count":42`)
		assert.Contains(t, output, `"time":`)
	})

	t.Run("respects log level configuration", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelWarn)

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warning message")

		output := buf.String()
		assert.NotContains(t, output, "debug message")
		assert.NotContains(t, output, "info message")
		assert.Contains(t, output, "warning message")
	})
}

func TestNewLoggerForEnv(t *testing.T) {
	t.Run("development uses text output", func(t *testing.T) {
		var buf bytes.Buffer
		NewLoggerForEnv(&buf, "development", false).Debug("dev message")
		assert.Contains(t, buf.String(), "level=DEBUG")
		assert.Contains(t, buf.String(), `msg="dev message"`)
	})

	t.Run("production uses JSON at info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerForEnv(&buf, "production", false)
		logger.Debug("hidden")
		logger.Info("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), `"msg":"shown"`)
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		var buf bytes.Buffer
		NewLoggerForEnv(&buf, "production", true).Debug("now shown")
		assert.Contains(t, buf.String(), "now shown")
	})
}

func TestLoggerHelpers(t *testing.T) {
	t.Run("LogError creates structured error log", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogError(logger, "failed to fetch trips", assert.AnError,
			slog.String("source", "trips.csv"))

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, `"msg":"failed to fetch trips"`)
		assert.Contains(t, output, `"error":"`+assert.AnError.Error()+`"`)
		assert.Contains(t, output, `"source":"trips.csv"`)
	})

	t.Run("LogError tolerates nil logger and nil error", func(t *testing.T) {
		LogError(nil, "nothing", assert.AnError)

		var buf bytes.Buffer
		LogError(NewStructuredLogger(&buf, slog.LevelInfo), "no error attached", nil)
		assert.NotContains(t, buf.String(), `"error"`)
	})

	t.Run("LogOperation skips zero durations", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogOperation(logger, "snapshot_swapped",
			slog.Int("stations", 3),
			slog.Duration("duration", 0))

		output := buf.String()
		assert.Contains(t, output, `"msg":"snapshot_swapped"`)
		assert.Contains(t, output, `"stations":3`)
		assert.NotContains(t, output, `"duration"`)
	})

	t.Run("LogDataLoad records dataset details", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogDataLoad(logger, "trips", "testdata/trips.csv", 12, 5*time.Millisecond)

		output := buf.String()
		assert.Contains(t, output, `"msg":"dataset_loaded"`)
		assert.Contains(t, output, `"dataset":"trips"`)
		assert.Contains(t, output, `"count":12`)
		assert.Contains(t, output, `"duration"`)
	})

	t.Run("LogHTTPRequest logs request details", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogHTTPRequest(logger, "GET", "/api/where/stations.json", 200, 12.5,
			slog.String("user_agent", "test-agent"))

		output := buf.String()
		assert.Contains(t, output, `"msg":"http_request"`)
		assert.Contains(t, output, `"method":"GET"`)
		assert.Contains(t, output, `"path":"/api/where/stations.json"`)
		assert.Contains(t, output, `"status":200`)
		assert.Contains(t, output, `"duration_ms":12.5`)
		assert.Contains(t, output, `"user_agent":"test-agent"`)
	})
}

func TestContextLogger(t *testing.T) {
	t.Run("stores and retrieves logger from context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		ctx := WithLogger(context.Background(), logger)
		retrieved := FromContext(ctx)
		require.NotNil(t, retrieved)

		retrieved.Info("from context")
		assert.Contains(t, buf.String(), "from context")
	})

	t.Run("returns default logger when not in context", func(t *testing.T) {
		assert.Equal(t, slog.Default(), FromContext(context.Background()))
	})
}
