package logging_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/dicomstd/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	original := *logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	buf := &bytes.Buffer{}
	logging.SetDefault(zerolog.New(buf).Level(zerolog.InfoLevel))

	logging.Debug().Msg("debug message")
	logging.Info().Msg("info message")
	logging.Warn().Msg("warning message")

	output := buf.String()
	assert.Contains(t, output, "info message")
	assert.Contains(t, output, "warning message")
	assert.NotContains(t, output, "debug message")
}

func TestContextLogger(t *testing.T) {
	testLogger := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithRunID(ctx, "run-123")
	ctx = logging.WithModule(ctx, "patient")
	ctx = logging.WithOperation(ctx, "hierarchy")

	logging.FromContext(ctx).Info().Msg("test message")

	testLogger.AssertContains(t, `"run_id":"run-123"`)
	testLogger.AssertContains(t, `"module":"patient"`)
	testLogger.AssertContains(t, `"operation":"hierarchy"`)
	assert.Equal(t, "run-123", logging.RunID(ctx))
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Equal(t, logging.Default(), logging.FromContext(context.Background()))
	//nolint:staticcheck // nil context is handled explicitly
	assert.Equal(t, logging.Default(), logging.FromContext(nil))
	assert.Equal(t, "", logging.RunID(context.Background()))
}

func TestWithFields(t *testing.T) {
	testLogger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithFields(ctx, map[string]any{
		"count": 3,
		"ok":    true,
		"error": errors.New("boom"),
	})

	logging.Ctx(ctx).Info().Msg("fields")

	testLogger.AssertContains(t, `"count":3`)
	testLogger.AssertContains(t, `"ok":true`)
	testLogger.AssertContains(t, `"error":"boom"`)
}

func TestConfigure(t *testing.T) {
	original := *logging.Default()
	oldLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		logging.SetDefault(original)
		zerolog.SetGlobalLevel(oldLevel)
	})

	logging.Configure(&logging.Config{Level: "error", Output: "discard"})
	assert.Equal(t, zerolog.ErrorLevel, logging.Default().GetLevel())
}

func TestNewLoggerFromConfig(t *testing.T) {
	oldLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(oldLevel) })

	t.Run("file output in json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dicomstd.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:  "warn",
			Format: "json",
			Output: path,
			Fields: map[string]any{"component": "test"},
		})

		logger.Info().Msg("skipped")
		logger.Warn().Msg("kept")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"message":"kept"`)
		assert.Contains(t, string(data), `"component":"test"`)
		assert.NotContains(t, string(data), "skipped")
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		logger := logging.NewLoggerFromConfig(&logging.Config{Level: "loud", Output: "discard"})
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		logger := logging.NewLoggerFromConfig(nil)
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})
}

func TestTestLogger(t *testing.T) {
	testLogger := logging.NewTestLogger(t)
	testLogger.Debug().Msg("first")
	testLogger.Info().Msg("second")

	lines := testLogger.Lines()
	require.Len(t, lines, 2)
	assert.True(t, strings.Contains(lines[0], "first"))
	testLogger.AssertNotContains(t, "third")
}
