package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/liftoff/core/logger"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("text output at info by default", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf))

		log.Debug("hidden")
		log.Info("shown", logger.Component("test"))

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "msg=shown")
		assert.Contains(t, out, "component=test")
	})

	t.Run("json output with static attrs", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(
			logger.WithOutput(&buf),
			logger.WithJSONFormatter(),
			logger.WithAttr(slog.String("service", "api")),
		)

		log.Info("hello")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "hello", rec["msg"])
		assert.Equal(t, "api", rec["service"])
	})

	t.Run("level var can be changed after construction", func(t *testing.T) {
		var buf bytes.Buffer
		lv := new(slog.LevelVar)
		lv.Set(slog.LevelError)
		log := logger.New(logger.WithOutput(&buf), logger.WithLevelVar(lv))

		log.Info("before")
		lv.Set(slog.LevelDebug)
		log.Debug("after")

		assert.NotContains(t, buf.String(), "before")
		assert.Contains(t, buf.String(), "after")
	})
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"normal", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"critical", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := logger.ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	off, err := logger.ParseLevel("off")
	require.NoError(t, err)
	assert.Greater(t, off, slog.LevelError)

	_, err = logger.ParseLevel("loud")
	require.ErrorIs(t, err, logger.ErrUnknownLevel)
}
