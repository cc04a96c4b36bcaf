package liftoff_test

import (
	"errors"
	"io"
	"maps"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/liftoff"
	"github.com/dmitrymomot/liftoff/core/config"
)

// testSource binds an ephemeral port and keeps shutdown short.
func testSource(overrides map[string]string) config.Map {
	m := config.Map{
		"ENDPOINTS":        "127.0.0.1:0",
		"LOG_LEVEL":        "error",
		"SHUTDOWN_GRACE":   "100ms",
		"SHUTDOWN_MERCY":   "100ms",
		"SHUTDOWN_CTRLC":   "false",
		"SHUTDOWN_SIGNALS": "usr2",
	}
	maps.Copy(m, overrides)
	return m
}

func build(overrides map[string]string) *liftoff.Building {
	return liftoff.Custom(testSource(overrides), liftoff.WithLogOutput(io.Discard))
}

// panicErr runs fn and returns the error it panicked with.
func panicErr(t *testing.T, fn func()) (err error) {
	t.Helper()
	defer func() {
		p := recover()
		require.NotNil(t, p, "expected a panic")
		e, ok := p.(error)
		require.True(t, ok, "panic value is not an error: %v", p)
		err = e
	}()
	fn()
	return nil
}

func asError(t *testing.T, err error) *liftoff.Error {
	t.Helper()
	var e *liftoff.Error
	require.True(t, errors.As(err, &e), "not a *liftoff.Error: %v", err)
	return e
}
