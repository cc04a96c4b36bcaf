package health_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/liftoff"
	"github.com/dmitrymomot/liftoff/core/config"
	"github.com/dmitrymomot/liftoff/core/health"
	"github.com/dmitrymomot/liftoff/core/logger"
	"github.com/dmitrymomot/liftoff/core/route"
)

func serve(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Code, strings.TrimSpace(rec.Body.String())
}

func finalize(t *testing.T, fairing *health.Fairing, routes ...*route.Route) http.Handler {
	t.Helper()
	f, err := liftoff.Custom(config.Map{"LOG_LEVEL": "error"}, liftoff.WithLogOutput(io.Discard)).
		Attach(fairing).
		Mount("/", routes...).
		Finalize(context.Background())
	require.NoError(t, err)
	return f.Handler()
}

func TestLiveness(t *testing.T) {
	t.Parallel()

	h := finalize(t, health.New(), route.Get("/ping", health.NoContent))

	code, body := serve(t, h, "/health/live")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ALIVE", body)

	code, _ = serve(t, h, "/ping")
	assert.Equal(t, http.StatusNoContent, code)
}

func TestFairingReadiness(t *testing.T) {
	t.Parallel()

	var failing atomic.Bool
	fairing := health.New(
		health.WithBase("/probe"),
		health.WithCheck(func(context.Context) error {
			if failing.Load() {
				return errors.New("database down")
			}
			return nil
		}),
	)
	h := finalize(t, fairing)

	code, _ := serve(t, h, "/probe/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code, "not ready before liftoff")

	fairing.OnLiftoff(context.Background(), nil)
	assert.True(t, fairing.Ready())
	code, body := serve(t, h, "/probe/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "READY", body)

	failing.Store(true)
	code, _ = serve(t, h, "/probe/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	failing.Store(false)

	fairing.OnShutdown(context.Background(), nil)
	assert.False(t, fairing.Ready())
	code, _ = serve(t, h, "/probe/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)

	fairing.OnLiftoff(context.Background(), nil)
	assert.True(t, fairing.Ready(), "ready again after relaunch")
}

func TestFairingIsSingleton(t *testing.T) {
	t.Parallel()

	b := liftoff.Custom(config.Map{}, liftoff.WithLogOutput(io.Discard)).
		Attach(health.New()).
		Attach(health.New(health.WithBase("/hc")))
	assert.Len(t, b.Fairings(), 1)
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	ok := func(context.Context) error { return nil }
	bad := func(context.Context) error { return errors.New("cache down") }

	tests := []struct {
		name   string
		checks []health.Check
		status int
	}{
		{"no checks", nil, http.StatusOK},
		{"passing", []health.Check{ok, ok}, http.StatusOK},
		{"failing", []health.Check{ok, bad}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := finalize(t, health.New(), route.Get("/ready", health.Readiness(logger.Nop(), tt.checks...)))
			code, _ := serve(t, h, "/ready")
			assert.Equal(t, tt.status, code)
		})
	}
}
