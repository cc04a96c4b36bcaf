package redis_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/liftoff"
	"github.com/dmitrymomot/liftoff/core/config"
	"github.com/dmitrymomot/liftoff/integration/database/redis"
)

func TestConnect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  redis.Config
		want error
	}{
		{"empty url", redis.Config{}, redis.ErrEmptyConnectionURL},
		{"bad scheme", redis.Config{ConnectionURL: "http://localhost:6379"}, redis.ErrFailedToParseRedisConnString},
		{"unreachable", redis.Config{ConnectionURL: "redis://127.0.0.1:1/0", RetryAttempts: 1}, redis.ErrRedisNotReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client, err := redis.Connect(context.Background(), tt.cfg)
			assert.Nil(t, client)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFairing(t *testing.T) {
	t.Parallel()

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		f := redis.New()
		_, err := liftoff.Custom(config.Map{"LOG_LEVEL": "error"}, liftoff.WithLogOutput(io.Discard)).
			Attach(f).
			Finalize(context.Background())
		require.NoError(t, err)
		assert.Nil(t, f.Client())
		assert.NoError(t, f.Ping(context.Background()))
	})

	t.Run("unreachable aborts finalize", func(t *testing.T) {
		t.Parallel()
		_, err := liftoff.Custom(config.Map{
			"LOG_LEVEL":            "error",
			"REDIS_URL":            "redis://127.0.0.1:1/0",
			"REDIS_RETRY_ATTEMPTS": "1",
		}, liftoff.WithLogOutput(io.Discard)).
			Attach(redis.New()).
			Finalize(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, liftoff.ErrFairingsAborted)
		assert.ErrorIs(t, err, redis.ErrRedisNotReady)
	})
}
