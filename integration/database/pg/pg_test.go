package pg_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/liftoff"
	"github.com/dmitrymomot/liftoff/core/config"
	"github.com/dmitrymomot/liftoff/integration/database/pg"
)

func finalize(t *testing.T, values config.Map, f *pg.Fairing) error {
	t.Helper()
	values["LOG_LEVEL"] = "error"
	_, err := liftoff.Custom(values, liftoff.WithLogOutput(io.Discard)).Attach(f).Finalize(context.Background())
	return err
}

func TestFairingDisabled(t *testing.T) {
	t.Parallel()

	f := pg.New()
	require.NoError(t, finalize(t, config.Map{}, f))
	assert.Nil(t, f.Pool())
	assert.NoError(t, f.Ping(context.Background()))
}

func TestFairingAborts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values config.Map
		want   error
	}{
		{
			name:   "invalid connection string",
			values: config.Map{"PG_URL": "://bad"},
			want:   pg.ErrFailedToParseDBConfig,
		},
		{
			name: "missing migrations directory",
			values: config.Map{
				"PG_URL":             "postgres://app@127.0.0.1:1/app",
				"PG_MIGRATIONS_PATH": filepath.Join(t.TempDir(), "missing"),
			},
			want: pg.ErrMigrationsDirNotFound,
		},
		{
			name: "unreachable server",
			values: config.Map{
				"PG_URL":            "postgres://app@127.0.0.1:1/app?connect_timeout=1",
				"PG_RETRY_ATTEMPTS": "1",
			},
			want: pg.ErrFailedToOpenDBConnection,
		},
		{
			name:   "invalid settings",
			values: config.Map{"PG_URL": "postgres://app@127.0.0.1:1/app", "PG_RETRY_ATTEMPTS": "many"},
			want:   config.ErrExtract,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := finalize(t, tt.values, pg.New())
			require.Error(t, err)
			assert.ErrorIs(t, err, liftoff.ErrFairingsAborted)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	wrap := func(err error) error { return fmt.Errorf("query: %w", err) }

	assert.True(t, pg.IsNotFoundError(wrap(pgx.ErrNoRows)))
	assert.False(t, pg.IsNotFoundError(errors.New("other")))

	assert.True(t, pg.IsDuplicateKeyError(wrap(&pgconn.PgError{Code: "23505"})))
	assert.False(t, pg.IsDuplicateKeyError(&pgconn.PgError{Code: "23503"}))

	assert.True(t, pg.IsForeignKeyViolationError(&pgconn.PgError{Code: "23503"}))
	assert.True(t, pg.IsTxClosedError(wrap(pgx.ErrTxClosed)))
}
