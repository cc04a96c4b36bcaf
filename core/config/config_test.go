package config_test

import (
	"bytes"
	"encoding/base64"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/liftoff/core/config"
)

func TestFromSourceDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.FromSource(config.NewSource())
	require.NoError(t, err)

	want := config.Default()
	assert.Equal(t, want.Profile, cfg.Profile)
	assert.Equal(t, want.Endpoints, cfg.Endpoints)
	assert.Equal(t, want.ReadTimeout, cfg.ReadTimeout)
	assert.Equal(t, want.MaxHeaderBytes, cfg.MaxHeaderBytes)
	assert.Equal(t, want.Shutdown, cfg.Shutdown)
	assert.True(t, cfg.IsDebug())
	assert.False(t, cfg.SecretKey.Provided())
}

func TestSourcePrecedence(t *testing.T) {
	t.Parallel()

	src := config.NewSource(
		config.Map{"profile": "staging", "shutdown_grace": "1s"},
	).Merge(config.Map{"PROFILE": "release", "ENDPOINTS": "127.0.0.1:0,127.0.0.1:1"})

	cfg, err := config.FromSource(src)
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Profile)
	assert.Equal(t, time.Second, cfg.Shutdown.Grace)
	assert.Equal(t, []string{"127.0.0.1:0", "127.0.0.1:1"}, cfg.Endpoints)
	assert.Equal(t, "release", src.Profile())
}

func TestSourceMergeIsImmutable(t *testing.T) {
	t.Parallel()

	base := config.NewSource(config.Map{"PROFILE": "a"})
	merged := base.Merge(config.Map{"PROFILE": "b"})

	assert.Equal(t, "a", base.Profile())
	assert.Equal(t, "b", merged.Profile())
	assert.Len(t, base.Providers(), 1)
	assert.Len(t, merged.Providers(), 2)
}

func TestSourceMergeFlattensNestedSource(t *testing.T) {
	t.Parallel()

	inner := config.NewSource(config.Map{"IDENT": "x"}, config.Map{"IDENT": "y"})
	src := config.NewSource(config.Map{"IDENT": "w"}).Merge(inner)

	assert.Len(t, src.Providers(), 3)
	cfg, err := config.Extract[config.Config](src)
	require.NoError(t, err)
	assert.Equal(t, "y", cfg.Ident)
}

func TestFromSourceInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		vals config.Map
		err  error
	}{
		{"bad duration", config.Map{"READ_TIMEOUT": "soon"}, config.ErrExtract},
		{"bad level", config.Map{"LOG_LEVEL": "loud"}, config.ErrInvalidConfig},
		{"bad format", config.Map{"LOG_FORMAT": "xml"}, config.ErrInvalidConfig},
		{"bad signal", config.Map{"SHUTDOWN_SIGNALS": "kill"}, config.ErrInvalidConfig},
		{"negative grace", config.Map{"SHUTDOWN_GRACE": "-1s"}, config.ErrInvalidConfig},
		{"bad secret", config.Map{"SECRET_KEY": "!!not-a-key!!"}, config.ErrExtract},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.FromSource(config.NewSource(tt.vals))
			require.ErrorIs(t, err, tt.err)
		})
	}
}

type appConfig struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	Workers     int    `env:"WORKERS" envDefault:"4"`
}

func TestExtractCustomType(t *testing.T) {
	t.Parallel()

	cfg, err := config.Extract[appConfig](config.NewSource(config.Map{"DATABASE_URL": "postgres://x"}))
	require.NoError(t, err)
	assert.Equal(t, "postgres://x", cfg.DatabaseURL)
	assert.Equal(t, 4, cfg.Workers)

	_, err = config.Extract[appConfig](config.NewSource())
	require.ErrorIs(t, err, config.ErrExtract)
}

func TestEnvProvider(t *testing.T) {
	t.Setenv("LIFTOFF_TEST_IDENT_CUSTOM", "custom")
	t.Setenv("OTHER_IDENT", "ignored")

	vals, err := config.Env("").Values()
	require.NoError(t, err)
	assert.Equal(t, "custom", vals["TEST_IDENT_CUSTOM"])
	_, ok := vals["OTHER_IDENT"]
	assert.False(t, ok)
}

func TestDotenvProvider(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := filepath.Join(dir, "first.env")
	second := filepath.Join(dir, "second.env")
	require.NoError(t, os.WriteFile(first, []byte("LIFTOFF_PROFILE=staging\nLIFTOFF_IDENT=one\nUNRELATED=1\n"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("LIFTOFF_IDENT=two\n"), 0o600))

	vals, err := config.Dotenv(first, filepath.Join(dir, "missing.env"), second).Values()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"PROFILE": "staging", "IDENT": "two"}, vals)
}

func TestFileProvider(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "liftoff.yaml")
	yaml := strings.Join([]string{
		"profile: release",
		"endpoints:",
		"  - 127.0.0.1:9000",
		"  - 127.0.0.1:9001",
		"shutdown:",
		"  grace: 5s",
		"  ctrlc: false",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := config.FromSource(config.NewSource(config.File(path)))
	require.NoError(t, err)
	assert.Equal(t, "release", cfg.Profile)
	assert.Equal(t, []string{"127.0.0.1:9000", "127.0.0.1:9001"}, cfg.Endpoints)
	assert.Equal(t, 5*time.Second, cfg.Shutdown.Grace)
	assert.False(t, cfg.Shutdown.CtrlC)

	vals, err := config.File(filepath.Join(dir, "missing.yaml")).Values()
	require.NoError(t, err)
	assert.Empty(t, vals)

	_, err = config.RequiredFile(filepath.Join(dir, "missing.yaml")).Values()
	require.ErrorIs(t, err, config.ErrProvider)
}

func TestSecretKey(t *testing.T) {
	t.Parallel()

	raw := bytes.Repeat([]byte{7}, 48)

	t.Run("decodes base64 from config", func(t *testing.T) {
		cfg, err := config.FromSource(config.NewSource(config.Map{
			"SECRET_KEY": base64.StdEncoding.EncodeToString(raw),
		}))
		require.NoError(t, err)
		assert.True(t, cfg.SecretKey.Provided())
		assert.False(t, cfg.SecretKey.Weak())
		assert.Equal(t, 48, cfg.SecretKey.Len())
	})

	t.Run("short keys are weak", func(t *testing.T) {
		k := config.NewSecretKey([]byte("short"))
		assert.True(t, k.Provided())
		assert.True(t, k.Weak())
	})

	t.Run("generated keys are strong but not provided", func(t *testing.T) {
		k, err := config.GenerateSecretKey()
		require.NoError(t, err)
		assert.False(t, k.Provided())
		assert.False(t, k.Weak())
		assert.Equal(t, "[generated]", k.String())
	})

	t.Run("derive is deterministic and info-bound", func(t *testing.T) {
		k := config.NewSecretKey(raw)
		a1, err := k.Derive("cookies", 32)
		require.NoError(t, err)
		a2, err := k.Derive("cookies", 32)
		require.NoError(t, err)
		b, err := k.Derive("tokens", 32)
		require.NoError(t, err)

		assert.Equal(t, a1, a2)
		assert.NotEqual(t, a1, b)
		assert.Len(t, a1, 32)

		_, err = config.SecretKey{}.Derive("x", 8)
		require.ErrorIs(t, err, config.ErrInvalidSecretKey)
	})
}

func TestConfigLogValueRedactsSecret(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.SecretKey = config.NewSecretKey(bytes.Repeat([]byte("s"), 40))

	var buf bytes.Buffer
	slog.New(slog.NewTextHandler(&buf, nil)).Info("config", slog.Any("config", cfg))

	assert.Contains(t, buf.String(), "config.secret_key=[provided]")
	assert.NotContains(t, buf.String(), "ssssssss")
}
