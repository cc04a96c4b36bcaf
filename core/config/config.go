package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/liftoff/core/logger"
	"github.com/dmitrymomot/liftoff/core/server"
	"github.com/dmitrymomot/liftoff/core/shutdown"
)

const (
	// DebugProfile is the profile in which a missing secret key is replaced
	// with an ephemeral one.
	DebugProfile = "debug"

	// ReleaseProfile is the conventional production profile.
	ReleaseProfile = "release"
)

// Config is the typed configuration extracted at finalization.
type Config struct {
	// Profile selects environment-specific behaviour.
	Profile string `env:"PROFILE" envDefault:"debug"`

	// Ident is sent in the Server response header. Empty disables it.
	Ident string `env:"IDENT" envDefault:"Liftoff"`

	// Endpoints are the addresses to bind, e.g. "127.0.0.1:8000" or
	// "unix:/run/app.sock".
	Endpoints []string `env:"ENDPOINTS" envSeparator:"," envDefault:"127.0.0.1:8000"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// Transport timeouts and limits.
	server.Config

	// Secrets enables features that need a secret key (signed cookies,
	// token signing). When enabled outside the debug profile, SecretKey must
	// be set to a strong key.
	Secrets   bool      `env:"SECRETS" envDefault:"false"`
	SecretKey SecretKey `env:"SECRET_KEY"`

	Shutdown shutdown.Config `envPrefix:"SHUTDOWN_"`
}

// Default returns the configuration produced by an empty source.
func Default() Config {
	return Config{
		Profile:   DebugProfile,
		Ident:     "Liftoff",
		Endpoints: []string{"127.0.0.1:8000"},
		LogLevel:  "info",
		LogFormat: "text",
		Config:    server.DefaultConfig(),
		Shutdown:  shutdown.DefaultConfig(),
	}
}

// FromSource extracts and validates a Config.
func FromSource(s *Source) (Config, error) {
	cfg, err := Extract[Config](s)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsDebug reports whether the debug profile is selected.
func (c Config) IsDebug() bool {
	return c.Profile == DebugProfile
}

// Validate checks values that struct tags cannot express.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Profile) == "" {
		return fmt.Errorf("%w: profile is required", ErrInvalidConfig)
	}
	if len(c.Endpoints) == 0 {
		return fmt.Errorf("%w: at least one endpoint is required", ErrInvalidConfig)
	}
	for _, e := range c.Endpoints {
		if strings.TrimSpace(e) == "" {
			return fmt.Errorf("%w: empty endpoint", ErrInvalidConfig)
		}
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.LogFormat)
	}
	if err := c.Config.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Shutdown.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() slog.Level {
	lvl, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// JSONLogs reports whether logs should be emitted as JSON.
func (c Config) JSONLogs() bool {
	return strings.EqualFold(c.LogFormat, "json")
}

// LogValue implements slog.LogValuer. The secret key is never logged.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("profile", c.Profile),
		slog.String("ident", c.Ident),
		slog.String("endpoints", strings.Join(c.Endpoints, ",")),
		slog.String("log_level", c.LogLevel),
		slog.String("log_format", c.LogFormat),
		slog.Duration("read_timeout", c.ReadTimeout),
		slog.Duration("write_timeout", c.WriteTimeout),
		slog.Duration("idle_timeout", c.IdleTimeout),
		slog.Int("max_header_bytes", c.MaxHeaderBytes),
		slog.Bool("secrets", c.Secrets),
		slog.String("secret_key", c.SecretKey.String()),
		slog.Duration("shutdown_grace", c.Shutdown.Grace),
		slog.Duration("shutdown_mercy", c.Shutdown.Mercy),
	)
}
