package server

import (
	"fmt"
	"time"
)

// Config holds transport settings with environment variable support.
type Config struct {
	// Timeouts
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`

	// Header limits
	MaxHeaderBytes int `env:"MAX_HEADER_BYTES" envDefault:"1048576"` // 1MB
}

// DefaultConfig returns a Config with the same defaults as the env tags.
func DefaultConfig() Config {
	return Config{
		ReadTimeout:    DefaultReadTimeout,
		WriteTimeout:   DefaultWriteTimeout,
		IdleTimeout:    DefaultIdleTimeout,
		MaxHeaderBytes: DefaultMaxHeaderBytes,
	}
}

// Validate rejects negative values. Zero disables the respective limit.
func (c Config) Validate() error {
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.IdleTimeout < 0 {
		return fmt.Errorf("%w: timeouts must not be negative", ErrInvalidConfig)
	}
	if c.MaxHeaderBytes < 0 {
		return fmt.Errorf("%w: max header bytes must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Options converts the configuration into server options.
func (c Config) Options() []Option {
	return []Option{
		WithReadTimeout(c.ReadTimeout),
		WithWriteTimeout(c.WriteTimeout),
		WithIdleTimeout(c.IdleTimeout),
		WithMaxHeaderBytes(c.MaxHeaderBytes),
	}
}
