package liftoff

import (
	"io"
	"log/slog"
)

type options struct {
	logger    *slog.Logger
	logOutput io.Writer
}

// Option configures a new instance.
type Option func(*options)

// WithLogger uses l for all instance logging. Configuration then no longer
// changes the log format; only the level of loggers built by this package
// follows LOG_LEVEL.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithLogOutput sets where the instance logger writes. Defaults to stdout.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOutput = w }
}
