package liftoff

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/dmitrymomot/liftoff/core/config"
	"github.com/dmitrymomot/liftoff/core/logger"
)

// logSink owns the instance logger. Its level follows the configuration; its
// format is rebuilt from the configuration unless a logger was supplied.
type logSink struct {
	mu    sync.RWMutex
	level *slog.LevelVar
	out   io.Writer
	fixed bool
	log   *slog.Logger
}

func newLogSink(o options) *logSink {
	s := &logSink{level: new(slog.LevelVar), out: o.logOutput}
	if s.out == nil {
		s.out = os.Stdout
	}
	if o.logger != nil {
		s.fixed, s.log = true, o.logger
		return s
	}
	s.log = logger.New(logger.WithLevelVar(s.level), logger.WithOutput(s.out))
	return s
}

func (s *logSink) logger() *slog.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.log
}

// apply re-initializes level and format from cfg.
func (s *logSink) apply(cfg config.Config) {
	s.level.Set(cfg.Level())
	if s.fixed {
		return
	}

	opts := []logger.Option{logger.WithLevelVar(s.level), logger.WithOutput(s.out)}
	if cfg.JSONLogs() {
		opts = append(opts, logger.WithJSONFormatter())
	}

	s.mu.Lock()
	s.log = logger.New(opts...)
	s.mu.Unlock()
}
