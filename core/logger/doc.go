// Package logger provides structured logging utilities built on Go's standard slog package.
//
// New builds a *slog.Logger from functional options. The level can be bound to
// a slog.LevelVar so that a running instance can change its verbosity after the
// logger has been handed out:
//
//	lv := new(slog.LevelVar)
//	log := logger.New(
//		logger.WithLevelVar(lv),
//		logger.WithJSONFormatter(),
//		logger.WithAttr(slog.String("service", "api")),
//	)
//
//	level, _ := logger.ParseLevel("debug")
//	lv.Set(level)
//
// # Attribute Helpers
//
// Helpers return ready-made slog.Attr values. Helpers taking errors or
// identifiers return an empty Attr for nil or empty input, which slog drops:
//
//	log.Error("bind failed",
//		logger.Component("orbit"),
//		logger.Endpoint(addr),
//		logger.Error(err),
//	)
//
//	log.Info("fairing finished",
//		logger.Fairing("Metrics"),
//		logger.Stage("liftoff"),
//		logger.Elapsed(start),
//	)
package logger
