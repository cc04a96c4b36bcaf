package health

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/liftoff/core/handler"
	"github.com/dmitrymomot/liftoff/core/logger"
	"github.com/dmitrymomot/liftoff/core/response"
)

// Check reports whether a dependency is available.
type Check func(ctx context.Context) error

// Readiness verifies all service dependencies are functioning.
// Returns "READY" if all checks pass, 503 Service Unavailable if any fail.
//
//	b.Mount("/health", route.Get("/ready", health.Readiness(log, pg.Ping, redis.Ping)))
func Readiness(log *slog.Logger, checks ...Check) handler.HandlerFunc {
	return func(ctx *handler.Context) handler.Response {
		if err := runChecks(ctx, checks); err != nil {
			log.ErrorContext(ctx, "readiness check failed", logger.Component("health"), logger.Error(err))
			return response.Error(response.ErrServiceUnavailable)
		}
		return response.String("READY")
	}
}

func runChecks(ctx context.Context, checks []Check) error {
	for _, check := range checks {
		if err := check(ctx); err != nil {
			return err
		}
	}
	return nil
}
