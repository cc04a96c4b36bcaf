package health

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/dmitrymomot/liftoff"
	"github.com/dmitrymomot/liftoff/core/handler"
	"github.com/dmitrymomot/liftoff/core/logger"
	"github.com/dmitrymomot/liftoff/core/response"
	"github.com/dmitrymomot/liftoff/core/route"
)

// DefaultBase is where the probes are mounted.
const DefaultBase = "/health"

// Fairing mounts GET <base>/live and GET <base>/ready. Readiness fails from
// the moment shutdown starts until the next liftoff.
type Fairing struct {
	base     string
	checks   []Check
	serving  atomic.Bool
	draining atomic.Bool
	log      atomic.Pointer[slog.Logger]
}

// Option configures a Fairing.
type Option func(*Fairing)

// WithBase sets the mount point of the probes.
func WithBase(base string) Option {
	return func(f *Fairing) { f.base = base }
}

// WithCheck adds dependency checks to readiness.
func WithCheck(checks ...Check) Option {
	return func(f *Fairing) { f.checks = append(f.checks, checks...) }
}

// New creates the health fairing.
func New(opts ...Option) *Fairing {
	f := &Fairing{base: DefaultBase}
	for _, opt := range opts {
		opt(f)
	}
	f.log.Store(logger.Nop())
	return f
}

// Info implements liftoff.Fairing.
func (f *Fairing) Info() liftoff.Info {
	return liftoff.Info{
		Name: "health",
		Kind: liftoff.Finalize | liftoff.Liftoff | liftoff.Shutdown | liftoff.Singleton,
	}
}

// Ready reports whether the instance is serving and not shutting down.
func (f *Fairing) Ready() bool {
	return f.serving.Load() && !f.draining.Load()
}

// OnFinalize mounts the probes.
func (f *Fairing) OnFinalize(_ context.Context, b *liftoff.Building) error {
	f.log.Store(b.Logger().With(logger.Component("health")))
	b.Mount(f.base,
		route.Get("/live", Liveness, route.WithName("health.live")),
		route.Get("/ready", f.ready, route.WithName("health.ready")),
	)
	return nil
}

// OnLiftoff marks the instance ready.
func (f *Fairing) OnLiftoff(context.Context, *liftoff.Orbiting) {
	f.draining.Store(false)
	f.serving.Store(true)
}

// OnShutdown makes readiness fail.
func (f *Fairing) OnShutdown(context.Context, *liftoff.Orbiting) {
	f.draining.Store(true)
	f.log.Load().Info("readiness disabled, shutdown in progress")
}

func (f *Fairing) ready(ctx *handler.Context) handler.Response {
	if !f.Ready() {
		return response.Error(response.ErrServiceUnavailable.WithMessage("not ready"))
	}
	if err := runChecks(ctx, f.checks); err != nil {
		f.log.Load().ErrorContext(ctx, "readiness check failed", logger.Error(err))
		return response.Error(response.ErrServiceUnavailable)
	}
	return response.String("READY")
}
