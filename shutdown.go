package liftoff

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/liftoff/core/logger"
	"github.com/dmitrymomot/liftoff/pkg/async"
)

// settle is the short pause between shutdown stages that lets released
// references propagate.
const settle = 250 * time.Microsecond

// coordinate waits for shutdown to be requested, drives the transport
// through the shutdown stages and waits for quiescence. It returns the
// deorbited instance, or a Shutdown error holding o if references remain
// after the mercy period.
func (o *Orbiting) coordinate() (*Finalized, error) {
	<-o.stages.Start.Done()

	start := time.Now()
	cfg := o.config.Shutdown
	log := o.Logger().With(logger.Component("shutdown"), logger.InstanceID(o.id))
	log.Info("shutdown requested",
		logger.Key("grace", cfg.Grace), logger.Key("mercy", cfg.Mercy), logger.Count("refs", int(o.Refs())))

	for _, srv := range o.servers {
		srv.StopAccepting()
	}

	done := make(chan struct{})
	defer close(done)
	go o.react(done, log)

	o.runShutdownFairings(log)

	schedule := []time.Duration{settle, cfg.Grace, settle, cfg.Mercy, 4 * settle}
	for _, d := range schedule {
		if o.unique() {
			break
		}
		o.waitQuiet(d)
	}

	if !o.unique() {
		log.Error("graceful shutdown timed out",
			logger.Count("outstanding", int(o.Refs()-1)), logger.Elapsed(start))
		e := newError(log, KindShutdown, nil)
		e.orbiting = o
		return nil, e
	}

	for _, srv := range o.servers {
		_ = srv.Close()
	}
	log.Info("shutdown complete", logger.Stage(StageFinalized.String()), logger.Elapsed(start))
	return o.deorbit(), nil
}

// react interrupts in-flight I/O when grace ends and closes every connection
// when mercy ends.
func (o *Orbiting) react(done <-chan struct{}, log *slog.Logger) {
	select {
	case <-o.stages.Grace.Done():
		log.Warn("grace period elapsed, interrupting in-flight requests")
		for _, srv := range o.servers {
			srv.Interrupt()
		}
	case <-done:
		return
	}

	select {
	case <-o.stages.Mercy.Done():
		log.Warn("mercy period elapsed, closing connections")
		for _, srv := range o.servers {
			_ = srv.Close()
		}
	case <-done:
	}
}

// runShutdownFairings starts every shutdown fairing in the background. The
// run holds a reference until all of them return; their context is
// cancelled when the mercy period ends.
func (o *Orbiting) runShutdownFairings(log *slog.Logger) {
	var (
		names []string
		hooks []ShutdownHook
	)
	for _, e := range o.fairings.activeEntries() {
		hook, ok := e.fairing.(ShutdownHook)
		if e.info.Kind.Is(Shutdown) && ok {
			names = append(names, e.info.Name)
			hooks = append(hooks, hook)
		}
	}
	if len(hooks) == 0 {
		return
	}

	release := o.Retain()
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-o.stages.Mercy.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	go func() {
		defer release()
		defer cancel()

		futures := make([]*async.ExecFuture, 0, len(hooks))
		for _, h := range hooks {
			futures = append(futures, async.Exec(ctx, h, func(ctx context.Context, h ShutdownHook) error {
				h.OnShutdown(ctx, o)
				return nil
			}))
		}
		for i, err := range async.Settle(futures...) {
			if err != nil {
				log.Error("shutdown fairing failed", logger.Fairing(names[i]), logger.Error(err))
			}
		}
	}()
}
