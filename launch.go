package liftoff

import (
	"context"
	"fmt"
	"net"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/liftoff/core/logger"
	"github.com/dmitrymomot/liftoff/core/server"
	"github.com/dmitrymomot/liftoff/pkg/async"
)

// Launch finalizes l if needed, binds the configured endpoints, runs the
// liftoff fairings and serves until shutdown is requested and completed.
// Shutdown is requested through the shutdown handle, an OS signal from the
// configuration, a serve failure or cancellation of ctx.
//
// On a clean shutdown Launch returns the instance in the finalized stage; it
// can be launched again.
func Launch(ctx context.Context, l Launchable) (*Finalized, error) {
	return LaunchWith(ctx, l, server.DefaultBinder)
}

// LaunchWith is like Launch but binds endpoints with binder.
func LaunchWith(ctx context.Context, l Launchable, binder server.Binder) (*Finalized, error) {
	f, err := l.finalized(ctx)
	if err != nil {
		return nil, err
	}
	f.consume()

	if binder == nil {
		binder = server.DefaultBinder
	}
	listeners, err := bind(ctx, f, binder)
	if err != nil {
		return nil, err
	}

	return newOrbiting(f, listeners).fly(ctx)
}

func bind(ctx context.Context, f *Finalized, binder server.Binder) ([]net.Listener, error) {
	listeners := make([]net.Listener, 0, len(f.config.Endpoints))
	for _, ep := range f.config.Endpoints {
		ln, err := binder.Bind(ctx, ep)
		if err == nil && ln == nil {
			err = server.ErrNilListener
		}
		if err != nil {
			for _, l := range listeners {
				_ = l.Close()
			}
			e := newError(f.Logger(), KindBind, err)
			e.endpoint = ep
			return nil, e
		}
		listeners = append(listeners, ln)
	}
	return listeners, nil
}

func (o *Orbiting) fly(ctx context.Context) (*Finalized, error) {
	log := o.Logger().With(logger.InstanceID(o.id))

	stopSignals, err := o.stages.SpawnListener(o.config.Shutdown, log)
	if err != nil {
		for _, srv := range o.servers {
			_ = srv.Close()
		}
		return nil, newError(log, KindConfig, err)
	}
	defer stopSignals()
	o.stages.Arm(o.config.Shutdown)

	go func() {
		select {
		case <-ctx.Done():
			log.Info("context done, requesting shutdown", logger.Component("orbit"), logger.Error(ctx.Err()))
			o.stages.Start.Trip()
		case <-o.stages.Start.Done():
		}
	}()

	if err := o.liftoff(ctx); err != nil {
		log.Error("liftoff failed, draining", logger.Component("orbit"), logger.Error(err))
		o.stages.Start.Trip()
		drained, serr := o.coordinate()
		e := newError(log, KindLiftoff, err)
		e.finalized = drained
		if se, ok := serr.(*Error); ok {
			se.mark()
			e.orbiting = se.orbiting
		}
		return nil, e
	}

	endpoints := make([]string, 0, len(o.endpoints))
	for _, ep := range o.endpoints {
		endpoints = append(endpoints, ep.String())
	}
	log.Info("liftoff",
		logger.Component("orbit"),
		logger.Stage(StageOrbiting.String()),
		logger.Key("endpoints", endpoints),
	)

	var g errgroup.Group
	for _, srv := range o.servers {
		release := o.Retain()
		g.Go(func() error {
			defer release()
			if err := srv.Serve(); err != nil {
				log.Error("serving failed, requesting shutdown",
					logger.Component("orbit"), logger.Endpoint(srv.Endpoint().String()), logger.Error(err))
				o.stages.Start.Trip()
				return fmt.Errorf("%s: %w", srv.Endpoint(), err)
			}
			return nil
		})
	}

	finalized, shutdownErr := o.coordinate()
	serveErr := g.Wait()

	if shutdownErr != nil {
		return nil, shutdownErr
	}
	if serveErr != nil {
		e := newError(log, KindServe, serveErr)
		e.finalized = finalized
		return nil, e
	}
	return finalized, nil
}

// liftoff runs every liftoff fairing concurrently and waits for all of them.
// A panicking fairing is logged and does not affect the others.
func (o *Orbiting) liftoff(ctx context.Context) (err error) {
	release := o.Retain()
	defer release()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("liftoff panicked: %v", p)
		}
	}()

	log := o.Logger().With(logger.Component("fairings"), logger.InstanceID(o.id))

	var (
		names   []string
		futures []*async.ExecFuture
	)
	for _, f := range o.fairings.active() {
		info := f.Info()
		hook, ok := f.(LiftoffHook)
		if !info.Kind.Is(Liftoff) || !ok {
			continue
		}
		names = append(names, info.Name)
		futures = append(futures, async.Exec(ctx, hook, func(ctx context.Context, h LiftoffHook) error {
			h.OnLiftoff(ctx, o)
			return nil
		}))
	}

	for i, ferr := range async.Settle(futures...) {
		if ferr != nil {
			log.Error("liftoff fairing failed", logger.Fairing(names[i]), logger.Error(ferr))
		}
	}
	return nil
}
