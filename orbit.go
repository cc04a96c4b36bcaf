package liftoff

import (
	"context"
	"net"
	"net/http"
	"reflect"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/liftoff/core/logger"
	"github.com/dmitrymomot/liftoff/core/route"
	"github.com/dmitrymomot/liftoff/core/server"
	"github.com/dmitrymomot/liftoff/core/shutdown"
)

// Orbiting is a running instance.
//
// An Orbiting keeps a reference count. The shutdown coordinator owns one
// reference; every serve loop, connection, in-flight request, liftoff run
// and shutdown fairing run holds another for as long as it works. Graceful
// shutdown completes once the count drops back to one. Code that keeps using
// the instance from its own goroutines must do the same:
//
//	release := o.Retain()
//	go func() {
//		defer release()
//		flush(o)
//	}()
type Orbiting struct {
	core
	frozen

	id        string
	launched  time.Time
	endpoints []server.Endpoint
	servers   []*server.Server

	refs  atomic.Int64
	quiet chan struct{}
}

var _ route.Inspector = (*Orbiting)(nil)

func newOrbiting(f *Finalized, listeners []net.Listener) *Orbiting {
	o := &Orbiting{
		core:     f.core,
		frozen:   f.frozen,
		id:       uuid.NewString(),
		launched: time.Now(),
		quiet:    make(chan struct{}, 1),
	}
	o.refs.Store(1)

	h := newDispatcher(&o.core, &o.frozen)
	opts := append(o.config.Config.Options(),
		server.WithLogger(o.Logger().With(logger.InstanceID(o.id))),
		server.WithRetainer(o.Retain),
	)
	for _, ln := range listeners {
		srv := server.New(ln, h, opts...)
		o.servers = append(o.servers, srv)
		o.endpoints = append(o.endpoints, srv.Endpoint())
	}
	return o
}

// Stage returns StageOrbiting.
func (o *Orbiting) Stage() Stage { return StageOrbiting }

// ID returns the identifier of this launch.
func (o *Orbiting) ID() string { return o.id }

// Endpoints returns the bound endpoints.
func (o *Orbiting) Endpoints() []server.Endpoint { return slices.Clone(o.endpoints) }

// Managed reports whether a value of type t is managed.
func (o *Orbiting) Managed(t reflect.Type) bool { return o.state.Has(t) }

// Handler returns the request dispatcher used by the servers.
func (o *Orbiting) Handler() http.Handler { return newDispatcher(&o.core, &o.frozen) }

// Uptime returns the time since launch.
func (o *Orbiting) Uptime() time.Duration { return time.Since(o.launched) }

// Refs returns the current reference count, including the coordinator's.
func (o *Orbiting) Refs() int64 { return o.refs.Load() }

// Retain takes a reference. The returned function releases it; calling it
// more than once has no further effect.
func (o *Orbiting) Retain() (release func()) {
	o.refs.Add(1)
	var released atomic.Bool
	return func() {
		if !released.CompareAndSwap(false, true) {
			return
		}
		if o.refs.Add(-1) == 1 {
			select {
			case o.quiet <- struct{}{}:
			default:
			}
		}
	}
}

// AwaitQuiescence blocks until only the coordinator's reference is left or
// ctx is done. Use it to retry after a Shutdown error.
func (o *Orbiting) AwaitQuiescence(ctx context.Context) error {
	for !o.unique() {
		select {
		case <-o.quiet:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Deorbit returns the stopped instance once it is quiescent. It is meant for
// recovering from a Shutdown error after AwaitQuiescence.
func (o *Orbiting) Deorbit(ctx context.Context) (*Finalized, error) {
	if err := o.AwaitQuiescence(ctx); err != nil {
		return nil, err
	}
	return o.deorbit(), nil
}

func (o *Orbiting) unique() bool { return o.refs.Load() == 1 }

// deorbit returns the instance to the finalized stage with fresh shutdown
// stages so it can be launched again.
func (o *Orbiting) deorbit() *Finalized {
	return &Finalized{
		core: o.core,
		frozen: frozen{
			config: o.config,
			router: o.router,
			stages: shutdown.NewStages(),
		},
	}
}

// waitQuiet waits up to d for the reference count to drop to one.
func (o *Orbiting) waitQuiet(d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			return
		case <-o.quiet:
			if o.unique() {
				return
			}
		}
	}
}
