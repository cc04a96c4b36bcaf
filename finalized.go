package liftoff

import (
	"net/http"
	"reflect"
	"sync/atomic"

	"github.com/dmitrymomot/liftoff/core/config"
	"github.com/dmitrymomot/liftoff/core/route"
	"github.com/dmitrymomot/liftoff/core/shutdown"
)

// frozen is the validated data produced by Finalize.
type frozen struct {
	config config.Config
	router *route.Router
	stages *shutdown.Stages
}

// Config returns the extracted configuration.
func (f *frozen) Config() config.Config { return f.config }

// Router returns the route and catcher index.
func (f *frozen) Router() *route.Router { return f.router }

// Shutdown returns a handle that requests graceful shutdown. Notifying a
// finalized instance before launch makes the launch shut down right after
// liftoff.
func (f *frozen) Shutdown() shutdown.Handle { return f.stages.Handle() }

// Profile returns the configuration profile.
func (f *frozen) Profile() string { return f.config.Profile }

// Finalized is a validated, immutable instance ready to launch. Launch
// consumes it; any further launch panics.
type Finalized struct {
	core
	frozen

	consumed atomic.Bool
}

var _ route.Inspector = (*Finalized)(nil)

// Stage returns StageFinalized.
func (f *Finalized) Stage() Stage { return StageFinalized }

// Managed reports whether a value of type t is managed.
func (f *Finalized) Managed(t reflect.Type) bool { return f.state.Has(t) }

// Handler returns an http.Handler dispatching to the instance routes. It
// serves requests without binding endpoints, which makes it suitable for
// in-process tests with httptest.
func (f *Finalized) Handler() http.Handler {
	return newDispatcher(&f.core, &f.frozen)
}

func (f *Finalized) consume() {
	if !f.consumed.CompareAndSwap(false, true) {
		panic(ErrConsumed)
	}
}
