package liftoff

import (
	"log/slog"
	"slices"

	"github.com/dmitrymomot/liftoff/core/config"
	"github.com/dmitrymomot/liftoff/core/route"
	"github.com/dmitrymomot/liftoff/core/state"
)

// Stage identifies the lifecycle stage of an instance.
type Stage uint8

const (
	StageBuilding Stage = iota
	StageFinalized
	StageOrbiting
)

func (s Stage) String() string {
	switch s {
	case StageBuilding:
		return "building"
	case StageFinalized:
		return "finalized"
	case StageOrbiting:
		return "orbiting"
	default:
		return "unknown"
	}
}

// Phase is the read-only view shared by *Building, *Finalized and *Orbiting.
// It cannot be implemented outside this package.
type Phase interface {
	Stage() Stage
	Routes() []*route.Route
	Catchers() []*route.Catcher
	Fairings() []Fairing
	Source() *config.Source
	Logger() *slog.Logger

	shared() *core
}

var (
	_ Phase = (*Building)(nil)
	_ Phase = (*Finalized)(nil)
	_ Phase = (*Orbiting)(nil)
)

// core is the data accumulated while building and carried through every
// later stage.
type core struct {
	routes   []*route.Route
	catchers []*route.Catcher
	fairings *fairings
	state    *state.Container
	source   *config.Source
	log      *logSink
}

func (c *core) shared() *core { return c }

// Routes returns the mounted routes in mount order.
func (c *core) Routes() []*route.Route { return slices.Clone(c.routes) }

// Catchers returns the registered catchers in registration order.
func (c *core) Catchers() []*route.Catcher { return slices.Clone(c.catchers) }

// Fairings returns the active fairings in attach order.
func (c *core) Fairings() []Fairing { return c.fairings.active() }

// Source returns the configuration source.
func (c *core) Source() *config.Source { return c.source }

// Logger returns the instance logger.
func (c *core) Logger() *slog.Logger { return c.log.logger() }

// State returns the managed value of type T.
func State[T any](p Phase) (T, bool) {
	return state.Get[T](p.shared().state)
}

// FairingOf returns the first active fairing of type F.
//
//	m, ok := liftoff.FairingOf[*metrics.Fairing](orbiting)
func FairingOf[F Fairing](p Phase) (F, bool) {
	for _, f := range p.shared().fairings.active() {
		if typed, ok := f.(F); ok {
			return typed, true
		}
	}
	var zero F
	return zero, false
}
