package liftoff

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/dmitrymomot/liftoff/core/config"
	"github.com/dmitrymomot/liftoff/core/logger"
	"github.com/dmitrymomot/liftoff/core/route"
	"github.com/dmitrymomot/liftoff/core/state"
)

// Building is an instance under construction. It is the only stage that can
// be mutated. Finalize consumes it; any further use panics.
type Building struct {
	core

	finalizing atomic.Bool
	consumed   atomic.Bool
}

// Build creates an instance configured from .env and LIFTOFF_ environment
// variables.
func Build(opts ...Option) *Building {
	return Custom(config.DefaultSource(), opts...)
}

// Custom creates an instance configured from provider.
func Custom(provider config.Provider, opts ...Option) *Building {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	b := &Building{core: core{
		fairings: newFairings(),
		state:    state.New(),
		source:   asSource(provider),
		log:      newLogSink(o),
	}}
	b.configureLogger()
	return b
}

// Stage returns StageBuilding.
func (b *Building) Stage() Stage { return StageBuilding }

// Mount mounts routes under base. It panics if base is not a valid static
// origin. A query on base is ignored with a warning.
//
//	b.Mount("/api", route.Get("/users/{id}", showUser))
func (b *Building) Mount(base string, routes ...*route.Route) *Building {
	b.live()
	origin := b.parseBase("route", base)
	for _, r := range routes {
		b.routes = append(b.routes, r.Rebase(origin))
	}
	return b
}

// Register registers catchers scoped to base. Base validation matches Mount.
func (b *Building) Register(base string, catchers ...*route.Catcher) *Building {
	b.live()
	origin := b.parseBase("catcher", base)
	for _, c := range catchers {
		b.catchers = append(b.catchers, c.Rebase(origin))
	}
	return b
}

// Manage adds a value to the managed state. Handlers retrieve it by type with
// handler.State. It panics if a value of the same type is already managed.
func (b *Building) Manage(value any) *Building {
	b.live()
	if value == nil {
		b.fatal("cannot manage an untyped nil value", state.ErrNilValue)
	}
	if !b.state.Set(value) {
		t := reflect.TypeOf(value).String()
		b.Logger().Error("state for this type is already being managed",
			logger.Component("builder"), logger.Key("type", t))
		panic(fmt.Errorf("%w: %s", ErrDuplicateState, t))
	}
	return b
}

// Attach adds a fairing. A singleton fairing replaces an attached fairing of
// the same type: the old entry is removed and the new one goes last.
func (b *Building) Attach(f Fairing) *Building {
	b.live()
	if f == nil {
		b.fatal("cannot attach a nil fairing", ErrNilFairing)
	}
	if replaced := b.fairings.add(f); replaced != nil {
		b.Logger().Debug("singleton fairing replaced",
			logger.Component("fairings"), logger.Fairing(f.Info().Name))
	}
	return b
}

// Reconfigure replaces the configuration source. The log level and format
// are updated right away when the new source can be extracted.
func (b *Building) Reconfigure(provider config.Provider) *Building {
	b.live()
	b.source = asSource(provider)
	b.configureLogger()
	b.Logger().Debug("configuration source replaced",
		logger.Component("builder"), logger.Key("source", b.source.Name()))
	return b
}

func (b *Building) configureLogger() {
	cfg, err := config.Extract[config.Config](b.source)
	if err != nil {
		return
	}
	if cfg.Validate() != nil {
		return
	}
	b.log.apply(cfg)
}

func (b *Building) parseBase(kind, base string) route.Origin {
	origin, err := route.ParseBase(base)
	if err != nil {
		b.Logger().Error("invalid "+kind+" base",
			logger.Component("builder"), logger.Key("base", base), logger.Error(err))
		panic(fmt.Errorf("%s base %q: %w", kind, base, err))
	}
	if _, ok := origin.Query(); ok {
		b.Logger().Warn("query in "+kind+" base is ignored",
			logger.Component("builder"), logger.Key("base", base))
		origin = origin.WithoutQuery()
	}
	return origin
}

func (b *Building) live() {
	if b.consumed.Load() {
		panic(ErrConsumed)
	}
}

func (b *Building) fatal(msg string, err error) {
	b.Logger().Error(msg, logger.Component("builder"), logger.Error(err))
	panic(err)
}

func asSource(p config.Provider) *config.Source {
	if s, ok := p.(*config.Source); ok && s != nil {
		return s
	}
	return config.NewSource(p)
}
