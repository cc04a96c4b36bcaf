package liftoff

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrymomot/liftoff/core/config"
	"github.com/dmitrymomot/liftoff/core/logger"
	"github.com/dmitrymomot/liftoff/core/route"
	"github.com/dmitrymomot/liftoff/core/shutdown"
)

// Launchable is a *Building or a *Finalized.
type Launchable interface {
	Phase
	finalized(ctx context.Context) (*Finalized, error)
}

func (b *Building) finalized(ctx context.Context) (*Finalized, error) { return b.Finalize(ctx) }
func (f *Finalized) finalized(context.Context) (*Finalized, error)    { return f, nil }

// Finalize runs the finalize fairings, extracts and validates the
// configuration, builds the route index, freezes managed state and queries
// route sentinels. The building is consumed even when Finalize fails.
func (b *Building) Finalize(ctx context.Context) (*Finalized, error) {
	b.live()
	if !b.finalizing.CompareAndSwap(false, true) {
		panic(ErrConsumed)
	}

	start := time.Now()
	log := b.Logger()
	log.Debug("finalizing", logger.Component("finalizer"), logger.Stage(StageBuilding.String()))

	if err := b.runFinalizeFairings(ctx); err != nil {
		b.consumed.Store(true)
		return nil, err
	}
	b.consumed.Store(true)

	if conflicts := b.fairings.audit(); len(conflicts) > 0 {
		e := newError(b.Logger(), KindFairingConflict, nil)
		e.conflicts = conflicts
		return nil, e
	}

	cfg, err := config.FromSource(b.source)
	if err != nil {
		return nil, newError(b.Logger(), KindConfig, err)
	}
	b.log.apply(cfg)
	log = b.Logger()

	if cfg.Secrets && (!cfg.SecretKey.Provided() || cfg.SecretKey.Weak()) {
		if !cfg.IsDebug() {
			e := newError(log, KindInsecureSecretKey, nil)
			e.profile = cfg.Profile
			return nil, e
		}
		if cfg.SecretKey.IsZero() {
			key, err := config.GenerateSecretKey()
			if err != nil {
				return nil, newError(log, KindConfig, fmt.Errorf("generate secret key: %w", err))
			}
			cfg.SecretKey = key
			log.Warn("secrets are enabled but no secret key is configured; using an ephemeral key",
				logger.Component("finalizer"), logger.Profile(cfg.Profile))
		} else {
			log.Warn("secrets are enabled with a weak secret key",
				logger.Component("finalizer"), logger.Profile(cfg.Profile))
		}
	}

	router, collisions := route.NewRouter(b.routes, b.catchers)
	if !collisions.Empty() {
		e := newError(log, KindCollisions, nil)
		e.collisions = collisions
		return nil, e
	}

	b.state.Freeze()

	f := &Finalized{
		core: b.core,
		frozen: frozen{
			config: cfg,
			router: router,
			stages: shutdown.NewStages(),
		},
	}
	f.logSummaries()

	if aborts := runSentinels(f); len(aborts) > 0 {
		e := newError(log, KindSentinelAborts, nil)
		e.sentinels = aborts
		return nil, e
	}

	log.Info("finalized",
		logger.Component("finalizer"),
		logger.Stage(StageFinalized.String()),
		logger.Profile(cfg.Profile),
		logger.Elapsed(start),
	)
	return f, nil
}

// runFinalizeFairings runs finalize fairings in attach order, including
// fairings attached by earlier ones, until one aborts.
func (b *Building) runFinalizeFairings(ctx context.Context) error {
	var attempted []string
	for i := 0; ; i++ {
		e, ok := b.fairings.at(i)
		if !ok {
			return nil
		}
		if !e.active || !e.info.Kind.Is(Finalize) {
			continue
		}
		hook, ok := e.fairing.(FinalizeHook)
		if !ok {
			continue
		}

		attempted = append(attempted, e.info.Name)
		if err := hook.OnFinalize(ctx, b); err != nil {
			log := b.Logger()
			log.Error("finalize fairing aborted",
				logger.Component("fairings"), logger.Fairing(e.info.Name), logger.Error(err))
			abort := newError(log, KindFairingsAborted, err)
			abort.attempted = attempted
			abort.aborted = e.info.Name
			return abort
		}
	}
}

func runSentinels(f *Finalized) []string {
	var aborts []string
	seen := make(map[string]bool)
	for _, r := range f.routes {
		for _, s := range r.Sentinels() {
			if !s.Abort(f) {
				continue
			}
			f.Logger().Error("sentinel aborted launch",
				logger.Component("sentinels"), logger.Key("sentinel", s.Name()), logger.Key("route", r.String()))
			if !seen[s.Name()] {
				seen[s.Name()] = true
				aborts = append(aborts, s.Name())
			}
		}
	}
	return aborts
}

func (f *Finalized) logSummaries() {
	log := f.Logger().With(logger.Component("finalizer"))

	log.Info("configuration", logger.Key("config", f.config))
	for _, r := range f.router.Routes() {
		log.Debug("route", logger.Key("route", r.String()))
	}
	for _, c := range f.router.Catchers() {
		log.Debug("catcher", logger.Key("catcher", c.String()))
	}
	log.Info("summary",
		logger.Count("routes", len(f.routes)),
		logger.Count("catchers", len(f.catchers)),
		logger.Count("managed", f.state.Len()),
		logger.Key("fairings", f.fairings.summary()),
	)
}
