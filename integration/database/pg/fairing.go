package pg

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/liftoff"
	"github.com/dmitrymomot/liftoff/core/config"
	"github.com/dmitrymomot/liftoff/core/logger"
)

// Fairing owns the instance's connection pool.
type Fairing struct {
	mu   sync.RWMutex
	pool *pgxpool.Pool
	cfg  Config
}

// New creates the fairing. Settings are read during Finalize.
func New() *Fairing {
	return &Fairing{}
}

// Info implements liftoff.Fairing.
func (f *Fairing) Info() liftoff.Info {
	return liftoff.Info{Name: "pg", Kind: liftoff.Finalize | liftoff.Shutdown | liftoff.Singleton}
}

// OnFinalize connects, migrates and manages the pool. It aborts finalization
// when any step fails.
func (f *Fairing) OnFinalize(ctx context.Context, b *liftoff.Building) error {
	cfg, err := config.Extract[Config](b.Source())
	if err != nil {
		return err
	}
	log := b.Logger().With(logger.Component("pg"))
	if cfg.ConnectionString == "" {
		log.Debug("no connection string configured, postgres disabled")
		return nil
	}
	if cfg.MigrationsPath != "" {
		if _, err := migrationsFS(cfg.MigrationsPath); err != nil {
			return err
		}
	}

	start := time.Now()
	pool, err := Connect(ctx, cfg)
	if err != nil {
		return err
	}
	if cfg.MigrationsPath != "" {
		if err := Migrate(ctx, pool, cfg, log); err != nil {
			pool.Close()
			return err
		}
	}

	f.mu.Lock()
	f.pool, f.cfg = pool, cfg
	f.mu.Unlock()

	b.Manage(pool)
	log.Info("connected", logger.Elapsed(start))
	return nil
}

// OnShutdown closes the pool. Close waits for acquired connections to be
// released; the hook gives up waiting when ctx ends.
func (f *Fairing) OnShutdown(ctx context.Context, o *liftoff.Orbiting) {
	pool := f.Pool()
	if pool == nil {
		return
	}

	closed := make(chan struct{})
	go func() {
		pool.Close()
		close(closed)
	}()

	select {
	case <-closed:
		o.Logger().Info("pool closed", logger.Component("pg"))
	case <-ctx.Done():
		o.Logger().Warn("pool still closing after mercy", logger.Component("pg"))
	}
}

// Pool returns the pool, or nil before a successful Finalize.
func (f *Fairing) Pool() *pgxpool.Pool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.pool
}

// Ping is a readiness check. It succeeds when postgres is disabled.
func (f *Fairing) Ping(ctx context.Context) error {
	pool := f.Pool()
	if pool == nil {
		return nil
	}
	return Healthcheck(pool)(ctx)
}
