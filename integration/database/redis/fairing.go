package redis

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/liftoff"
	"github.com/dmitrymomot/liftoff/core/config"
	"github.com/dmitrymomot/liftoff/core/logger"
)

// Fairing owns the instance's Redis client.
type Fairing struct {
	mu     sync.RWMutex
	client *redis.Client
}

// New creates the fairing. Settings are read during Finalize.
func New() *Fairing {
	return &Fairing{}
}

// Info implements liftoff.Fairing.
func (f *Fairing) Info() liftoff.Info {
	return liftoff.Info{Name: "redis", Kind: liftoff.Finalize | liftoff.Shutdown | liftoff.Singleton}
}

// OnFinalize connects and manages the client.
func (f *Fairing) OnFinalize(ctx context.Context, b *liftoff.Building) error {
	cfg, err := config.Extract[Config](b.Source())
	if err != nil {
		return err
	}
	log := b.Logger().With(logger.Component("redis"))
	if cfg.ConnectionURL == "" {
		log.Debug("no connection URL configured, redis disabled")
		return nil
	}

	client, err := Connect(ctx, cfg)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.client = client
	f.mu.Unlock()

	b.Manage(client)
	log.Info("connected", logger.Endpoint(client.Options().Addr))
	return nil
}

// OnShutdown closes the client.
func (f *Fairing) OnShutdown(_ context.Context, o *liftoff.Orbiting) {
	client := f.Client()
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		o.Logger().Error("failed to close client", logger.Component("redis"), logger.Error(err))
	}
}

// Client returns the client, or nil before a successful Finalize.
func (f *Fairing) Client() *redis.Client {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.client
}

// Ping is a readiness check. It succeeds when redis is disabled.
func (f *Fairing) Ping(ctx context.Context) error {
	client := f.Client()
	if client == nil {
		return nil
	}
	return Healthcheck(client)(ctx)
}
