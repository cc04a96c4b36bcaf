// Package redis manages a Redis client for a liftoff instance.
//
// Connect parses a redis:// or rediss:// URL and pings the server with
// exponential backoff. The Fairing connects during Finalize, manages the
// *redis.Client for handlers and closes it on shutdown:
//
//	cache := redis.New()
//	b.Attach(cache).Attach(health.New(health.WithCheck(cache.Ping)))
//
// Settings come from the instance configuration source (REDIS_URL,
// REDIS_RETRY_ATTEMPTS, REDIS_RETRY_INTERVAL, REDIS_CONNECT_TIMEOUT). An
// empty REDIS_URL disables the fairing.
package redis
