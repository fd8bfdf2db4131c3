// Package redis provides the Redis connection used by the distributed
// per-order lock (pkg/lock.RedisLocker).
//
// Connect retries until the server answers a ping or the configured timeout
// expires:
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//	client, err := redis.Connect(ctx, cfg)
//
// Healthcheck returns a func(context.Context) error suitable for readiness
// probes.
package redis
