package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-triage/internal/config"
)

// Redis wraps the go-redis client backing the seen-message cache.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration. The cache is
// best-effort: an unreachable Redis degrades the service to memory-only
// dedup, it never prevents startup.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis, seen-message cache disabled", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// SeenCache mirrors processed message identifiers in a Redis set so that mail
// already ticketed before a restart is not ticketed again. The in-memory
// dedup set inside the store remains authoritative; every cache operation is
// best-effort.
type SeenCache struct {
	client *redis.Client
	key    string
}

// NewSeenCache builds a cache over the given connection. Returns nil when no
// connection is available.
func NewSeenCache(r *Redis, key string) *SeenCache {
	if r == nil || r.Client == nil {
		return nil
	}
	if key == "" {
		key = "triage:processed_ids"
	}
	return &SeenCache{client: r.Client, key: key}
}

// Add records a processed message identifier.
func (c *SeenCache) Add(ctx context.Context, id string) error {
	return c.client.SAdd(ctx, c.key, id).Err()
}

// Contains reports whether the identifier was processed before.
func (c *SeenCache) Contains(ctx context.Context, id string) (bool, error) {
	return c.client.SIsMember(ctx, c.key, id).Result()
}

// Clear drops the whole cache. Called together with the store's bulk clear.
func (c *SeenCache) Clear(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}
