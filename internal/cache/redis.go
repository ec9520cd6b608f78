package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"friendfinder/backend/internal/config"

	"github.com/redis/go-redis/v9"
)

// SuggestionTTL bounds how stale a cached suggestion list may get.
const SuggestionTTL = 5 * time.Minute

// NearbyNotifyTTL is the dedupe window for nearby-friend notifications.
const NearbyNotifyTTL = time.Hour

// RedisCache wraps the Redis client used for suggestion caching and
// nearby-friend notification dedupe.
type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes a Redis client from config. Only Addr is
// mandatory.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.RedisAddr,
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}
	if cfg.RedisDB != 0 {
		opts.DB = cfg.RedisDB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

// KeyForSuggestions generates the cache key for a user's suggestion list.
func (c *RedisCache) KeyForSuggestions(userID uint) string {
	return fmt.Sprintf("match:suggest:%d", userID)
}

// GetSuggestions returns the cached JSON suggestion list, or "" on miss.
func (c *RedisCache) GetSuggestions(ctx context.Context, userID uint) (string, error) {
	val, err := c.Client.Get(ctx, c.KeyForSuggestions(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

// SetSuggestions stores a JSON suggestion list with the standard TTL.
func (c *RedisCache) SetSuggestions(ctx context.Context, userID uint, payload string) error {
	return c.Client.Set(ctx, c.KeyForSuggestions(userID), payload, SuggestionTTL).Err()
}

// InvalidateSuggestions drops a user's cached suggestion list, used when
// their profile changes.
func (c *RedisCache) InvalidateSuggestions(ctx context.Context, userID uint) error {
	return c.Client.Del(ctx, c.KeyForSuggestions(userID)).Err()
}

// MarkNearbyNotified records that user was told friend is nearby. Returns
// true the first time within the dedupe window, false while the mark exists.
func (c *RedisCache) MarkNearbyNotified(ctx context.Context, userID, friendID uint) (bool, error) {
	key := fmt.Sprintf("nearby:notified:%d:%d", userID, friendID)
	return c.Client.SetNX(ctx, key, 1, NearbyNotifyTTL).Result()
}
