package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/linkup-social/linkup-be/internal/config"
	"github.com/redis/go-redis/v9"
)

// RedisCache wraps the shared Redis client used for counters and the
// follow-action rate limiter.
type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes the Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
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

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// IncrWithTTL atomically increments a counter and sets its expiry when the
// counter is created by this call. Returns the post-increment value.
func (c *RedisCache) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	n, err := c.Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := c.Client.Expire(ctx, key, ttl).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// KeyForUnreadCount generates the Redis key for a user's unread notification count.
func (c *RedisCache) KeyForUnreadCount(userID string) string {
	return fmt.Sprintf("notifications:unread:%s", userID)
}

// GetUnreadCount reads the cached unread count. A cache miss returns -1
// so callers fall back to the database.
func (c *RedisCache) GetUnreadCount(ctx context.Context, userID string) (int64, error) {
	val, err := c.Client.Get(ctx, c.KeyForUnreadCount(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return -1, nil // cache miss
	} else if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

// SetUnreadCount caches the unread count with a 1h TTL.
func (c *RedisCache) SetUnreadCount(ctx context.Context, userID string, count int64) error {
	return c.Client.Set(ctx, c.KeyForUnreadCount(userID), count, time.Hour).Err()
}

// InvalidateUnreadCount drops the cached unread count after any write that
// changes it.
func (c *RedisCache) InvalidateUnreadCount(ctx context.Context, userID string) error {
	return c.Client.Del(ctx, c.KeyForUnreadCount(userID)).Err()
}
