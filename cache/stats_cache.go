// File: /cache/stats_cache.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"fitcrew-api/models"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// StatsCache holds per-user stats responses. Misses and backend errors are
// indistinguishable to callers; they fall through to the database.
type StatsCache interface {
	Get(ctx context.Context, userID string) (*models.UserStats, bool)
	Set(ctx context.Context, userID string, stats *models.UserStats)
	Invalidate(ctx context.Context, userIDs ...string)
}

type NoopStatsCache struct{}

func (NoopStatsCache) Get(context.Context, string) (*models.UserStats, bool) { return nil, false }
func (NoopStatsCache) Set(context.Context, string, *models.UserStats)        {}
func (NoopStatsCache) Invalidate(context.Context, ...string)                 {}

type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
	log    logrus.FieldLogger
}

func NewRedisStatsCache(ctx context.Context, addr, password string, db int, ttl time.Duration, log logrus.FieldLogger) (*RedisStatsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisStatsCache{client: client, ttl: ttl, log: log}, nil
}

func statsKey(userID string) string {
	return "fitcrew:stats:" + userID
}

func (c *RedisStatsCache) Get(ctx context.Context, userID string) (*models.UserStats, bool) {
	raw, err := c.client.Get(ctx, statsKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WithError(err).WithField("user_id", userID).Warn("Stats cache read failed")
		}
		return nil, false
	}
	var stats models.UserStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		c.log.WithError(err).WithField("user_id", userID).Warn("Stats cache entry is corrupt")
		return nil, false
	}
	return &stats, true
}

func (c *RedisStatsCache) Set(ctx context.Context, userID string, stats *models.UserStats) {
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, statsKey(userID), raw, c.ttl).Err(); err != nil {
		c.log.WithError(err).WithField("user_id", userID).Warn("Stats cache write failed")
	}
}

func (c *RedisStatsCache) Invalidate(ctx context.Context, userIDs ...string) {
	if len(userIDs) == 0 {
		return
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = statsKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.WithError(err).Warn("Stats cache invalidation failed")
	}
}

func (c *RedisStatsCache) Close() error {
	return c.client.Close()
}
