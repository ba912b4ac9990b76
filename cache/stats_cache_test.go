package cache

import (
	"context"
	"fitcrew-api/models"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopStatsCacheAlwaysMisses(t *testing.T) {
	var c StatsCache = NoopStatsCache{}
	ctx := context.Background()

	c.Set(ctx, "u1", &models.UserStats{TotalWorkouts: 3})
	stats, ok := c.Get(ctx, "u1")
	assert.False(t, ok)
	assert.Nil(t, stats)
	c.Invalidate(ctx, "u1", "u2")
}

func TestStatsKeyIsNamespaced(t *testing.T) {
	assert.Equal(t, "fitcrew:stats:abc", statsKey("abc"))
}

func newTestRedisCache(t *testing.T, ttl time.Duration) (*RedisStatsCache, *miniredis.Miniredis, *test.Hook) {
	t.Helper()
	srv := miniredis.RunT(t)
	log, hook := test.NewNullLogger()
	c, err := NewRedisStatsCache(context.Background(), srv.Addr(), "", 0, ttl, log)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, srv, hook
}

func TestRedisStatsCacheRoundTrip(t *testing.T) {
	c, srv, hook := newTestRedisCache(t, time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx, "u1")
	assert.False(t, ok, "empty cache misses")

	want := &models.UserStats{TotalWorkouts: 4, TotalPoints: 40, CurrentStreak: 2, LongestStreak: 3, FriendsCount: 5}
	c.Set(ctx, "u1", want)

	raw, err := srv.Get(statsKey("u1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_workouts":4,"total_points":40,"current_streak":2,"longest_streak":3,"friends_count":5}`, raw)
	assert.Equal(t, time.Minute, srv.TTL(statsKey("u1")))

	got, ok := c.Get(ctx, "u1")
	require.True(t, ok)
	assert.Equal(t, want, got)
	assert.Empty(t, hook.AllEntries())
}

func TestRedisStatsCacheEntriesExpire(t *testing.T) {
	c, srv, _ := newTestRedisCache(t, 30*time.Second)
	ctx := context.Background()

	c.Set(ctx, "u1", &models.UserStats{TotalWorkouts: 1})
	srv.FastForward(31 * time.Second)

	_, ok := c.Get(ctx, "u1")
	assert.False(t, ok)
}

func TestRedisStatsCacheInvalidate(t *testing.T) {
	c, srv, _ := newTestRedisCache(t, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "u1", &models.UserStats{TotalWorkouts: 1})
	c.Set(ctx, "u2", &models.UserStats{TotalWorkouts: 2})
	c.Set(ctx, "u3", &models.UserStats{TotalWorkouts: 3})

	c.Invalidate(ctx, "u1", "u2")
	c.Invalidate(ctx)

	assert.False(t, srv.Exists(statsKey("u1")))
	assert.False(t, srv.Exists(statsKey("u2")))
	assert.True(t, srv.Exists(statsKey("u3")))
}

func TestRedisStatsCacheCorruptEntryMisses(t *testing.T) {
	c, srv, hook := newTestRedisCache(t, time.Minute)
	require.NoError(t, srv.Set(statsKey("u1"), "{not json"))

	_, ok := c.Get(context.Background(), "u1")
	assert.False(t, ok)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "u1", hook.LastEntry().Data["user_id"])
}

func TestRedisStatsCacheBackendErrorsFallThrough(t *testing.T) {
	c, srv, hook := newTestRedisCache(t, time.Minute)
	ctx := context.Background()
	srv.Close()

	_, ok := c.Get(ctx, "u1")
	assert.False(t, ok)
	c.Set(ctx, "u1", &models.UserStats{TotalWorkouts: 1})
	c.Invalidate(ctx, "u1")

	messages := []string{}
	for _, entry := range hook.AllEntries() {
		messages = append(messages, entry.Message)
	}
	assert.Equal(t, []string{
		"Stats cache read failed",
		"Stats cache write failed",
		"Stats cache invalidation failed",
	}, messages)
}

func TestNewRedisStatsCacheFailsWhenUnreachable(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	_, err := NewRedisStatsCache(context.Background(), addr, "", 0, time.Minute, logrus.New())
	assert.ErrorContains(t, err, "failed to connect to Redis")
}
