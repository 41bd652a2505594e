package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisrepo "github.com/muhammadheryan/internmatch/repository/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cfg = Config{Window: 15 * time.Minute, Max: 10}

func TestMemoryLimiter(t *testing.T) {
	l := NewMemoryLimiter(cfg)
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i+1)
	}
	ok, _ := l.Allow(ctx, "1.2.3.4")
	assert.False(t, ok, "11th request")

	ok, _ = l.Allow(ctx, "5.6.7.8")
	assert.True(t, ok, "other clients are unaffected")

	// nothing leaks back before the burst leaves the window
	now = now.Add(90 * time.Second)
	ok, _ = l.Allow(ctx, "1.2.3.4")
	assert.False(t, ok)

	now = now.Add(cfg.Window)
	ok, _ = l.Allow(ctx, "1.2.3.4")
	assert.True(t, ok)
}

func TestMemoryLimiter_SteadyTrafficCappedPerWindow(t *testing.T) {
	l := NewMemoryLimiter(cfg)
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	now := start
	l.now = func() time.Time { return now }
	ctx := context.Background()

	allowed := 0
	for ; now.Sub(start) < cfg.Window; now = now.Add(time.Second) {
		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		if ok {
			allowed++
		}
	}
	assert.Equal(t, cfg.Max, allowed)
}

func TestMemoryLimiter_MatchesRedisLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	small := Config{Window: time.Minute, Max: 3}
	mem := NewMemoryLimiter(small)
	red := NewRedisLimiter(redisrepo.NewRepository(client), small)
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	mem.now = func() time.Time { return now }
	red.now = func() time.Time { return now }
	ctx := context.Background()

	steps := []time.Duration{0, 10 * time.Second, 10 * time.Second, 10 * time.Second, 20 * time.Second,
		20 * time.Second, time.Second, 40 * time.Second, 0, time.Minute, 5 * time.Second}
	for i, step := range steps {
		now = now.Add(step)
		want, err := red.Allow(ctx, "k")
		require.NoError(t, err)
		got, err := mem.Allow(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, want, got, "hit %d at %s", i+1, now.Format(time.TimeOnly))
	}
}

func TestMemoryLimiter_SweepsIdleKeys(t *testing.T) {
	l := NewMemoryLimiter(cfg)
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	_, _ = l.Allow(ctx, "a")
	_, _ = l.Allow(ctx, "b")
	assert.Equal(t, 2, l.size())

	now = now.Add(cfg.Window + time.Second)
	_, _ = l.Allow(ctx, "c")
	assert.Equal(t, 1, l.size())
}

func TestRedisLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisLimiter(redisrepo.NewRepository(client), cfg)
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		now = now.Add(time.Second)
		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i+1)
	}
	now = now.Add(time.Second)
	ok, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)

	// the whole burst slides out of the window
	now = now.Add(cfg.Window)
	ok, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	_, err := NewRedisLimiter(redisrepo.NewRepository(client), cfg).Allow(context.Background(), "k")
	assert.Error(t, err)
}
