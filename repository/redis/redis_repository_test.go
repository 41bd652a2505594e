package redis_test

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

func newRepo(t *testing.T) (redisrepo.Repository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redisrepo.NewRepository(client), mr
}

func TestHitWindow_CountsWithinWindow(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	start := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	window := 15 * time.Minute

	for i := 1; i <= 3; i++ {
		n, err := repo.HitWindow(ctx, "1.2.3.4", start.Add(time.Duration(i)*time.Minute), window)
		require.NoError(t, err)
		assert.Equal(t, int64(i), n)
	}

	// first hit (start+1m) leaves the window, the other two stay
	n, err := repo.HitWindow(ctx, "1.2.3.4", start.Add(16*time.Minute+time.Second), window)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestHitWindow_KeysAreIndependent(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	now := time.Now()

	_, err := repo.HitWindow(ctx, "a", now, time.Minute)
	require.NoError(t, err)
	n, err := repo.HitWindow(ctx, "b", now, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestHitWindow_SetsExpiry(t *testing.T) {
	repo, mr := newRepo(t)

	_, err := repo.HitWindow(context.Background(), "ip", time.Now(), time.Minute)
	require.NoError(t, err)

	assert.True(t, mr.Exists("ratelimit:ip"))
	assert.Equal(t, time.Minute, mr.TTL("ratelimit:ip"))
}

func TestResetWindow(t *testing.T) {
	repo, mr := newRepo(t)
	ctx := context.Background()

	_, err := repo.HitWindow(ctx, "ip", time.Now(), time.Minute)
	require.NoError(t, err)
	require.NoError(t, repo.ResetWindow(ctx, "ip"))

	assert.False(t, mr.Exists("ratelimit:ip"))
}
