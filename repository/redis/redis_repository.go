package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// Repository defines the Redis operations backing the auth rate limiter
type Repository interface {
	// HitWindow records a hit for key at now and returns how many hits fall
	// inside the trailing window, this one included.
	HitWindow(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error)
	ResetWindow(ctx context.Context, key string) error
}

type redis struct {
	client *goredis.Client
}

// NewRepository returns a Redis Repository implementation
func NewRepository(client *goredis.Client) Repository {
	return &redis{client: client}
}

// HitWindow keeps one sorted-set member per hit scored by its unix milliseconds.
func (r *redis) HitWindow(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error) {
	k := keyPrefix + key
	nowMs := now.UnixMilli()
	oldest := nowMs - window.Milliseconds()

	var card *goredis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, k, "-inf", "("+strconv.FormatInt(oldest, 10))
		pipe.ZAdd(ctx, k, goredis.Z{Score: float64(nowMs), Member: uuid.NewString()})
		card = pipe.ZCard(ctx, k)
		pipe.PExpire(ctx, k, window)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return card.Val(), nil
}

// ResetWindow removes all recorded hits for key
func (r *redis) ResetWindow(ctx context.Context, key string) error {
	return r.client.Del(ctx, keyPrefix+key).Err()
}
