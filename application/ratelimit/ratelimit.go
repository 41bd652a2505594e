package ratelimit

import (
	"context"
	"sync"
	"time"

	redisrepo "github.com/muhammadheryan/internmatch/repository/redis"
)

// Limiter decides whether another request from key fits in the window
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type Config struct {
	Window time.Duration
	Max    int
}

// RedisLimiter is a sliding-window log shared by every server instance.
type RedisLimiter struct {
	repo   redisrepo.Repository
	window time.Duration
	max    int64
	now    func() time.Time
}

func NewRedisLimiter(repo redisrepo.Repository, cfg Config) *RedisLimiter {
	return &RedisLimiter{
		repo:   repo,
		window: cfg.Window,
		max:    int64(cfg.Max),
		now:    time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	hits, err := l.repo.HitWindow(ctx, key, l.now(), l.window)
	if err != nil {
		return false, err
	}
	return hits <= l.max, nil
}

// MemoryLimiter is the in-process counterpart of RedisLimiter: a sliding-window
// log per key with the same counting rules. Every hit is logged, rejected ones
// included, and a request is allowed while the window holds at most Max hits.
type MemoryLimiter struct {
	mu        sync.Mutex
	hits      map[string][]time.Time
	window    time.Duration
	max       int
	lastSweep time.Time
	now       func() time.Time
}

func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	return &MemoryLimiter{
		hits:   make(map[string][]time.Time),
		window: cfg.Window,
		max:    cfg.Max,
		now:    time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	log := append(prune(l.hits[key], now.Add(-l.window)), now)
	// only the newest max+1 hits can change the outcome
	if len(log) > l.max+1 {
		log = append(log[:0], log[len(log)-l.max-1:]...)
	}
	l.hits[key] = log
	return len(log) <= l.max, nil
}

// prune drops hits older than oldest; a hit exactly at oldest still counts.
func prune(log []time.Time, oldest time.Time) []time.Time {
	i := 0
	for i < len(log) && log[i].Before(oldest) {
		i++
	}
	return log[i:]
}

// sweep forgets keys whose newest hit has left the window.
func (l *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now
	oldest := now.Add(-l.window)
	for k, log := range l.hits {
		if len(log) == 0 || log[len(log)-1].Before(oldest) {
			delete(l.hits, k)
		}
	}
}

func (l *MemoryLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hits)
}
