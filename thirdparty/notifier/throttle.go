package notifier

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle paces sends to stay under the provider's per-account quota.
type Throttle struct {
	next    Notifier
	limiter *rate.Limiter
}

// NewThrottle allows one send per interval after an initial burst. A
// non-positive interval disables pacing.
func NewThrottle(next Notifier, interval time.Duration, burst int) *Throttle {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	if burst < 1 {
		burst = 1
	}
	return &Throttle{next: next, limiter: rate.NewLimiter(limit, burst)}
}

func (t *Throttle) Name() string {
	return t.next.Name()
}

func (t *Throttle) Notify(ctx context.Context, msg Message) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	return t.next.Notify(ctx, msg)
}
