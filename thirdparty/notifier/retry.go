package notifier

import (
	"context"
	"errors"
	"time"

	"github.com/muhammadheryan/internmatch/utils/logger"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// Retry wraps a notifier with exponential backoff. ErrNotApplicable is never retried.
type Retry struct {
	next       Notifier
	maxRetries uint64
	base       time.Duration
}

func NewRetry(next Notifier, maxRetries uint64, base time.Duration) *Retry {
	return &Retry{next: next, maxRetries: maxRetries, base: base}
}

func (r *Retry) Name() string {
	return r.next.Name()
}

func (r *Retry) Notify(ctx context.Context, msg Message) error {
	backoff := retry.WithMaxRetries(r.maxRetries, retry.NewExponential(r.base))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := r.next.Notify(ctx, msg)
		if err == nil || errors.Is(err, ErrNotApplicable) {
			return err
		}
		logger.Warn("[Notifier.Retry] attempt failed",
			zap.String("notifier", r.next.Name()),
			zap.Int("attempt", attempt),
			zap.String("error", err.Error()))
		return retry.RetryableError(err)
	})
}
