package ratelimit

import (
	"context"
	"math/rand"
	"time"
)

type Limiter interface {
	Wait(ctx context.Context) error
}

// FixedDelayLimiter sleeps the same delay before every request. The
// delay is drawn once, at construction, from [minDelay, maxDelay].
type FixedDelayLimiter struct {
	delay time.Duration
}

func NewFixedDelayLimiter(minDelay, maxDelay time.Duration) *FixedDelayLimiter {
	delay := minDelay
	if maxDelay > minDelay {
		delay += time.Duration(rand.Int63n(int64(maxDelay - minDelay)))
	}
	return &FixedDelayLimiter{delay: delay}
}

func (l *FixedDelayLimiter) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(l.delay):
		return nil
	}
}

// Delay reports the delay applied before each request.
func (l *FixedDelayLimiter) Delay() time.Duration {
	return l.delay
}
