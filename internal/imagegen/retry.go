package imagegen

import (
	"context"
	"time"
)

// RetryPolicy is plain exponential backoff: no jitter and no delay cap.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   int
}

// DefaultRetryPolicy makes three attempts, waiting 1s then 2s in between.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, InitialDelay: time.Second, Multiplier: 2}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}
	if p.InitialDelay < 0 {
		p.InitialDelay = 0
	}
	if p.Multiplier <= 0 {
		p.Multiplier = 1
	}
	return p
}

// Delays lists the waits between consecutive attempts.
func (p RetryPolicy) Delays() []time.Duration {
	p = p.normalized()
	out := make([]time.Duration, 0, p.MaxAttempts-1)
	delay := p.InitialDelay
	for i := 1; i < p.MaxAttempts; i++ {
		out = append(out, delay)
		delay *= time.Duration(p.Multiplier)
	}
	return out
}

// Sleeper blocks for d or until ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to Sleeper.
type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error { return f(ctx, d) }

// TimerSleeper waits on a real timer.
var TimerSleeper Sleeper = SleeperFunc(func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
})
