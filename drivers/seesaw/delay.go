package seesaw

import (
	"context"
	"time"
)

// Delayer pauses the calling goroutine. Used by the blocking transport.
type Delayer interface {
	DelayMicros(us uint32)
}

// ContextDelayer waits for d or until ctx ends, whichever comes first. Used by
// the suspending transport; returning early is only ever due to ctx.
type ContextDelayer interface {
	DelayContext(ctx context.Context, d time.Duration) error
}

// SleepDelay blocks with time.Sleep. On TinyGo targets this is the
// scheduler-aware sleep, on hosts it parks the goroutine.
type SleepDelay struct{}

func (SleepDelay) DelayMicros(us uint32) {
	time.Sleep(time.Duration(us) * time.Microsecond)
}

// TimerDelay suspends on a timer and gives up as soon as ctx is done.
type TimerDelay struct{}

func (TimerDelay) DelayContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// DelayFunc adapts a plain function, e.g. a board's busy-wait.
type DelayFunc func(us uint32)

func (f DelayFunc) DelayMicros(us uint32) { f(us) }
