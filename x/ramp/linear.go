// Package ramp drives an integer output from one level to another in even
// steps, for fading PWM duty cycles and similar.
package ramp

import (
	"context"
	"time"

	"golang.org/x/exp/constraints"

	"seesaw-go/x/mathx"
)

// Step sets the output to level.
type Step[T constraints.Integer] func(ctx context.Context, level T) error

// Linear moves from cur to `to` over d in the given number of steps, calling
// set once per distinct level and always finishing on `to`. steps <= 0 or
// d <= 0 snaps straight to `to`. It returns early with the first set error
// or ctx's error.
func Linear[T constraints.Integer](ctx context.Context, cur, to T, d time.Duration, steps int, set Step[T]) error {
	if steps <= 0 || d <= 0 || cur == to {
		return set(ctx, to)
	}
	if err := set(ctx, cur); err != nil {
		return err
	}

	lo, hi := int64(cur), int64(to)
	delta := hi - lo
	stepDur := d / time.Duration(steps)
	if stepDur <= 0 {
		stepDur = time.Millisecond
	}
	t := time.NewTimer(stepDur)
	defer t.Stop()

	// Bresenham-style accumulator keeps the levels evenly spaced.
	acc, level, last := int64(0), lo, lo
	for i := 1; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
		t.Reset(stepDur)

		acc += delta
		if inc := acc / int64(steps); inc != 0 {
			acc -= inc * int64(steps)
			level = mathx.Clamp(level+inc, lo, hi)
		}
		if level == last {
			continue
		}
		last = level
		if err := set(ctx, T(level)); err != nil {
			return err
		}
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
	}
	return set(ctx, to)
}
