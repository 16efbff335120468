package searcher

import (
	"context"
	"time"
)

// Repeater drives a step function in a loop until a wall-clock budget
// elapses or the context is cancelled. The step is always run at least once,
// even on a zero or negative budget, so a fresh tree gets at least one
// simulation per ply. The loop stops early once the average step duration no
// longer fits in the remaining budget, so the deadline is never overrun by
// more than one step.
type Repeater struct {
	step func() error
}

func NewRepeater(step func() error) *Repeater {
	return &Repeater{step: step}
}

// Run returns the number of completed steps and the elapsed time. A step
// error stops the loop and is returned alongside the counts; cancellation
// stops the loop gracefully with a nil error.
func (r *Repeater) Run(ctx context.Context, budget time.Duration) (int, time.Duration, error) {
	start := time.Now()
	iterations := 0
	for {
		if err := r.step(); err != nil {
			return iterations, time.Since(start), err
		}
		iterations++

		elapsed := time.Since(start)
		average := elapsed / time.Duration(iterations)
		if elapsed+average >= budget {
			return iterations, elapsed, nil
		}
		select {
		case <-ctx.Done():
			return iterations, elapsed, nil
		default:
		}
	}
}
