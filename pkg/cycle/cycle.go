// Package cycle runs the averaging engine as a pipeline stage: one
// input sample per cycle in, one averaged output per cycle out.
package cycle

import (
	"log/slog"

	"github.com/mikesmitty/steady-eddy/pkg/swma"
)

type Cycle struct {
	N      int
	Input  int64
	Output int64
}

// NewAverager wraps the engine in a channel stage. The engine is only
// ever touched from the stage's own goroutine; the returned reset
// function just requests a synchronous reset, which takes effect at the
// start of the next cycle, so callers on other goroutines never alias
// the engine state.
func NewAverager(eng *swma.SlidingWindow, input <-chan int64) (<-chan Cycle, func(), func() error) {
	c := make(chan Cycle, 1)
	resetCh := make(chan struct{}, 1)
	reset := func() {
		select {
		case resetCh <- struct{}{}:
		default:
		}
	}
	run := func() error {
		defer close(c)
		n := 0
		for x := range input {
			select {
			case <-resetCh:
				slog.Info("window reset requested, clearing engine state")
				eng.Reset()
			default:
			}
			out, ok := eng.Submit(x, true)
			if !ok {
				continue
			}
			slog.Debug("cycle", "n", n, "input", x, "output", out)
			c <- Cycle{N: n, Input: x, Output: out}
			n++
		}
		return nil
	}
	return c, reset, run
}
