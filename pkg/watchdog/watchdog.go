package watchdog

import (
	"log/slog"
	"time"
)

// NewWatchdog calls shutdown if no value arrives on input for two
// consecutive intervals. A closed input stops the watchdog quietly.
func NewWatchdog[T any](interval time.Duration, shutdown func() error, input <-chan T) func() error {
	return func() error {
		t := time.NewTimer(interval)
		defer t.Stop()
		awake := true
		slog.Debug("watchdog started", "timeout", interval)
		for {
			select {
			case _, ok := <-input:
				if !ok {
					slog.Debug("watchdog input closed, stopping")
					return nil
				}
				awake = true
			case <-t.C:
				if !awake {
					slog.Error("watchdog timeout, stopping sample stream", "timeout", interval)
					if err := shutdown(); err != nil {
						return err
					}
				}
				awake = false
				t.Reset(interval)
			}
		}
	}
}
