// Package harness drives a sample sequence through the incremental
// engine and the batch golden model in lock-step and diffs the two
// output streams.
package harness

import (
	"fmt"
	"io"

	"github.com/mikesmitty/steady-eddy/pkg/golden"
	"github.com/mikesmitty/steady-eddy/pkg/sample"
	"github.com/mikesmitty/steady-eddy/pkg/swma"
)

// Record holds one cycle's worth of comparison.
type Record struct {
	Cycle     int
	Input     int64
	Engine    int64
	Reference int64
	Match     bool
}

// Divergence marks the first cycle where the engine and the reference
// disagree. It is produced from a completed run, never thrown
// mid-stream.
type Divergence struct {
	Cycle     int
	Engine    int64
	Reference int64
}

func (d *Divergence) Error() string {
	return fmt.Sprintf("engine diverged from reference at cycle %d: engine %d, reference %d", d.Cycle, d.Engine, d.Reference)
}

// Result is the complete comparison log for a run. The log is always
// full-length even when the run diverges.
type Result struct {
	Records    []Record
	divergence int
}

// Diverged reports the first diverging cycle, if any.
func (r *Result) Diverged() (int, bool) {
	return r.divergence, r.divergence >= 0
}

// Err converts a diverging result into a *Divergence error, nil when
// the full run matched.
func (r *Result) Err() error {
	if r.divergence < 0 {
		return nil
	}
	rec := r.Records[r.divergence]
	return &Divergence{Cycle: rec.Cycle, Engine: rec.Engine, Reference: rec.Reference}
}

type Harness struct {
	engine *swma.SlidingWindow
}

func New(engine *swma.SlidingWindow) *Harness {
	return &Harness{engine: engine}
}

// Run submits every sample in order, one cycle each, and compares the
// engine's outputs against the golden model's batch result. The engine
// is only touched through Submit.
func (h *Harness) Run(samples []int64) (*Result, error) {
	want, err := golden.Averages(samples, h.engine.WindowSize())
	if err != nil {
		return nil, err
	}
	res := &Result{
		Records:    make([]Record, 0, len(samples)),
		divergence: -1,
	}
	for n, x := range samples {
		got, ok := h.engine.Submit(x, true)
		if !ok {
			return nil, fmt.Errorf("engine produced no output for valid sample at cycle %d", n)
		}
		rec := Record{
			Cycle:     n,
			Input:     x,
			Engine:    got,
			Reference: want[n],
			Match:     got == want[n],
		}
		if !rec.Match && res.divergence < 0 {
			res.divergence = n
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

// WriteLog emits the cycle log, one line per cycle, inputs and engine
// outputs as zero-padded binary. This is the artifact diffed against
// the reference simulation's log.
func WriteLog(w io.Writer, c *sample.Codec, records []Record) error {
	for _, rec := range records {
		_, err := fmt.Fprintf(w, "Input: %s | Output: %s\n", c.EncodeBin(rec.Input), c.EncodeBin(rec.Engine))
		if err != nil {
			return err
		}
	}
	return nil
}
