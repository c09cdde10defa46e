// Package golden is the reference model for the sliding-window
// averager. It recomputes the whole output sequence from scratch with
// the recursive accumulator rule, sharing no code with pkg/swma so a
// bug common to both cannot hide.
package golden

import "fmt"

// Accumulators returns the running window sums for the full input
// sequence: acc[n] = acc[n-1] + x[n] - x[n-window], where samples
// before the start of the sequence count as zero.
func Accumulators(samples []int64, window int) ([]int64, error) {
	if window < 1 {
		return nil, fmt.Errorf("window length must be positive, got %d", window)
	}
	acc := make([]int64, len(samples))
	for n := range samples {
		a := samples[n]
		if n > 0 {
			a += acc[n-1]
		}
		if n >= window {
			a -= samples[n-window]
		}
		acc[n] = a
	}
	return acc, nil
}

// Averages returns the expected output sequence: each accumulator
// divided by the window length, truncating toward zero. The first
// window-1 outputs are averages over a zero-padded window, not a
// shorter one.
func Averages(samples []int64, window int) ([]int64, error) {
	acc, err := Accumulators(samples, window)
	if err != nil {
		return nil, err
	}
	out := make([]int64, len(acc))
	for n, a := range acc {
		out[n] = a / int64(window)
	}
	return out, nil
}
