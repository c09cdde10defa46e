// Package stats summarizes a run's sample and output sequences for the
// verification report.
package stats

import (
	"fmt"
	"slices"
	"sort"

	"gonum.org/v1/gonum/stat"
)

type Summary struct {
	Count  int
	Min    int64
	Max    int64
	Mean   float64
	StdDev float64
}

func (s Summary) String() string {
	return fmt.Sprintf("n=%d min=%d max=%d mean=%.3f stddev=%.3f", s.Count, s.Min, s.Max, s.Mean, s.StdDev)
}

// Summarize computes the basic distribution of a sequence.
func Summarize(values []int64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	f := make([]float64, len(values))
	for i, v := range values {
		f[i] = float64(v)
	}
	return Summary{
		Count:  len(values),
		Min:    slices.Min(values),
		Max:    slices.Max(values),
		Mean:   stat.Mean(f, nil),
		StdDev: stat.StdDev(f, nil),
	}
}

// QuantileSpread returns the spread between the pct and 1-pct empirical
// quantiles, a coarse outlier-resistant width of the distribution.
func QuantileSpread(values []int64, pct float64) float64 {
	if len(values) == 0 {
		return 0
	}
	f := make([]float64, len(values))
	for i, v := range values {
		f[i] = float64(v)
	}
	sort.Float64s(f)
	lo := stat.Quantile(pct, stat.Empirical, f, nil)
	hi := stat.Quantile(1-pct, stat.Empirical, f, nil)
	return hi - lo
}
