package stats

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	s := Summarize([]int64{2, 4, 4, 4, 5, 5, 7, 9})
	if s.Count != 8 {
		t.Errorf("Count = %d, want 8", s.Count)
	}
	if s.Min != 2 || s.Max != 9 {
		t.Errorf("range = [%d, %d], want [2, 9]", s.Min, s.Max)
	}
	if s.Mean != 5.0 {
		t.Errorf("Mean = %v, want 5.0", s.Mean)
	}
	// Sample stddev of the classic 2,4,4,4,5,5,7,9 set.
	if math.Abs(s.StdDev-2.13809) > 1e-4 {
		t.Errorf("StdDev = %v, want ~2.13809", s.StdDev)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Count != 0 || s.Mean != 0 {
		t.Errorf("empty summary = %+v, want zero value", s)
	}
}

func TestQuantileSpread(t *testing.T) {
	values := make([]int64, 100)
	for i := range values {
		values[i] = int64(i)
	}
	spread := QuantileSpread(values, 0.25)
	if spread <= 0 || spread >= 99 {
		t.Errorf("interquartile spread = %v, want within (0, 99)", spread)
	}
	if QuantileSpread(nil, 0.25) != 0 {
		t.Error("empty spread should be 0")
	}
}

func TestSummaryString(t *testing.T) {
	got := Summarize([]int64{1, 2, 3}).String()
	want := "n=3 min=1 max=3 mean=2.000 stddev=1.000"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
