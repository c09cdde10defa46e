// Package swma is the incremental sliding-window moving average
// datapath: one validity-gated sample in, one validity-gated average
// out, per cycle.
package swma

import (
	"fmt"
	"math/bits"
)

type SlidingWindow struct {
	sum        int64
	window     []int64
	windowSize int
	accBits    int
	wrap       bool
}

// GuardBits returns the accumulator headroom needed to sum windowSize
// full-scale samples without overflow: ceil(log2(windowSize)).
func GuardBits(windowSize int) int {
	return bits.Len(uint(windowSize - 1))
}

// New builds an engine for a fixed window length. guardBits may be 0
// to derive the headroom from the window length; an explicit value
// below the derived need is rejected unless wrap is set, in which case
// the accumulator wraps two's-complement at sampleBits+guardBits like
// a fixed-width hardware register.
func New(windowSize, sampleBits, guardBits int, wrap bool) (*SlidingWindow, error) {
	if windowSize < 1 {
		return nil, fmt.Errorf("window length must be positive, got %d", windowSize)
	}
	if sampleBits < 1 || sampleBits > 64 {
		return nil, fmt.Errorf("sample width must be 1-64 bits, got %d", sampleBits)
	}
	if guardBits < 0 {
		return nil, fmt.Errorf("guard bits must not be negative, got %d", guardBits)
	}
	need := GuardBits(windowSize)
	if guardBits == 0 {
		guardBits = need
	}
	if guardBits < need && !wrap {
		return nil, fmt.Errorf("%d guard bits cannot hold a %d-sample window, need %d", guardBits, windowSize, need)
	}
	accBits := sampleBits + guardBits
	if accBits > 64 {
		return nil, fmt.Errorf("accumulator width %d exceeds 64 bits", accBits)
	}
	return &SlidingWindow{
		window:     make([]int64, windowSize),
		windowSize: windowSize,
		accBits:    accBits,
		wrap:       wrap,
	}, nil
}

// Submit advances the engine by one cycle. When valid is false the
// cycle is idle: no state changes and no output is produced. The
// window starts out filled with zeros, so the first windowSize-1
// outputs average a zero-padded window rather than a shorter one.
func (s *SlidingWindow) Submit(value int64, valid bool) (int64, bool) {
	if !valid {
		return 0, false
	}
	s.sum += value
	s.sum -= s.window[0]
	if s.wrap {
		s.sum = wrapTo(s.sum, s.accBits)
	}
	s.window = append(s.window[1:], value)
	return s.sum / int64(s.windowSize), true
}

func (s *SlidingWindow) Average() int64 {
	return s.sum / int64(s.windowSize)
}

// Reset clears the accumulator and history. The next Submit behaves
// exactly like the first ever.
func (s *SlidingWindow) Reset() {
	s.sum = 0
	s.window = make([]int64, s.windowSize)
}

func (s *SlidingWindow) Sum() int64 {
	return s.sum
}

func (s *SlidingWindow) Window() []int64 {
	return s.window
}

func (s *SlidingWindow) WindowSize() int {
	return s.windowSize
}

func (s *SlidingWindow) AccumulatorBits() int {
	return s.accBits
}

// wrapTo reinterprets v as a width-bit two's-complement value.
func wrapTo(v int64, width int) int64 {
	if width >= 64 {
		return v
	}
	u := uint64(v) & (1<<width - 1)
	if u&(1<<(width-1)) != 0 {
		u |= ^uint64(0) << width
	}
	return int64(u)
}
