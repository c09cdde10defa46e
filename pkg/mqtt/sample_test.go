package mqtt

import "testing"

func TestSampleDecimation(t *testing.T) {
	s := NewSample(3)
	want := []bool{false, false, true, false, false, true}
	for i, w := range want {
		if got := s.Ready(); got != w {
			t.Errorf("call %d: Ready() = %v, want %v", i, got, w)
		}
	}
}

func TestSampleRateOne(t *testing.T) {
	for _, rate := range []int{1, 0, -5} {
		s := NewSample(rate)
		for i := 0; i < 3; i++ {
			if !s.Ready() {
				t.Errorf("rate %d call %d: Ready() = false, want every call ready", rate, i)
			}
		}
	}
}
