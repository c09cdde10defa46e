package harness

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/mikesmitty/steady-eddy/pkg/sample"
	"github.com/mikesmitty/steady-eddy/pkg/swma"
)

func mustEngine(t *testing.T, windowSize, sampleBits, guardBits int, wrap bool) *swma.SlidingWindow {
	t.Helper()
	s, err := swma.New(windowSize, sampleBits, guardBits, wrap)
	if err != nil {
		t.Fatalf("swma.New: %v", err)
	}
	return s
}

func TestRunMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	samples := make([]int64, 1000)
	for i := range samples {
		samples[i] = int64(int32(rng.Uint32()))
	}

	res, err := New(mustEngine(t, 8, 32, 0, false)).Run(samples)
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := res.Diverged(); ok {
		t.Fatalf("unexpected divergence at cycle %d", n)
	}
	if err := res.Err(); err != nil {
		t.Fatalf("Err() = %v on a clean run", err)
	}
	if len(res.Records) != len(samples) {
		t.Fatalf("log has %d records, want %d", len(res.Records), len(samples))
	}
	for n, rec := range res.Records {
		if !rec.Match || rec.Cycle != n || rec.Input != samples[n] {
			t.Fatalf("record %d malformed: %+v", n, rec)
		}
	}
}

func TestRunSmallWindows(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	samples := make([]int64, 200)
	for i := range samples {
		samples[i] = int64(int16(rng.Uint32()))
	}
	for _, window := range []int{1, 2, 3, 7, 8, 200, 500} {
		res, err := New(mustEngine(t, window, 16, 0, false)).Run(samples)
		if err != nil {
			t.Fatal(err)
		}
		if n, ok := res.Diverged(); ok {
			t.Errorf("window %d: divergence at cycle %d", window, n)
		}
	}
}

func TestDivergenceReported(t *testing.T) {
	// An undersized wrapping accumulator disagrees with the unbounded
	// reference as soon as the window sum overflows 5 bits.
	eng := mustEngine(t, 4, 4, 1, true)
	res, err := New(eng).Run([]int64{7, 7, 7, 7})
	if err != nil {
		t.Fatal(err)
	}
	n, ok := res.Diverged()
	if !ok {
		t.Fatal("expected divergence, got none")
	}
	if n != 2 {
		t.Fatalf("divergence at cycle %d, want 2", n)
	}
	if len(res.Records) != 4 {
		t.Fatalf("log has %d records, want the complete run of 4", len(res.Records))
	}

	div, ok := res.Err().(*Divergence)
	if !ok {
		t.Fatalf("Err() type %T, want *Divergence", res.Err())
	}
	if div.Cycle != 2 || div.Engine != -2 || div.Reference != 5 {
		t.Errorf("divergence = %+v, want cycle 2 engine -2 reference 5", div)
	}
}

func TestWriteLog(t *testing.T) {
	codec, err := sample.New(4)
	if err != nil {
		t.Fatal(err)
	}
	res, err := New(mustEngine(t, 2, 4, 0, false)).Run([]int64{7, -1})
	if err != nil {
		t.Fatal(err)
	}

	var sb strings.Builder
	if err := WriteLog(&sb, codec, res.Records); err != nil {
		t.Fatal(err)
	}
	want := "Input: 0111 | Output: 0011\n" +
		"Input: 1111 | Output: 0011\n"
	if sb.String() != want {
		t.Errorf("log output:\n%swant:\n%s", sb.String(), want)
	}
}
