package source

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mikesmitty/steady-eddy/pkg/sample"
)

func mustCodec(t *testing.T, width int) *sample.Codec {
	t.Helper()
	c, err := sample.New(width)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestSampleChannel(t *testing.T) {
	in := "00000002\n\n0x00000003\nfffffffe\n"
	ch, run := SampleChannel(context.Background(), strings.NewReader(in), mustCodec(t, 32), time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- run() }()

	var got []int64
	for v := range ch {
		got = append(got, v)
	}
	if err := <-done; err != nil {
		t.Fatalf("run returned %v", err)
	}

	want := []int64{2, 3, -2}
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestSampleChannelBadToken(t *testing.T) {
	ch, run := SampleChannel(context.Background(), strings.NewReader("00000001\nnope\n"), mustCodec(t, 32), time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- run() }()
	for range ch {
	}

	err := <-done
	fe, ok := err.(*sample.FormatError)
	if !ok {
		t.Fatalf("error type %T, want *sample.FormatError", err)
	}
	if fe.Line != 2 {
		t.Errorf("error line = %d, want 2", fe.Line)
	}
}

func TestSampleChannelCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	// An endless reader; only cancellation can stop the stream.
	r := strings.NewReader(strings.Repeat("00000001\n", 10000))
	ch, run := SampleChannel(ctx, r, mustCodec(t, 32), time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- run() }()

	<-ch
	cancel()
	for range ch {
	}
	if err := <-done; err != nil {
		t.Errorf("run returned %v after cancel", err)
	}
}
