package router

import (
	"testing"
)

func TestFanCopiesToAllSubscribers(t *testing.T) {
	in := make(chan int)
	f := NewFan("test", in)
	a := f.Subscribe("a")
	b := f.Subscribe("b")

	done := make(chan struct{})
	go func() {
		f.Run()
		close(done)
	}()

	go func() {
		for i := 1; i <= 3; i++ {
			in <- i
		}
		close(in)
	}()

	var gotA, gotB []int
	drained := make(chan struct{})
	go func() {
		for v := range b {
			gotB = append(gotB, v)
		}
		close(drained)
	}()
	for v := range a {
		gotA = append(gotA, v)
	}
	<-drained
	<-done

	for _, got := range [][]int{gotA, gotB} {
		if len(got) != 3 {
			t.Fatalf("subscriber got %d values, want 3", len(got))
		}
		for i, v := range got {
			if v != i+1 {
				t.Errorf("value %d = %d, want %d", i, v, i+1)
			}
		}
	}
}

func TestFanClosesSubscribersOnInputClose(t *testing.T) {
	in := make(chan int)
	f := NewFan("test", in)
	sub := f.Subscribe("only")
	go f.Run()

	close(in)
	if _, ok := <-sub; ok {
		t.Error("subscriber channel still open after input close")
	}
}

func TestDoubleSubscribePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("double subscribe did not panic")
		}
	}()
	f := NewFan("test", make(chan int))
	f.Subscribe("dup")
	f.Subscribe("dup")
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	f := NewFan("test", make(chan int))
	sub := f.Subscribe("a")
	f.Unsubscribe("a")
	if _, ok := <-sub; ok {
		t.Error("channel still open after unsubscribe")
	}
}
