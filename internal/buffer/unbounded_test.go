package buffer

import (
	"testing"
	"time"
)

func TestUnboundedPreservesOrder(t *testing.T) {
	in, out := Unbounded[int](4, 100)

	for i := 0; i < 10; i++ {
		in <- i
	}

	for i := 0; i < 10; i++ {
		select {
		case v := <-out:
			if v != i {
				t.Fatalf("expected %d, got %d", i, v)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for item %d", i)
		}
	}
}

func TestUnboundedDropsOldestPastHardLimit(t *testing.T) {
	const hardLimit = 3
	in, out := Unbounded[int](2, hardLimit)

	// Feed far more than the hard limit without draining out, so the
	// internal queue is forced past its safety valve.
	const total = 50
	go func() {
		for i := 0; i < total; i++ {
			in <- i
		}
	}()

	// Give the producer and the buffer goroutine time to run well past
	// the point where the hard limit must have kicked in.
	time.Sleep(100 * time.Millisecond)

	var got []int
	for {
		select {
		case v := <-out:
			got = append(got, v)
		case <-time.After(200 * time.Millisecond):
			goto done
		}
	}
done:
	if len(got) == 0 {
		t.Fatal("expected some items to survive")
	}
	if len(got) >= total {
		t.Fatalf("expected the hard limit to drop some items, got all %d", len(got))
	}
	// Drops always remove the oldest queued item, so survivors are
	// strictly increasing and never duplicated even though some values
	// were dropped in between.
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("expected strictly increasing survivors, got %v", got)
		}
	}
}

func TestUnboundedClosesOutOnInputClose(t *testing.T) {
	in, out := Unbounded[int](2, 10)
	in <- 1
	close(in)

	select {
	case v, ok := <-out:
		if !ok || v != 1 {
			t.Fatalf("expected flushed value 1, got %d ok=%v", v, ok)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for flushed value")
	}

	select {
	case _, ok := <-out:
		if ok {
			t.Fatal("expected out to be closed after flush")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for out to close")
	}
}
