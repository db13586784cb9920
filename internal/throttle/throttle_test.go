package throttle

import (
	"testing"
	"time"
)

func TestFlushesOnLastItem(t *testing.T) {
	th := New[int](3, time.Hour) // interval far longer than the test

	var flushes [][]int
	th.Done(1, func(b []int) { flushes = append(flushes, b) })
	th.Done(2, func(b []int) { flushes = append(flushes, b) })
	if len(flushes) != 0 {
		t.Fatalf("expected no flush before the last item, got %v", flushes)
	}

	th.Done(3, func(b []int) { flushes = append(flushes, b) })
	if len(flushes) != 1 {
		t.Fatalf("expected exactly one flush after the last item, got %v", flushes)
	}
	if got := flushes[0]; len(got) != 3 {
		t.Fatalf("expected batch of 3 on final flush, got %v", got)
	}
}

func TestFlushesOnInterval(t *testing.T) {
	th := New[int](100, time.Millisecond)

	var flushes [][]int
	th.Done(1, func(b []int) { flushes = append(flushes, b) })
	time.Sleep(5 * time.Millisecond)
	th.Done(2, func(b []int) { flushes = append(flushes, b) })

	if len(flushes) != 2 {
		t.Fatalf("expected two interval-triggered flushes, got %d: %v", len(flushes), flushes)
	}
}
