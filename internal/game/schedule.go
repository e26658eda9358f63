package game

import (
	"container/heap"
	"time"
)

// scheduled is a callback due at a match time. seq breaks ties so that
// callbacks with the same deadline run in the order they were scheduled.
type scheduled struct {
	at  time.Duration
	seq uint64
	run func()
}

type scheduleHeap []*scheduled

func (h scheduleHeap) Len() int { return len(h) }
func (h scheduleHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}
func (h scheduleHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *scheduleHeap) Push(x any)   { *h = append(*h, x.(*scheduled)) }
func (h *scheduleHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Schedule is a deadline-ordered queue of deferred callbacks, drained from
// the tick. It replaces wall-clock timers so detonations are deterministic.
type Schedule struct {
	items scheduleHeap
	seq   uint64
}

// At queues fn to run once the match clock reaches at.
func (s *Schedule) At(at time.Duration, fn func()) {
	s.seq++
	heap.Push(&s.items, &scheduled{at: at, seq: s.seq, run: fn})
}

// RunDue runs, one at a time and to completion, every callback whose
// deadline is at or before now. Callbacks scheduled while draining are run
// in the same pass when they are already due.
func (s *Schedule) RunDue(now time.Duration) int {
	n := 0
	for len(s.items) > 0 && s.items[0].at <= now {
		item := heap.Pop(&s.items).(*scheduled)
		item.run()
		n++
	}
	return n
}

// Len returns the number of pending callbacks.
func (s *Schedule) Len() int { return len(s.items) }

// Clear discards every pending callback.
func (s *Schedule) Clear() {
	s.items = nil
}
