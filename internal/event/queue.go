package event

import (
	"sync"
	"sync/atomic"
)

// Capacity is the fixed size of the event queue.
const Capacity = 16

// Queue is a fixed-capacity FIFO between the edge-event goroutine (producer)
// and the main loop (consumer). When the queue is full the incoming event is
// dropped and the existing entries keep their order; a dropped-event counter
// records the loss instead of logging from the producer path.
type Queue struct {
	mu    sync.Mutex
	buf   [Capacity]Type
	head  int // index of oldest entry
	count int

	dropped atomic.Uint32
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue adds ev to the tail of the queue. If the queue is full, ev is
// dropped, the dropped counter is incremented, and false is returned.
func (q *Queue) Enqueue(ev Type) bool {
	q.mu.Lock()
	if q.count == Capacity {
		q.mu.Unlock()
		q.dropped.Add(1)
		return false
	}
	q.buf[(q.head+q.count)%Capacity] = ev
	q.count++
	q.mu.Unlock()
	return true
}

// Drain removes and returns all queued events in arrival order.
// Returns nil when the queue is empty.
func (q *Queue) Drain() []Type {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		return nil
	}
	out := make([]Type, q.count)
	for i := 0; i < q.count; i++ {
		out[i] = q.buf[(q.head+i)%Capacity]
	}
	q.head = 0
	q.count = 0
	return out
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Dropped returns the number of events dropped since the last call and
// clears the counter (read-and-clear; the producer only ever increments).
func (q *Queue) Dropped() uint32 {
	return q.dropped.Swap(0)
}
