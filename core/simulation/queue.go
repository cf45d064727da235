package simulation

import (
	"container/heap"

	"github.com/fairwaydispatch/caddie/core/model"
)

// eventQueue is a container/heap priority queue of model.Event ordered by
// (AtTime, InsertionSeq), the Go analogue of the Python original's heapq
// on (timestamp, a monotonically increasing counter) — ties broken by
// insertion order so two events scheduled for the same instant always
// replay in the order they were scheduled, not map/slice iteration order.
type eventQueue []model.Event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].AtTime != q[j].AtTime {
		return q[i].AtTime < q[j].AtTime
	}
	return q[i].InsertionSeq < q[j].InsertionSeq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) {
	*q = append(*q, x.(model.Event))
}

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// schedule pushes ev onto q, stamping it with the engine's next insertion
// sequence number first.
func (e *Engine) schedule(ev model.Event) {
	ev.InsertionSeq = e.nextSeq()
	heap.Push(&e.queue, ev)
}

func (e *Engine) nextSeq() uint64 {
	e.seq++
	return e.seq
}

// pop removes and returns the earliest-ordered event, or ok=false when the
// queue is empty.
func (e *Engine) pop() (model.Event, bool) {
	if e.queue.Len() == 0 {
		return model.Event{}, false
	}
	return heap.Pop(&e.queue).(model.Event), true
}
