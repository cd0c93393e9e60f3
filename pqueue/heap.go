// Package pqueue implements the general-purpose domain priority queue: a
// classic binary min-heap ordered on ts.Timestamp, backed by a handle
// arena in the teacher's QuantumQueue idiom (index-addressed nodes with a
// freelist) rather than Go's container/heap interface, so callers get a
// stable Handle they can hold onto across Push/PopTop cycles.
package pqueue

import (
	"errors"

	"github.com/SwarmArch/runtime/task"
	"github.com/SwarmArch/runtime/ts"
)

// Handle addresses a node in the arena. It stays valid until the node is
// popped or explicitly removed.
type Handle uint32

const nilHandle Handle = ^Handle(0)

var (
	ErrEmpty        = errors.New("pqueue: empty queue")
	ErrItemNotFound = errors.New("pqueue: invalid handle")
)

type node struct {
	ts   ts.Timestamp
	seq  uint64 // insertion order, breaks ts ties FIFO
	task *task.Task
	pos  int32 // index into heap, or -1 if not currently in the heap
	next Handle
}

// Queue is a handle-addressed binary min-heap over (ts.Timestamp, insertion
// order): same-timestamp entries come out in the order they were pushed,
// per spec.md §8 invariant 1.
type Queue struct {
	arena    []node
	freeHead Handle
	heap     []Handle
	nextSeq  uint64
}

// New returns an empty queue. capacityHint preallocates arena storage.
func New(capacityHint int) *Queue {
	q := &Queue{freeHead: nilHandle}
	if capacityHint > 0 {
		q.arena = make([]node, 0, capacityHint)
		q.heap = make([]Handle, 0, capacityHint)
	}
	return q
}

func (q *Queue) borrow() Handle {
	if q.freeHead != nilHandle {
		h := q.freeHead
		q.freeHead = q.arena[h].next
		return h
	}
	q.arena = append(q.arena, node{})
	return Handle(len(q.arena) - 1)
}

func (q *Queue) release(h Handle) {
	q.arena[h] = node{next: q.freeHead, pos: -1}
	q.freeHead = h
}

// Push inserts t under the given timestamp and returns its handle.
func (q *Queue) Push(t ts.Timestamp, tk *task.Task) Handle {
	h := q.borrow()
	q.arena[h].ts = t
	q.arena[h].task = tk
	q.arena[h].seq = q.nextSeq
	q.nextSeq++
	q.heap = append(q.heap, h)
	pos := int32(len(q.heap) - 1)
	q.arena[h].pos = pos
	q.siftUp(pos)
	return h
}

// PeekMinTS returns the timestamp of the minimum element without removing
// it. ok is false if the queue is empty.
func (q *Queue) PeekMinTS() (t ts.Timestamp, ok bool) {
	if len(q.heap) == 0 {
		return 0, false
	}
	return q.arena[q.heap[0]].ts, true
}

// PopTop removes and returns the minimum-timestamp task.
func (q *Queue) PopTop() (*task.Task, ts.Timestamp, error) {
	if len(q.heap) == 0 {
		return nil, 0, ErrEmpty
	}
	top := q.heap[0]
	n := &q.arena[top]
	tk, t := n.task, n.ts

	last := len(q.heap) - 1
	q.heap[0] = q.heap[last]
	q.arena[q.heap[0]].pos = 0
	q.heap = q.heap[:last]
	if last > 0 {
		q.siftDown(0)
	}
	q.release(top)
	return tk, t, nil
}

// Remove evicts a specific handle from the queue before it reaches the top,
// used when a spill needs to pull arbitrary entries out of the domain PQ.
func (q *Queue) Remove(h Handle) error {
	if int(h) >= len(q.arena) || q.arena[h].pos < 0 {
		return ErrItemNotFound
	}
	pos := int(q.arena[h].pos)
	last := len(q.heap) - 1
	q.heap[pos] = q.heap[last]
	q.arena[q.heap[pos]].pos = int32(pos)
	q.heap = q.heap[:last]
	if pos < len(q.heap) {
		q.siftDown(pos)
		q.siftUp(pos)
	}
	q.release(h)
	return nil
}

func (q *Queue) Len() int     { return len(q.heap) }
func (q *Queue) Empty() bool  { return len(q.heap) == 0 }

func (q *Queue) siftUp(pos int32) {
	for pos > 0 {
		parent := (pos - 1) / 2
		if !q.less(pos, parent) {
			break
		}
		q.swap(pos, parent)
		pos = parent
	}
}

func (q *Queue) siftDown(pos int) {
	n := len(q.heap)
	for {
		left, right := 2*pos+1, 2*pos+2
		smallest := pos
		if left < n && q.less(int32(left), int32(smallest)) {
			smallest = left
		}
		if right < n && q.less(int32(right), int32(smallest)) {
			smallest = right
		}
		if smallest == pos {
			return
		}
		q.swap(int32(pos), int32(smallest))
		pos = smallest
	}
}

func (q *Queue) less(a, b int32) bool {
	na, nb := &q.arena[q.heap[a]], &q.arena[q.heap[b]]
	if na.ts != nb.ts {
		return na.ts < nb.ts
	}
	return na.seq < nb.seq
}

func (q *Queue) swap(a, b int32) {
	q.heap[a], q.heap[b] = q.heap[b], q.heap[a]
	q.arena[q.heap[a]].pos = a
	q.arena[q.heap[b]].pos = b
}
