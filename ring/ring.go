// Package ring implements a lock-free single-producer/single-consumer
// queue of *task.Task handles, used by sched.AffinityRouter to hand a task
// off to the core-pinned worker that owns its hint tile without taking a
// lock on every push. Producer and consumer fields live on separate cache
// lines, and each slot carries its own sequence number so Push/Pop stay
// wait-free without a second round of atomics per operation.
package ring

import "github.com/SwarmArch/runtime/task"

// slot couples a task pointer with its sequence stamp.
type slot struct {
	seq uint64
	t   *task.Task
}

// Ring is a fixed-capacity circular buffer dedicated to one producer (the
// router dispatching tasks by hint tile) and one consumer (the
// PinnedConsumer goroutine bound to that tile's core).
type Ring struct {
	_    [64]byte // producer head isolated on its own cache-line
	head uint64
	//lint:ignore U1000 padding to keep head & tail on different cache-lines
	_pad1 [64]byte
	tail  uint64
	//lint:ignore U1000 padding to keep hot fields from colliding with metadata
	_pad2 [64]byte
	mask  uint64
	buf   []slot
}

// New allocates a ring whose size must be a power-of-two; otherwise it
// panics so the bit-masking arithmetic stays valid.
func New(size int) *Ring {
	if size <= 0 || size&(size-1) != 0 {
		panic("ring: size must be >0 and a power of two")
	}
	r := &Ring{
		mask: uint64(size - 1),
		buf:  make([]slot, size),
	}
	for i := range r.buf {
		r.buf[i].seq = uint64(i)
	}
	return r
}

// Push enqueues t, returning false if the ring is full.
//
//go:nosplit
func (r *Ring) Push(t *task.Task) bool {
	tl := r.tail
	s := &r.buf[tl&r.mask]
	if loadAcquireUint64(&s.seq) != tl {
		return false // consumer has not yet reclaimed the slot
	}
	s.t = t
	storeReleaseUint64(&s.seq, tl+1)
	r.tail = tl + 1
	return true
}

// Pop dequeues one task, or nil if the ring is empty.
//
//go:nosplit
func (r *Ring) Pop() *task.Task {
	h := r.head
	s := &r.buf[h&r.mask]
	if loadAcquireUint64(&s.seq) != h+1 {
		return nil // producer has not yet published to the slot
	}
	t := s.t
	storeReleaseUint64(&s.seq, h+uint64(len(r.buf)))
	r.head = h + 1
	return t
}

// PopWait busy-spins until a task becomes available.
//
//go:nosplit
func (r *Ring) PopWait() *task.Task {
	for {
		if t := r.Pop(); t != nil {
			return t
		}
		cpuRelax()
	}
}
