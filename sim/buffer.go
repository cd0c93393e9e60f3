// Package sim models the external collaborator the spec treats as opaque:
// a hardware simulator reached through a fixed magic-op interface. Backend
// is that interface; FakeBackend is a software stand-in good enough to
// exercise the spill/requeue protocol and the hardware back-end end to end.
package sim

import (
	"errors"
	"math/bits"

	"github.com/SwarmArch/runtime/task"
	"github.com/SwarmArch/runtime/ts"
)

// Window-bounded capacity of the simulated hardware task buffer, adapted
// from the teacher's bucketqueue: a fixed number of time buckets addressed
// by a two-level bitmap summary, giving O(1) PeekMin without a heap.
const (
	numBuckets       = 4096
	groupSize        = 64
	numGroups        = numBuckets / groupSize
	capItems         = 1 << 16
	nilIdx     idx32 = ^idx32(0)
)

type idx32 uint32

type bufNode struct {
	next, prev idx32
	tick       ts.Timestamp
	count      uint32
	data       *task.Task
}

// HWBuffer is the simulated hardware task buffer: a bounded sliding window
// of time buckets over a fixed arena of nodes. A timestamp outside the
// current window is reported as ErrPastWindow/ErrBeyondWindow; running out
// of arena slots (ErrFull) is the condition the spill protocol interprets
// as "buffer full, evict."
type HWBuffer struct {
	arena     [capItems]bufNode
	freeHead  idx32
	buckets   [numBuckets]idx32
	baseTick  ts.Timestamp
	size      int
	summary   uint64
	groupBits [numGroups]uint64
}

var (
	ErrFull         = errors.New("sim: hardware buffer has no free slots")
	ErrBufferEmpty  = errors.New("sim: hardware buffer is empty")
	ErrPastWindow   = errors.New("sim: timestamp precedes the buffer's window")
	ErrBeyondWindow = errors.New("sim: timestamp exceeds the buffer's window")
	ErrItemNotFound = errors.New("sim: invalid buffer handle")
)

// ErrBufferFull is the overflow signal a back-end's Enqueue checks to
// decide whether to fall back to the spill protocol: the arena has no free
// slots left, as opposed to ErrBeyondWindow/ErrPastWindow which just mean
// the sliding window needs to move and are handled internally.
var ErrBufferFull = ErrFull

// Handle addresses a slot in the buffer's arena.
type Handle idx32

// NewHWBuffer returns an empty buffer with baseTick at zero.
func NewHWBuffer() *HWBuffer {
	b := &HWBuffer{}
	for i := capItems - 1; i > 0; i-- {
		b.arena[i-1].next = idx32(i)
	}
	b.arena[capItems-1].next = nilIdx
	b.freeHead = 0
	for i := range b.buckets {
		b.buckets[i] = nilIdx
	}
	return b
}

func (b *HWBuffer) borrow() (idx32, error) {
	if b.freeHead == nilIdx {
		return nilIdx, ErrFull
	}
	h := b.freeHead
	n := &b.arena[h]
	b.freeHead = n.next
	n.next, n.prev, n.count = nilIdx, nilIdx, 0
	return h, nil
}

func (b *HWBuffer) release(h idx32) {
	n := &b.arena[h]
	n.next, n.prev, n.count, n.data = nilIdx, nilIdx, 0, nil
	n.next = b.freeHead
	b.freeHead = h
}

// Push inserts task under timestamp t. It returns ErrPastWindow or
// ErrBeyondWindow if t falls outside the buffer's current window, and
// ErrFull if the arena has no free slot.
func (b *HWBuffer) Push(t ts.Timestamp, tk *task.Task) (Handle, error) {
	delta := uint64(t) - uint64(b.baseTick)
	if int64(delta) < 0 {
		return 0, ErrPastWindow
	}
	if delta >= numBuckets {
		return 0, ErrBeyondWindow
	}
	idx, err := b.borrow()
	if err != nil {
		return 0, err
	}
	n := &b.arena[idx]
	n.tick, n.data, n.count = t, tk, 1

	bkt := delta
	n.next = b.buckets[bkt]
	n.prev = nilIdx
	if n.next != nilIdx {
		b.arena[n.next].prev = idx
	}
	b.buckets[bkt] = idx

	g := bkt >> 6
	b.groupBits[g] |= 1 << (bkt & 63)
	b.summary |= 1 << g
	b.size++
	return Handle(idx), nil
}

// PeekMin returns the lowest-timestamp task currently buffered.
func (b *HWBuffer) PeekMin() (Handle, ts.Timestamp, *task.Task, error) {
	if b.size == 0 || b.summary == 0 {
		return 0, 0, nil, ErrBufferEmpty
	}
	g := bits.TrailingZeros64(b.summary)
	bit := bits.TrailingZeros64(b.groupBits[g])
	bkt := uint64(g<<6 | bit)
	h := b.buckets[bkt]
	n := &b.arena[h]
	return Handle(h), n.tick, n.data, nil
}

// PopMin removes and returns the lowest-timestamp buffered task.
func (b *HWBuffer) PopMin() (Handle, ts.Timestamp, *task.Task, error) {
	h, t, tk, err := b.PeekMin()
	if err != nil {
		return h, t, tk, err
	}
	idx := idx32(h)
	n := &b.arena[idx]
	bkt := uint64(n.tick) - uint64(b.baseTick)
	g := bkt >> 6

	if n.next != nilIdx {
		b.arena[n.next].prev = n.prev
	}
	if n.prev != nilIdx {
		b.arena[n.prev].next = n.next
	} else {
		b.buckets[bkt] = n.next
	}
	if b.buckets[bkt] == nilIdx {
		b.groupBits[g] &^= 1 << (bkt & 63)
		if b.groupBits[g] == 0 {
			b.summary &^= 1 << g
		}
	}
	b.size--
	b.release(idx)
	return Handle(idx), t, tk, nil
}

// AdvanceWindow slides baseTick forward, used when the simulator retires
// a batch of buckets and frees up window space for later timestamps.
func (b *HWBuffer) AdvanceWindow(newBase ts.Timestamp) {
	if newBase > b.baseTick {
		b.baseTick = newBase
	}
}

func (b *HWBuffer) Size() int   { return b.size }
func (b *HWBuffer) Empty() bool { return b.size == 0 }

// BaseTick returns the lowest timestamp currently covered by the window.
func (b *HWBuffer) BaseTick() ts.Timestamp { return b.baseTick }

// Evicted is one task pulled out of the buffer by EvictOldest, still
// carrying the timestamp it was buffered under.
type Evicted struct {
	TS   ts.Timestamp
	Task *task.Task
}

// EvictOldest pops up to n of the lowest-timestamp buffered tasks, freeing
// arena slots for the spill protocol. This mirrors the original simulator's
// spiller_impl, which removes the n oldest untied tasks from the tile, not
// the youngest: spilling the oldest work keeps the tile's window advancing
// and the newest (most likely to still be speculative) tasks in hardware.
// Tasks come back in ascending timestamp order, the same walk PopMin uses.
func (b *HWBuffer) EvictOldest(n int) []Evicted {
	out := make([]Evicted, 0, n)
	for len(out) < n && b.size > 0 {
		g := bits.TrailingZeros64(b.summary)
		bit := bits.TrailingZeros64(b.groupBits[g])
		bkt := uint64(g<<6 | bit)
		h := b.buckets[bkt]
		node := &b.arena[h]
		out = append(out, Evicted{TS: node.tick, Task: node.data})
		b.removeNode(idx32(h), bkt)
	}
	return out
}

func (b *HWBuffer) removeNode(idx idx32, bkt uint64) {
	n := &b.arena[idx]
	g := bkt >> 6
	if n.next != nilIdx {
		b.arena[n.next].prev = n.prev
	}
	if n.prev != nilIdx {
		b.arena[n.prev].next = n.next
	} else {
		b.buckets[bkt] = n.next
	}
	if b.buckets[bkt] == nilIdx {
		b.groupBits[g] &^= 1 << (bkt & 63)
		if b.groupBits[g] == 0 {
			b.summary &^= 1 << g
		}
	}
	b.size--
	b.release(idx)
}
