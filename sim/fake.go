package sim

import (
	"sync"

	"code.hybscloud.com/lfq"

	"github.com/SwarmArch/runtime/task"
	"github.com/SwarmArch/runtime/ts"
)

// Backend is the fixed magic-op interface the spec leaves unspecified:
// conflict detection, abort handling, and GVT maintenance all live behind
// it. The Oracle back-end talks to it only through OnDomainDrained; the
// Hardware back-end holds a *FakeBackend and calls its PopMin and Evict
// methods as well as PushTask.
type Backend interface {
	// PushTask offers a task to the hardware's buffer. ErrBufferFull
	// means the caller should fall back to the spill protocol.
	PushTask(t *task.Task) error

	// OnDomainDrained notifies the simulator that a domain's PQ emptied
	// and the oracle back-end is about to undeepen it.
	OnDomainDrained(superTS ts.Timestamp)
}

// FakeBackend is a software stand-in for the hardware simulator. Workers
// hand tasks across a lock-free MPMC queue (the "fixed magic-op
// interface" realised as a concurrent queue instead of a bespoke ring);
// each PushTask call then drains that queue, under a mutex, into the
// window-bounded HWBuffer so PeekMin/PopMin stay O(1) regardless of
// producer count.
type FakeBackend struct {
	arrivals lfq.Queue[*task.Task]
	buf      *HWBuffer
	mu       sync.Mutex
	drained  []ts.Timestamp
}

// NewFakeBackend returns a FakeBackend whose concurrent front door has
// room for arrivalCapacity in-flight tasks before PushTask reports
// ErrBufferFull.
func NewFakeBackend(arrivalCapacity int) *FakeBackend {
	return &FakeBackend{
		arrivals: lfq.NewMPMC[*task.Task](arrivalCapacity),
		buf:      NewHWBuffer(),
	}
}

// PushTask offers t to the hardware buffer's concurrent front door.
// ErrBufferFull means the arena itself has no free slots; the caller should
// fall back to the spill protocol.
func (f *FakeBackend) PushTask(t *task.Task) error {
	if err := f.arrivals.Enqueue(&t); err != nil {
		if lfq.IsWouldBlock(err) {
			return ErrBufferFull
		}
		return err
	}
	return f.drain()
}

// drain moves everything waiting at the front door into the windowed
// buffer, where PeekMin/PopMin can see it in timestamp order. A timestamp
// outside the current window just slides the window forward (a real
// simulator would pipeline this; the fake backend moves the window's base
// up to that timestamp immediately).
// An arena-full condition stops the drain and hands the offending task back
// to the arrivals queue so a later drain, after room frees up, can retry it.
func (f *FakeBackend) drain() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for {
		tk, err := f.arrivals.Dequeue()
		if err != nil {
			return nil
		}
		when := tk.Ts
		if when < f.buf.BaseTick() {
			when = f.buf.BaseTick()
		}
		_, pushErr := f.buf.Push(when, tk)
		if pushErr == ErrBeyondWindow {
			f.buf.AdvanceWindow(when)
			_, pushErr = f.buf.Push(when, tk)
		}
		if pushErr != nil {
			f.arrivals.Enqueue(&tk)
			return ErrBufferFull
		}
	}
}

// Evict pulls up to n of the oldest buffered tasks out of the hardware
// buffer to free arena slots, the software stand-in for the simulator's
// eviction half of the spill protocol.
func (f *FakeBackend) Evict(n int) []Evicted {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buf.EvictOldest(n)
}

// PopMin hands the lowest-timestamp buffered task to a worker, used by the
// hardware back-end to pull work out of the simulated buffer.
func (f *FakeBackend) PopMin() (*task.Task, ts.Timestamp, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, t, tk, err := f.buf.PopMin()
	if err != nil {
		return nil, 0, false
	}
	return tk, t, true
}

// OnDomainDrained records the super-timestamp of a domain the oracle
// back-end just finished and is about to undeepen.
func (f *FakeBackend) OnDomainDrained(superTS ts.Timestamp) {
	f.mu.Lock()
	f.drained = append(f.drained, superTS)
	f.mu.Unlock()
}

// Drained returns a snapshot of super-timestamps seen via OnDomainDrained,
// used by tests.
func (f *FakeBackend) Drained() []ts.Timestamp {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ts.Timestamp, len(f.drained))
	copy(out, f.drained)
	return out
}
