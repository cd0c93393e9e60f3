package cont

import (
	"sync/atomic"

	"github.com/SwarmArch/runtime/constants"
	"github.com/SwarmArch/runtime/sched"
	"github.com/SwarmArch/runtime/task"
	"github.com/SwarmArch/runtime/ts"
)

// forallStrands picks min(n, DefaultStrandsPerThread*numThreads) strands,
// per spec.md §4.9's "min(sup-first, 4·num_threads)".
func forallStrands(rt sched.Runtime, n int) int {
	s := constants.DefaultStrandsPerThread * rt.NumThreads()
	if s > n {
		s = n
	}
	if s < 1 {
		s = 1
	}
	return s
}

func enqueueDone(rt sched.Runtime, when ts.Timestamp, flags ts.EnqFlags, done func()) {
	if done == nil {
		return
	}
	rt.Enqueue(task.EnqueueLambda(when, ts.Hint{}, flags|ts.NOHINT, done))
}

// Forall fans [lo, hi) out across a fixed number of strided strands: strand
// s visits lo+s, lo+s+stride, lo+s+2*stride, and so on. Every strand
// increments a shared counter on termination; the strand that drives the
// counter to the full strand count enqueues done as its own NOHINT task,
// so done does not inherit whichever strand happened to finish last.
func Forall(rt sched.Runtime, lo, hi int, when ts.Timestamp, hint ts.Hint, flags ts.EnqFlags, fn func(int), done func()) {
	n := hi - lo
	if n <= 0 {
		enqueueDone(rt, when, flags, done)
		return
	}
	stride := forallStrands(rt, n)
	var finished atomic.Int32
	for s := 0; s < stride; s++ {
		rt.Enqueue(task.Enqueue1(when, hint, flags, func(strand int) {
			for i := lo + strand; i < hi; i += stride {
				fn(i)
			}
			if int(finished.Add(1)) == stride {
				enqueueDone(rt, when, flags, done)
			}
		}, s))
	}
}

// ForallCC is Forall's continuation-passing variant: fn receives a
// continuation it must invoke exactly once when iteration i has actually
// finished, which need not be before fn returns. fn may enqueue further
// tasks of its own and invoke the continuation from one of them, the way
// an iteration body that kicks off async work would.
func ForallCC(rt sched.Runtime, lo, hi int, when ts.Timestamp, hint ts.Hint, flags ts.EnqFlags, fn func(i int, k *Continuation[struct{}]), done func()) {
	n := hi - lo
	if n <= 0 {
		enqueueDone(rt, when, flags, done)
		return
	}
	var remaining atomic.Int32
	remaining.Store(int32(n))
	finish := func(struct{}) {
		if remaining.Add(-1) == 0 {
			enqueueDone(rt, when, flags, done)
		}
	}
	stride := forallStrands(rt, n)
	for s := 0; s < stride; s++ {
		rt.Enqueue(task.Enqueue1(when, hint, flags, func(strand int) {
			for i := lo + strand; i < hi; i += stride {
				fn(i, New(finish))
			}
		}, s))
	}
}

// ForallTS is Forall's per-index-timestamp variant: index i gets its own
// task at base+i instead of sharing a strand's timestamp with neighbouring
// indices, so the back-end's priority order matches index order rather
// than strand-assignment order.
func ForallTS(rt sched.Runtime, lo, hi int, base ts.Timestamp, hint ts.Hint, flags ts.EnqFlags, fn func(int), done func()) {
	n := hi - lo
	if n <= 0 {
		enqueueDone(rt, base, flags, done)
		return
	}
	var finished atomic.Int32
	for i := lo; i < hi; i++ {
		rt.Enqueue(task.Enqueue1(base+ts.Timestamp(i), hint, flags, func(idx int) {
			fn(idx)
			if int(finished.Add(1)) == n {
				enqueueDone(rt, base+ts.Timestamp(hi), flags, done)
			}
		}, i))
	}
}
