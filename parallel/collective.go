package parallel

import (
	"sync"
	"sync/atomic"

	"github.com/SwarmArch/runtime/cont"
	"github.com/SwarmArch/runtime/sched"
	"github.com/SwarmArch/runtime/task"
	"github.com/SwarmArch/runtime/ts"
)

// Fill sets dst[i] = value for every i in [lo, hi), parallelised as strands.
func Fill[T any](rt sched.Runtime, lo, hi int, when ts.Timestamp, hint ts.Hint, flags ts.EnqFlags, dst []T, value T) {
	EnqueueAllStrand(rt, lo, hi, when, hint, flags, func(i int) {
		dst[i] = value
	})
}

// Copy sets dst[i] = src[i] for every i in [lo, hi).
func Copy[T any](rt sched.Runtime, lo, hi int, when ts.Timestamp, hint ts.Hint, flags ts.EnqFlags, dst, src []T) {
	EnqueueAllStrand(rt, lo, hi, when, hint, flags, func(i int) {
		dst[i] = src[i]
	})
}

// Transform sets dst[i] = fn(src[i]) for every i in [lo, hi).
func Transform[T any](rt sched.Runtime, lo, hi int, when ts.Timestamp, hint ts.Hint, flags ts.EnqFlags, dst, src []T, fn func(T) T) {
	EnqueueAllStrand(rt, lo, hi, when, hint, flags, func(i int) {
		dst[i] = fn(src[i])
	})
}

// Reduce combines src[lo:hi] with combine, seeded by identity, and reports
// the result to done — it never blocks the calling goroutine waiting for
// it. Single-threaded back-ends (Sequential, Oracle) just fold the range
// directly and invoke done inline: there is no second goroutine to hand
// work to, so enqueueing would only add overhead. Back-ends with more than
// one worker deepen into a scratch domain, enqueue one partial-sum task per
// strand, and collect each strand's partial through a shared continuation
// the same way cont.ForallRed collects its children's — the last strand to
// report combines every partial, pops the scratch domain, and invokes
// done. A synchronous fork-join that blocked the caller on a WaitGroup
// would risk deadlock here: on TLS/Hardware the caller is itself one of a
// fixed N worker goroutines, and if all N happen to be inside Reduce at
// once, none would be left to dequeue the strand tasks they just enqueued.
func Reduce[T any](rt sched.Runtime, lo, hi int, when ts.Timestamp, hint ts.Hint, flags ts.EnqFlags, src []T, identity T, combine func(T, T) T, done *cont.Continuation[T]) {
	if lo >= hi {
		done.Invoke(identity)
		return
	}
	if rt.NumThreads() <= 1 {
		acc := identity
		for i := lo; i < hi; i++ {
			acc = combine(acc, src[i])
		}
		done.Invoke(acc)
		return
	}

	strands := strandCount(rt)
	n := hi - lo
	size := (n + strands - 1) / strands
	if size < 1 {
		size = 1
	}

	type slice struct{ lo, hi int }
	var slices []slice
	for s := lo; s < hi; s += size {
		e := s + size
		if e > hi {
			e = hi
		}
		slices = append(slices, slice{s, e})
	}

	var mu sync.Mutex
	var reported atomic.Int32
	partials := make([]T, 0, len(slices))

	collect := func(v T) {
		mu.Lock()
		partials = append(partials, v)
		mu.Unlock()
		if int(reported.Add(1)) != len(slices) {
			return
		}
		result := identity
		for _, p := range partials {
			result = combine(result, p)
		}
		rt.Undeepen()
		done.Invoke(result)
	}

	rt.Deepen(when)
	for _, sl := range slices {
		cLo, cHi := sl.lo, sl.hi
		rt.Enqueue(task.Enqueue2(when, hint, flags, func(a, b int) {
			acc := identity
			for i := a; i < b; i++ {
				acc = combine(acc, src[i])
			}
			collect(acc)
		}, cLo, cHi))
	}
}
