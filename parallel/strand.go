package parallel

import (
	"github.com/SwarmArch/runtime/constants"
	"github.com/SwarmArch/runtime/sched"
	"github.com/SwarmArch/runtime/task"
	"github.com/SwarmArch/runtime/ts"
)

// strandCount picks how many strands to split a range into: enough that
// every worker thread has constants.DefaultStrandsPerThread of them to
// pull from, so one long-running strand can't starve an idle worker.
func strandCount(rt sched.Runtime) int {
	n := rt.NumThreads() * constants.DefaultStrandsPerThread
	if n < 1 {
		return 1
	}
	return n
}

// EnqueueAllStrand partitions [lo, hi) into a fixed number of contiguous
// strands and enqueues one task per strand, each looping over its own
// sub-range in order. This trades the tree's logarithmic fan-out latency
// for far fewer tasks overall, the right call when fn is cheap enough that
// per-task overhead would otherwise dominate.
func EnqueueAllStrand(rt sched.Runtime, lo, hi int, when ts.Timestamp, hint ts.Hint, flags ts.EnqFlags, fn func(int)) {
	n := hi - lo
	if n <= 0 {
		return
	}
	strands := strandCount(rt)
	size := (n + strands - 1) / strands
	if size < 1 {
		size = 1
	}

	for s := lo; s < hi; s += size {
		e := s + size
		if e > hi {
			e = hi
		}
		rt.Enqueue(task.Enqueue3(when, hint, flags, runStrand, s, e, fn))
	}
}

func runStrand(lo, hi int, fn func(int)) {
	for i := lo; i < hi; i++ {
		fn(i)
	}
}
