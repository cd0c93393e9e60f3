// Package parallel implements the fractal enqueue-all combinators: ways of
// turning a flat index range [lo, hi) into a tree, a set of sequential
// strands, or a progressively-growing batch of tasks, plus the Fill/Copy/
// Transform/Reduce collectives built on top of them.
package parallel

import (
	"github.com/SwarmArch/runtime/constants"
	"github.com/SwarmArch/runtime/sched"
	"github.com/SwarmArch/runtime/task"
	"github.com/SwarmArch/runtime/ts"
)

// fanoutFor picks a branching factor in {2, 4, 8}, following the original
// enqueue_all's formula: with only a few more elements than max_children,
// a wide fanout would leave each leaf wrapping under one real task, so the
// threshold scales with max_children² rather than a fixed constant. A
// range of more than T=max_children²/2 elements gets the full max_children
// fanout, one of more than T/2 elements gets max_children/2, and anything
// smaller splits in 2.
func fanoutFor(n int) int {
	t := constants.MaxFanout * constants.MaxFanout / 2
	switch {
	case n > t:
		return constants.MaxFanout
	case n > t/2:
		return constants.MaxFanout / 2
	default:
		return 2
	}
}

type treeJob struct {
	lo, hi int
	when   ts.Timestamp
	hint   ts.Hint
	flags  ts.EnqFlags
	fn     func(int)
}

// EnqueueAllTree enqueues fn(i) for every i in [lo, hi) by recursively
// splitting the range into a k-ary tree rather than issuing hi-lo flat
// enqueue calls from one caller. Ranges at or below constants.MaxBaseEnqs
// are the serial base case: fn runs directly on every index in the current
// task instead of forking another tree level. Every subtree's leftmost
// child is flagged SAMEHINT so the spine that stays on the same worker
// keeps that worker's cache-resident hint; the other children keep
// whatever hint/flags the caller asked for, getting a freshly resolved
// hint of their own.
func EnqueueAllTree(rt sched.Runtime, lo, hi int, when ts.Timestamp, hint ts.Hint, flags ts.EnqFlags, fn func(int)) {
	if lo >= hi {
		return
	}
	if hi-lo <= constants.MaxBaseEnqs {
		for i := lo; i < hi; i++ {
			fn(i)
		}
		return
	}

	k := fanoutFor(hi - lo)
	step := (hi - lo + k - 1) / k
	for c := 0; c < k; c++ {
		cLo := lo + c*step
		cHi := cLo + step
		if cHi > hi {
			cHi = hi
		}
		if cLo >= cHi {
			break
		}

		job := treeJob{lo: cLo, hi: cHi, when: when, hint: hint, flags: flags, fn: fn}
		enqFlags := flags
		if c == 0 {
			job.hint = ts.Hint{}
			enqFlags = (flags &^ ts.NOHINT) | ts.SAMEHINT
		}
		rt.Enqueue(task.Enqueue2(when, job.hint, enqFlags, runTreeJob, rt, job))
	}
}

func runTreeJob(rt sched.Runtime, job treeJob) {
	EnqueueAllTree(rt, job.lo, job.hi, job.when, job.hint, job.flags, job.fn)
}

type treeTSJob struct {
	lo, hi int
	base   ts.Timestamp
	hint   ts.Hint
	flags  ts.EnqFlags
	fn     func(int)
}

// EnqueueAllTreeTS is EnqueueAllTree's timestamp-per-index variant: the
// task for each child sub-range [cLo, cHi) runs at base+cLo rather than all
// children sharing one timestamp, so sub-ranges run in index order when the
// caller needs one (e.g. replaying a log).
// Ranges at or below constants.MaxBaseEnqs are the same serial base case as
// EnqueueAllTree: fn runs directly, in index order, in the current task.
func EnqueueAllTreeTS(rt sched.Runtime, lo, hi int, base ts.Timestamp, hint ts.Hint, flags ts.EnqFlags, fn func(int)) {
	if lo >= hi {
		return
	}
	if hi-lo <= constants.MaxBaseEnqs {
		for i := lo; i < hi; i++ {
			fn(i)
		}
		return
	}

	k := fanoutFor(hi - lo)
	step := (hi - lo + k - 1) / k
	for c := 0; c < k; c++ {
		cLo := lo + c*step
		cHi := cLo + step
		if cHi > hi {
			cHi = hi
		}
		if cLo >= cHi {
			break
		}

		job := treeTSJob{lo: cLo, hi: cHi, base: base, hint: hint, flags: flags, fn: fn}
		enqFlags := flags
		h := hint
		if c == 0 {
			h = ts.Hint{}
			job.hint = h
			enqFlags = (flags &^ ts.NOHINT) | ts.SAMEHINT
		}
		rt.Enqueue(task.Enqueue2(base+ts.Timestamp(cLo), h, enqFlags, runTreeTSJob, rt, job))
	}
}

func runTreeTSJob(rt sched.Runtime, job treeTSJob) {
	EnqueueAllTreeTS(rt, job.lo, job.hi, job.base, job.hint, job.flags, job.fn)
}
