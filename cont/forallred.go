package cont

import (
	"sync"
	"sync/atomic"

	"github.com/SwarmArch/runtime/sched"
	"github.com/SwarmArch/runtime/task"
	"github.com/SwarmArch/runtime/ts"
)

// maxRadix bounds ForallRed's branching factor.
const maxRadix = 8

// radixFor picks a branching factor in {1, 2, 4, 8} from the range size:
// 1 for a single element, 2 below 64 elements, 4 below 4096, and maxRadix
// beyond that.
func radixFor(n int) int {
	switch {
	case n <= 1:
		return 1
	case n < 64:
		return 2
	case n < 4096:
		return 4
	default:
		return maxRadix
	}
}

// ForallRed reduces src[lo:hi] through a variable-radix expansion tree:
// each node splits its range into up to maxRadix children, collects every
// child's partial through a continuation that child invokes on completion,
// combines them once all have reported, and reports its own partial
// upward through its own continuation. done is the root's continuation,
// invoked exactly once with the fully reduced value — ForallRed never
// blocks the calling goroutine waiting for it.
func ForallRed[T any](rt sched.Runtime, lo, hi int, when ts.Timestamp, hint ts.Hint, flags ts.EnqFlags, src []T, identity T, combine func(T, T) T, done *Continuation[T]) {
	if lo >= hi {
		done.Invoke(identity)
		return
	}
	if hi-lo == 1 {
		v := src[lo]
		rt.Enqueue(task.EnqueueLambda(when, hint, flags, func() {
			done.Invoke(v)
		}))
		return
	}

	k := radixFor(hi - lo)
	step := (hi - lo + k - 1) / k

	type child struct{ lo, hi int }
	children := make([]child, 0, k)
	for c := 0; c < k; c++ {
		cLo := lo + c*step
		cHi := cLo + step
		if cHi > hi {
			cHi = hi
		}
		if cLo >= cHi {
			break
		}
		children = append(children, child{cLo, cHi})
	}

	var mu sync.Mutex
	var reported atomic.Int32
	partials := make([]T, 0, len(children))

	collect := func(v T) {
		mu.Lock()
		partials = append(partials, v)
		mu.Unlock()
		if int(reported.Add(1)) == len(children) {
			result := identity
			for _, p := range partials {
				result = combine(result, p)
			}
			done.Invoke(result)
		}
	}

	for c, ch := range children {
		cLo, cHi := ch.lo, ch.hi
		childHint := hint
		childFlags := flags
		if c == 0 {
			childHint = ts.Hint{}
			childFlags = (flags &^ ts.NOHINT) | ts.SAMEHINT
		}
		rt.Enqueue(task.EnqueueLambda(when, childHint, childFlags, func() {
			ForallRed(rt, cLo, cHi, when, hint, flags, src, identity, combine, New(collect))
		}))
	}
}
