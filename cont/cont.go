// Package cont implements the runtime's continuation-passing surface: a
// one-shot boxed closure type, the forall family of fan-out macros built on
// top of it, and callcc/getcc for capturing a resumption point explicitly
// rather than threading a done callback through every call site.
package cont

import (
	"github.com/SwarmArch/runtime/debug"
	"github.com/SwarmArch/runtime/sched"
	"github.com/SwarmArch/runtime/task"
	"github.com/SwarmArch/runtime/ts"
)

// Continuation is a heap-allocated, single-use closure: Invoke panics if
// called a second time, matching the original system's one-shot contract
// rather than silently tolerating a double call.
type Continuation[R any] struct {
	fn   func(R)
	used bool
}

// New boxes fn as a continuation.
func New[R any](fn func(R)) *Continuation[R] {
	return &Continuation[R]{fn: fn}
}

// Invoke calls the boxed closure with r. Calling Invoke twice on the same
// Continuation is a programmer error.
func (c *Continuation[R]) Invoke(r R) {
	if c.used {
		debug.Fatalf("cont.Continuation", "invoked twice")
	}
	c.used = true
	c.fn(r)
}

// CallCC enqueues fn as a task and hands it a one-shot continuation. fn
// invokes that continuation (at most once, from anywhere — including from
// inside further tasks it enqueues) with its result; invoking it enqueues
// onDone carrying that result.
func CallCC[R any](rt sched.Runtime, when ts.Timestamp, hint ts.Hint, flags ts.EnqFlags, fn func(k *Continuation[R]), onDone func(R)) {
	rt.Enqueue(task.EnqueueLambda(when, hint, flags, func() {
		fn(GetCC(rt, when, hint, flags, onDone))
	}))
}

// GetCC reifies "the rest of the computation" as a continuation: invoking
// it enqueues resume as a new task carrying the continuation's argument,
// rather than calling resume inline on whatever goroutine happens to be
// running.
func GetCC[R any](rt sched.Runtime, when ts.Timestamp, hint ts.Hint, flags ts.EnqFlags, resume func(R)) *Continuation[R] {
	return New(func(r R) {
		rt.Enqueue(task.Enqueue1(when, hint, flags, resume, r))
	})
}
