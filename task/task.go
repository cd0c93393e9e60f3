// Package task defines the scheduler's unit of work and the generic
// argument-marshalling helpers used to build one from a typed closure.
package task

import "github.com/SwarmArch/runtime/ts"

// MaxArgs bounds the number of scalar arguments a spilled task descriptor
// can carry inline (PLS_APP_MAX_ARGS in the original system).
const MaxArgs = 5

// Task is the runtime's unit of work. It is immutable after construction
// and Run is invoked exactly once by whichever back-end dequeues it.
type Task struct {
	Ts    ts.Timestamp
	UID   uint64
	Hint  ts.Hint
	Flags ts.EnqFlags
	Run   func()
}

// EnqueueLambda builds a Task directly from a caller-supplied closure, the
// no-marshalling path: no argument tuple is packed, fn is called as-is.
func EnqueueLambda(t ts.Timestamp, h ts.Hint, flags ts.EnqFlags, fn func()) *Task {
	return &Task{Ts: t, Hint: h, Flags: flags, Run: fn}
}

// ResolveTimestamp fills in an omitted timestamp from the currently running
// task, per the flag-driven omission rule: NOTIMESTAMP leaves it invalid,
// SAMETIME/RUNONABORT reuse cur's timestamp, anything else keeps explicit.
func ResolveTimestamp(cur *Task, flags ts.EnqFlags, explicit ts.Timestamp) ts.Timestamp {
	if !flags.OmitsTimestamp() {
		return explicit
	}
	if flags.Has(ts.NOTIMESTAMP) {
		return ts.NoTimestamp
	}
	if cur == nil {
		return ts.NoTimestamp
	}
	return cur.Ts
}

// ResolveHint fills in an omitted hint from the currently running task.
// NOHINT yields the zero hint; SAMEHINT reuses cur's hint verbatim.
func ResolveHint(cur *Task, flags ts.EnqFlags, explicit ts.Hint) ts.Hint {
	if !flags.OmitsHint() {
		return explicit
	}
	if flags.Has(ts.NOHINT) {
		return ts.Hint{}
	}
	if cur == nil {
		return ts.Hint{}
	}
	return cur.Hint
}

// ResolveFunc fills in an omitted function pointer: SAMETASK reuses cur's
// Run closure, otherwise the explicit one is kept.
func ResolveFunc(cur *Task, flags ts.EnqFlags, explicit func()) func() {
	if !flags.OmitsTaskPtr() {
		return explicit
	}
	if cur == nil {
		return explicit
	}
	return cur.Run
}
