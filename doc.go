// Package swarmarch glues the scheduler back-ends, the task type, and the
// timestamp/flag vocabulary behind one function-style surface: run,
// enqueue, enqueueLambda, deepen/undeepen, the speculation-layer queries,
// and info. Every one of these is a thin wrapper over a method already on
// sched.Runtime — the point of this package is the call convention, not
// new logic, mirroring the original system's global free functions rather
// than per-instance method calls.
package swarmarch
