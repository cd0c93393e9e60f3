// Package sched implements the four interchangeable scheduler back-ends
// behind a single Runtime interface: sequential, oracle, thread-level
// speculation, and hardware (which delegates most of its work to sim and
// TLS, adding only the hardware-buffer/spill boundary).
package sched

import (
	"github.com/SwarmArch/runtime/task"
	"github.com/SwarmArch/runtime/ts"
)

// Runtime is the public surface every back-end implements. Tasks call into
// it during their Run closure to enqueue more work, adjust speculation
// state, or query their own execution context.
type Runtime interface {
	// Run starts the scheduler and blocks until every domain is empty.
	Run()

	NumThreads() int
	Tid() int

	// Timestamp returns the currently executing task's timestamp, or
	// ts.NoTimestamp outside a task.
	Timestamp() ts.Timestamp
	SuperTimestamp() ts.Timestamp

	// Deepen/Undeepen implement fractal time: Deepen pushes a fresh
	// domain and records maxTS as its super-timestamp (no back-end checks
	// enqueued timestamps against it); Undeepen pops the current domain
	// once it has drained.
	Deepen(maxTS ts.Timestamp)
	Undeepen()

	Enqueue(t *task.Task)

	SetGVT(g ts.Timestamp)
	Serialize()
	ClearReadSet()
	RecordAsAborted()

	Info(format string, args ...any)
}
