package swarmarch

import (
	"github.com/SwarmArch/runtime/debug"
	"github.com/SwarmArch/runtime/sched"
	"github.com/SwarmArch/runtime/sim"
	"github.com/SwarmArch/runtime/task"
	"github.com/SwarmArch/runtime/ts"
)

// Runtime is the scheduler back-end every function in this package
// operates on: sequential, oracle, TLS, or hardware.
type Runtime = sched.Runtime

// NewSequential returns a single-threaded, timestamp-ordered back-end.
func NewSequential() Runtime { return sched.NewSequential() }

// NewOracle returns a single-threaded back-end that notifies backend on
// every domain drain, the non-speculative reference implementation.
func NewOracle(backend sim.Backend) Runtime { return sched.NewOracle(backend) }

// NewTLS returns an n-worker thread-level-speculation back-end.
func NewTLS(workers int) Runtime { return sched.NewTLS(workers) }

// NewHardware returns an n-worker back-end whose tasks pass through a
// simulated hardware task buffer with spill/requeue overflow handling.
func NewHardware(workers, arrivalCapacity int) Runtime {
	return sched.NewHardware(workers, arrivalCapacity)
}

// Run starts rt and blocks until every domain is empty.
func Run(rt Runtime) { rt.Run() }

// Enqueue pushes an already-built task.
func Enqueue(rt Runtime, t *task.Task) { rt.Enqueue(t) }

// EnqueueLambda builds a task from a bare closure and pushes it.
func EnqueueLambda(rt Runtime, when ts.Timestamp, hint ts.Hint, flags ts.EnqFlags, fn func()) {
	rt.Enqueue(task.EnqueueLambda(when, hint, flags, fn))
}

// NoMaxTS is the sentinel "run forever" domain ceiling, the default Deepen
// would take if Go had default arguments.
const NoMaxTS = ts.NoTimestamp

// Deepen pushes a fresh domain and records maxTS as its super-timestamp;
// enqueued timestamps are not checked against it.
func Deepen(rt Runtime, maxTS ts.Timestamp) { rt.Deepen(maxTS) }

// DeepenDefault pushes a fresh domain with no ceiling, deepen(maxTs=UINT64_MAX)
// in the original macro form.
func DeepenDefault(rt Runtime) { rt.Deepen(NoMaxTS) }

// Undeepen pops the current domain. Fatal if the domain has not drained.
func Undeepen(rt Runtime) { rt.Undeepen() }

// SetGVT updates the global virtual time watermark.
func SetGVT(rt Runtime, g ts.Timestamp) { rt.SetGVT(g) }

// Timestamp returns the currently executing task's timestamp.
func Timestamp(rt Runtime) ts.Timestamp { return rt.Timestamp() }

// SuperTimestamp returns the enclosing domain's ceiling timestamp.
func SuperTimestamp(rt Runtime) ts.Timestamp { return rt.SuperTimestamp() }

// Serialize asks for the calling task to run non-speculatively from here
// on. Every back-end in this module implements it as a no-op.
func Serialize(rt Runtime) { rt.Serialize() }

// ClearReadSet asks for the calling task's speculative read set to be
// discarded. Every back-end in this module implements it as a no-op.
func ClearReadSet(rt Runtime) { rt.ClearReadSet() }

// RecordAsAborted marks the calling task's UID as aborted. On the Oracle
// back-end a later-dequeued task carrying that same UID is skipped; tasks
// it enqueued under auto-assigned UIDs still run. The Sequential, TLS and
// Hardware back-ends ignore the call.
func RecordAsAborted(rt Runtime) { rt.RecordAsAborted() }

// NumThreads returns the back-end's worker count.
func NumThreads(rt Runtime) int { return rt.NumThreads() }

// Tid returns the calling worker's 0-based index.
func Tid(rt Runtime) int { return rt.Tid() }

// Info logs a cold-path diagnostic through rt's own logging path.
func Info(rt Runtime, format string, args ...any) { rt.Info(format, args...) }

// Fatalf aborts with a diagnostic through debug.Fatalf, the helper every
// fatal condition in this module calls.
func Fatalf(prefix, msg string) { debug.Fatalf(prefix, msg) }
