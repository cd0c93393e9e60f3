// Package control provides the lightweight global signalling the TLS and
// hardware back-ends use to coordinate worker shutdown: a hard stop flag
// and a softer drain flag, both zero-allocation, lock-free reads.
//
// Threading model:
//   - An external caller signals Stop()/Drain().
//   - Each TLS worker goroutine checks IsStopped() once per dequeue-loop
//     iteration.
//   - Stop means terminate immediately, abandoning any remaining work.
//   - Drain records a request to finish whatever is already queued, then
//     terminate instead of blocking for more. The TLS worker loop does not
//     read it; it already returns once nothing is queued or running.
package control

var (
	stopFlag  uint32 // 1 = terminate immediately
	drainFlag uint32 // 1 = finish queued work, then terminate
)

// Stop signals all workers to terminate immediately.
//
//go:norace
//go:nocheckptr
//go:nosplit
//go:inline
//go:registerparams
func Stop() {
	stopFlag = 1
}

// Drain sets the drain flag, a request that workers finish currently queued
// work and then terminate rather than waiting indefinitely for more. The
// TLS worker loop does not consult it.
//
//go:norace
//go:nocheckptr
//go:nosplit
//go:inline
//go:registerparams
func Drain() {
	drainFlag = 1
}

// Flags returns direct pointers to the stop and drain flags, for
// zero-allocation polling inside a worker's hot dequeue loop.
//
//go:norace
//go:nocheckptr
//go:nosplit
//go:inline
//go:registerparams
func Flags() (stop *uint32, drain *uint32) {
	return &stopFlag, &drainFlag
}

// IsStopped reports whether Stop has been called.
//
//go:nosplit
//go:inline
func IsStopped() bool { return stopFlag == 1 }

// IsDraining reports whether Drain has been called.
//
//go:nosplit
//go:inline
func IsDraining() bool { return drainFlag == 1 }

// Reset clears both flags. Used by tests and by a back-end that restarts
// after a prior Run returned.
func Reset() {
	stopFlag, drainFlag = 0, 0
}
