package ring

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/SwarmArch/runtime/task"
)

const (
	spinBudget = 256              // wrap point of the cold-path miss counter
	hotTimeout = 15 * time.Second // hot-spin grace
)

// PinnedConsumer launches a goroutine pinned to core that drains r and
// calls fn on every task until *stop is set, then closes done exactly
// once. It stays in hot-spin (tight loop, no cpuRelax) while either a
// task has arrived within hotTimeout or the producer keeps *hot == 1 —
// the state sched.AffinityRouter.Route sets just before pushing a burst
// onto this consumer's tile. Once the grace window lapses and hot drops
// to 0, the consumer falls back to a cold-spin path: cpuRelax every
// iteration, power-friendlier but slower to notice new work.
//
// All cross-goroutine state (stop, hot) is touched only via atomics; no
// other synchronisation appears in the hot path.
func PinnedConsumer(
	core int,
	r *Ring,
	stop, hot *uint32,
	fn func(*task.Task),
	done chan<- struct{},
) {
	go func() {
		runtime.LockOSThread()
		setAffinity(core) // stub on non-Linux
		defer func() {
			runtime.UnlockOSThread()
			close(done)
		}()

		last := time.Now() // last time Pop delivered
		miss := 0

		for {
			if t := r.Pop(); t != nil {
				fn(t)
				last, miss = time.Now(), 0
				continue
			}

			if atomic.LoadUint32(stop) != 0 {
				return
			}

			hotSpin := atomic.LoadUint32(hot) != 0 ||
				time.Since(last) <= hotTimeout
			if hotSpin {
				continue // tight loop, no cpuRelax
			}

			if miss++; miss >= spinBudget {
				miss = 0
			}
			cpuRelax()
		}
	}()
}
