package sched

import (
	"runtime"
	"sync/atomic"

	"github.com/SwarmArch/runtime/localidx"
	"github.com/SwarmArch/runtime/ring"
	"github.com/SwarmArch/runtime/task"
)

// AffinityRouter pins each spatial-hint tile to one core-bound consumer
// goroutine, reusing the ring package's SPSC buffer and pinned-consumer
// idiom for the hand-off: a task with a given hint lands on the same tile
// (and so the same core) every time it is routed, improving cache locality
// before the task ever reaches the shared domain queue.
type AffinityRouter struct {
	rings []*ring.Ring
	hot   []uint32
	stop  uint32
	done  []chan struct{}
	hints *localidx.HintTable
	next  *Hardware
}

// NewAffinityRouter returns a router over numTiles tiles, each serviced by
// a PinnedConsumer bound to cores[i] (or tile i itself if cores is short or
// nil). ringSize must be a power of two, per ring.New's contract.
func NewAffinityRouter(next *Hardware, numTiles int, cores []int, ringSize int) *AffinityRouter {
	r := &AffinityRouter{
		rings: make([]*ring.Ring, numTiles),
		hot:   make([]uint32, numTiles),
		done:  make([]chan struct{}, numTiles),
		hints: localidx.NewHintTable(256, uint32(numTiles)),
		next:  next,
	}
	for i := 0; i < numTiles; i++ {
		r.rings[i] = ring.New(ringSize)
		r.done[i] = make(chan struct{})
		core := i
		if i < len(cores) {
			core = cores[i]
		}
		tile := i
		ring.PinnedConsumer(core, r.rings[i], &r.stop, &r.hot[tile], r.next.Enqueue, r.done[tile])
	}
	return r
}

// Route pushes t onto the ring belonging to its hint's tile. It marks the
// tile hot first so the pinned consumer stays in its tight hot-spin loop
// through the rest of the burst, per PinnedConsumer's hot-flag contract.
func (r *AffinityRouter) Route(t *task.Task) {
	tile := r.hints.TileOf(uint32(t.Hint.Key))
	atomic.StoreUint32(&r.hot[tile], 1)
	for !r.rings[tile].Push(t) {
		runtime.Gosched()
	}
}

// Stop signals every pinned consumer to exit and waits for all of them to
// close their done channel.
func (r *AffinityRouter) Stop() {
	atomic.StoreUint32(&r.stop, 1)
	for _, d := range r.done {
		<-d
	}
}
