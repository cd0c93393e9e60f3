package sched

import (
	"fmt"
	"sync"

	"github.com/SwarmArch/runtime/constants"
	"github.com/SwarmArch/runtime/debug"
	"github.com/SwarmArch/runtime/sim"
	"github.com/SwarmArch/runtime/spill"
	"github.com/SwarmArch/runtime/task"
	"github.com/SwarmArch/runtime/ts"
)

// Hardware is the full back-end: every Enqueue passes through the simulated
// hardware buffer (sim.FakeBackend) and is then pumped into the TLS
// back-end's shared domain queue, where the TLS workers dequeue it. An
// Enqueue that overflows the buffer falls back to the spill/requeue
// protocol instead of blocking or dropping work.
type Hardware struct {
	tls       *TLS
	backend   *sim.FakeBackend
	mu        sync.Mutex
	spiller   spill.Spiller
	requeuers []*spill.Requeuer
}

// NewHardware returns a Hardware back-end with n TLS-style worker
// goroutines pulling from a FakeBackend whose arrival front door has room
// for arrivalCapacity concurrently in-flight pushes.
func NewHardware(n, arrivalCapacity int) *Hardware {
	return &Hardware{
		tls:     NewTLS(n),
		backend: sim.NewFakeBackend(arrivalCapacity),
	}
}

func (h *Hardware) NumThreads() int            { return h.tls.NumThreads() }
func (h *Hardware) Tid() int                    { return h.tls.Tid() }
func (h *Hardware) Timestamp() ts.Timestamp     { return h.tls.Timestamp() }
func (h *Hardware) SuperTimestamp() ts.Timestamp { return h.tls.SuperTimestamp() }
func (h *Hardware) Deepen(maxTS ts.Timestamp)   { h.tls.Deepen(maxTS) }
func (h *Hardware) Undeepen()                   { h.tls.Undeepen() }
func (h *Hardware) SetGVT(g ts.Timestamp)       { h.tls.SetGVT(g) }
func (h *Hardware) Serialize()                  {}
func (h *Hardware) ClearReadSet()               {}
func (h *Hardware) RecordAsAborted()            {}

// Run hands off to the TLS worker loop. Any tasks already sitting in the
// hardware buffer from pre-Run Enqueue calls were already pumped into the
// shared domain queue by Enqueue itself, so Run needs no special priming.
func (h *Hardware) Run() {
	h.tls.Run()
}

// Enqueue offers t to the hardware buffer first. If the buffer is full, it
// evicts a batch of its oldest tasks into spill descriptors and retries;
// the evicted batch is handed to a requeuer that reinstates it as buffer
// room frees up on subsequent calls. A spill that fires before an earlier
// requeuer has fully drained queues up behind it rather than replacing it,
// so no evicted batch is ever discarded. On success (directly or after
// spilling), every task currently sitting in the buffer is pumped into the
// TLS back-end's shared domain queue, where its workers pick it up.
func (h *Hardware) Enqueue(t *task.Task) {
	h.mu.Lock()
	defer h.mu.Unlock()

	w := h.tls.self()
	var cur *task.Task
	if w != nil {
		cur = w.cur
	}
	resolved := &task.Task{
		Ts:    task.ResolveTimestamp(cur, t.Flags, t.Ts),
		UID:   t.UID,
		Hint:  task.ResolveHint(cur, t.Flags, t.Hint),
		Flags: t.Flags,
		Run:   task.ResolveFunc(cur, t.Flags, t.Run),
	}

	err := h.backend.PushTask(resolved)
	if err != nil {
		if err != sim.ErrBufferFull {
			debug.Fatalf("sched.Hardware", "PushTask: "+err.Error())
		}
		batch, evictErr := h.spiller.Evict(h.backend, constants.SpillBatchSize)
		if evictErr != nil {
			debug.Fatalf("sched.Hardware", "spill evict: "+evictErr.Error())
		}
		if batch != nil {
			h.requeuers = append(h.requeuers, spill.NewRequeuer(batch))
		}
		if pushErr := h.backend.PushTask(resolved); pushErr != nil {
			debug.Fatalf("sched.Hardware", "PushTask after spill: "+pushErr.Error())
		}
	}

	h.drainRequeuerLocked()
	h.pumpLocked()
}

// drainRequeuerLocked pushes pending requeuers back into the buffer in the
// order their spills fired, oldest batch first. A requeuer that stalls on
// ErrBufferFull (YIELDIFFULL) stays at the head of the queue so later
// batches can't jump ahead of descriptors still waiting for room.
func (h *Hardware) drainRequeuerLocked() {
	for len(h.requeuers) > 0 {
		r := h.requeuers[0]
		if !r.Run(h.backend) {
			return
		}
		h.requeuers = h.requeuers[1:]
	}
}

func (h *Hardware) pumpLocked() {
	for {
		t, _, ok := h.backend.PopMin()
		if !ok {
			return
		}
		h.tls.PushResolved(t)
	}
}

func (h *Hardware) Info(format string, args ...any) {
	debug.DropMessage("sched.Hardware", fmt.Sprintf(format, args...))
}
