package spill

import (
	"github.com/SwarmArch/runtime/sim"
	"github.com/SwarmArch/runtime/task"
	"github.com/SwarmArch/runtime/ts"
)

// Requeuer reinstates a batch of evicted descriptors into the hardware
// buffer, walking the block high-to-low (last-in-first-out): the descriptor
// Spiller.Evict appended last is reinstated first. This mirrors the
// original simulator's requeuer_impl, which walks descs->tds[descs->size-1]
// backward rather than forward. Each reinstated task is itself a REQUEUER
// task: non-speculative, so its reinsertion can never itself be aborted and
// lost.
type Requeuer struct {
	descs TaskDescriptors
	pos   int
}

// NewRequeuer returns a Requeuer over descs, positioned at the high end of
// the block. A nil or empty batch is a Requeuer that is immediately Done.
func NewRequeuer(descs *TaskDescriptors) *Requeuer {
	r := &Requeuer{}
	if descs != nil {
		r.descs = *descs
	}
	r.pos = len(r.descs) - 1
	return r
}

// Run pushes descriptors into buf starting from wherever the last Run call
// left off, walking from the high end of the block down to the low end. It
// implements YIELDIFFULL: the moment a push reports sim.ErrBufferFull, Run
// stops and returns false so the caller can retry later once the buffer has
// room, rather than dropping the remaining descriptors or blocking.
func (r *Requeuer) Run(buf sim.Backend) (done bool) {
	for r.pos >= 0 {
		d := r.descs[r.pos]
		t := &task.Task{
			Ts:    d.TS,
			Hint:  d.Hint,
			Flags: d.Flags | ts.REQUEUER,
			Run:   d.Task.Run,
			UID:   d.Task.UID,
		}
		if err := buf.PushTask(t); err != nil {
			return false
		}
		r.pos--
	}
	return true
}

// Done reports whether every descriptor has been reinstated.
func (r *Requeuer) Done() bool { return r.pos < 0 }

// Remaining reports how many descriptors are still waiting to be pushed.
func (r *Requeuer) Remaining() int { return r.pos + 1 }
