// Package spill implements the hardware task buffer's overflow protocol:
// when the buffer's arena runs out of free slots, a Spiller evicts the
// oldest (lowest-timestamp) untied entries into plain task descriptors, and
// a Requeuer walks those descriptors back in, reinstating them once room
// frees up.
package spill

import (
	"github.com/SwarmArch/runtime/sim"
	"github.com/SwarmArch/runtime/task"
	"github.com/SwarmArch/runtime/ts"
)

// TaskDescriptor is a task reduced to the fields the spill protocol needs
// to carry across the eviction/reinstatement boundary: the closure itself
// plus its persistent flags and hint, since transient flags (SAMEHINT,
// SAMETASK, ...) only make sense relative to a currently-running task. The
// descriptor drops them and the requeuer does not re-derive them: a
// reinstated task keeps the hint and closure resolved at its first enqueue.
type TaskDescriptor struct {
	TS    ts.Timestamp
	Task  *task.Task
	Flags ts.EnqFlags // persistent subset only
	Hint  ts.Hint
	Args  [task.MaxArgs]uint64
}

// TaskDescriptors is an ordered batch of evicted descriptors, lowest
// timestamp (oldest) first.
type TaskDescriptors []TaskDescriptor

// Evictor is the narrow surface a hardware buffer stand-in needs to expose
// for eviction; sim.FakeBackend implements it.
type Evictor interface {
	Evict(n int) []sim.Evicted
}

// Spiller converts buffer overflow into a batch of descriptors.
type Spiller struct {
	minTS ts.Timestamp
	seen  bool
}

// Evict pulls up to n of the oldest tasks out of buf. It returns a nil
// batch, not an error, when nothing was evicted: per spec.md §7's "invalid
// spill state" rule, zero extractions free the descriptor block silently
// instead of scheduling an idle requeuer.
func (s *Spiller) Evict(buf Evictor, n int) (*TaskDescriptors, error) {
	items := buf.Evict(n)
	if len(items) == 0 {
		return nil, nil
	}

	out := make(TaskDescriptors, 0, len(items))
	for _, it := range items {
		if !s.seen || it.TS < s.minTS {
			s.minTS = it.TS
			s.seen = true
		}
		d := TaskDescriptor{
			TS:    it.TS,
			Task:  it.Task,
			Flags: it.Task.Flags.Persistent(),
			Hint:  it.Task.Hint,
		}
		out = append(out, d)
	}
	return &out, nil
}

// MinTS reports the lowest timestamp this Spiller has evicted across all of
// its Evict calls (zero before the first eviction).
func (s *Spiller) MinTS() ts.Timestamp { return s.minTS }
