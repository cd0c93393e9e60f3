package sched

import (
	"fmt"

	"github.com/SwarmArch/runtime/debug"
	"github.com/SwarmArch/runtime/domain"
	"github.com/SwarmArch/runtime/sim"
	"github.com/SwarmArch/runtime/task"
	"github.com/SwarmArch/runtime/ts"
)

// Oracle is the ground-truth speculative back-end: it runs strictly in
// timestamp order like Sequential, but additionally tracks every in-flight
// task by UID (so a task can later be looked up and marked aborted) and
// notifies a sim.Backend whenever a domain finishes draining, mirroring the
// bookkeeping a real speculative engine would do around commit/abort.
type Oracle struct {
	dom      *domain.Stack
	backend  sim.Backend
	cur      *task.Task
	inflight map[uint64]*task.Task
	aborted  map[uint64]bool
	nextUID  uint64
	gvt      ts.Timestamp
}

// NewOracle returns an Oracle reporting domain-drain events to backend.
func NewOracle(backend sim.Backend) *Oracle {
	return &Oracle{
		dom:      domain.New(),
		backend:  backend,
		inflight: make(map[uint64]*task.Task),
		aborted:  make(map[uint64]bool),
	}
}

func (o *Oracle) Run() {
	for {
		q := o.dom.Top()
		t, when, err := q.PopTop()
		if err != nil {
			if o.dom.Depth() == 1 {
				return
			}
			o.backend.OnDomainDrained(o.dom.SuperTimestamp())
			if perr := o.dom.Pop(); perr != nil {
				debug.Fatalf("sched.Oracle", perr.Error())
			}
			continue
		}
		if o.aborted[t.UID] {
			delete(o.inflight, t.UID)
			continue
		}
		prev := o.cur
		o.cur = t
		o.cur.Ts = when
		t.Run()
		delete(o.inflight, t.UID)
		o.cur = prev
	}
}

func (o *Oracle) NumThreads() int { return 1 }
func (o *Oracle) Tid() int        { return 0 }

func (o *Oracle) Timestamp() ts.Timestamp {
	if o.cur == nil {
		return ts.NoTimestamp
	}
	return o.cur.Ts
}

func (o *Oracle) SuperTimestamp() ts.Timestamp { return o.dom.SuperTimestamp() }

func (o *Oracle) Deepen(maxTS ts.Timestamp) { o.dom.Push(maxTS) }

func (o *Oracle) Undeepen() {
	if err := o.dom.Pop(); err != nil {
		debug.Fatalf("sched.Oracle", "undeepen: "+err.Error())
	}
}

func (o *Oracle) Enqueue(t *task.Task) {
	resolved := &task.Task{
		Ts:    task.ResolveTimestamp(o.cur, t.Flags, t.Ts),
		UID:   t.UID,
		Hint:  task.ResolveHint(o.cur, t.Flags, t.Hint),
		Flags: t.Flags,
		Run:   task.ResolveFunc(o.cur, t.Flags, t.Run),
	}
	if resolved.UID == 0 {
		o.nextUID++
		resolved.UID = o.nextUID
	}

	q := o.dom.Top()
	switch {
	case t.Flags.Has(ts.SUPERDOMAIN):
		q = o.dom.Outermost()
	case t.Flags.Has(ts.PARENTDOMAIN):
		p, err := o.dom.Parent()
		if err != nil {
			debug.Fatalf("sched.Oracle", "PARENTDOMAIN at root: "+err.Error())
		}
		q = p
	}
	o.inflight[resolved.UID] = resolved
	q.Push(resolved.Ts, resolved)
}

func (o *Oracle) SetGVT(g ts.Timestamp) { o.gvt = g }
func (o *Oracle) Serialize()             {}
func (o *Oracle) ClearReadSet()          {}

// RecordAsAborted marks the currently running task's UID as aborted: it has
// already been popped from the queue, so the effect is limited to Run
// skipping any later-dequeued task that carries that same UID. Tasks it
// enqueued under auto-assigned UIDs get UIDs of their own and still run.
func (o *Oracle) RecordAsAborted() {
	if o.cur != nil {
		o.aborted[o.cur.UID] = true
	}
}

func (o *Oracle) Info(format string, args ...any) {
	debug.DropMessage("sched.Oracle", fmt.Sprintf(format, args...))
}
