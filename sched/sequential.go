package sched

import (
	"fmt"

	"github.com/SwarmArch/runtime/debug"
	"github.com/SwarmArch/runtime/domain"
	"github.com/SwarmArch/runtime/task"
	"github.com/SwarmArch/runtime/ts"
)

// Sequential is the reference back-end: one domain stack, one goroutine, no
// speculation. Every other back-end must agree with Sequential's output for
// the same workload since it defines the non-speculative baseline ordering.
type Sequential struct {
	dom *domain.Stack
	cur *task.Task
	gvt ts.Timestamp
}

func NewSequential() *Sequential {
	return &Sequential{dom: domain.New()}
}

func (s *Sequential) Run() {
	for {
		q := s.dom.Top()
		t, when, err := q.PopTop()
		if err != nil {
			if s.dom.Depth() == 1 {
				return
			}
			if perr := s.dom.Pop(); perr != nil {
				debug.Fatalf("sched.Sequential", perr.Error())
			}
			continue
		}
		prev := s.cur
		s.cur = t
		s.cur.Ts = when
		t.Run()
		s.cur = prev
	}
}

func (s *Sequential) NumThreads() int { return 1 }
func (s *Sequential) Tid() int        { return 0 }

func (s *Sequential) Timestamp() ts.Timestamp {
	if s.cur == nil {
		return ts.NoTimestamp
	}
	return s.cur.Ts
}

func (s *Sequential) SuperTimestamp() ts.Timestamp { return s.dom.SuperTimestamp() }

// Deepen and Undeepen are unimplemented on Sequential: fractal time exists
// to let one domain's speculation run ahead of another, and Sequential has
// no speculation to isolate in the first place. Calling either is a
// programmer error, not a runtime condition to recover from.
func (s *Sequential) Deepen(maxTS ts.Timestamp) {
	debug.Fatalf("sched.Sequential", "deepen: unimplemented")
}

func (s *Sequential) Undeepen() {
	debug.Fatalf("sched.Sequential", "undeepen: unimplemented")
}

// Enqueue resolves any omitted timestamp/hint/function against the currently
// running task, then targets a domain queue per the PARENTDOMAIN/SUPERDOMAIN
// flags (default, SUBDOMAIN included: the current, innermost domain).
func (s *Sequential) Enqueue(t *task.Task) {
	resolved := &task.Task{
		Ts:    task.ResolveTimestamp(s.cur, t.Flags, t.Ts),
		UID:   t.UID,
		Hint:  task.ResolveHint(s.cur, t.Flags, t.Hint),
		Flags: t.Flags,
		Run:   task.ResolveFunc(s.cur, t.Flags, t.Run),
	}

	q := s.dom.Top()
	switch {
	case t.Flags.Has(ts.SUPERDOMAIN):
		q = s.dom.Outermost()
	case t.Flags.Has(ts.PARENTDOMAIN):
		p, err := s.dom.Parent()
		if err != nil {
			debug.Fatalf("sched.Sequential", "PARENTDOMAIN at root: "+err.Error())
		}
		q = p
	}
	q.Push(resolved.Ts, resolved)
}

func (s *Sequential) SetGVT(g ts.Timestamp) { s.gvt = g }
func (s *Sequential) Serialize()             {}
func (s *Sequential) ClearReadSet()          {}
func (s *Sequential) RecordAsAborted()       {}

func (s *Sequential) Info(format string, args ...any) {
	debug.DropMessage("sched.Sequential", fmt.Sprintf(format, args...))
}
