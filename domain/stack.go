// Package domain implements the fractal-time domain stack: a LIFO of
// priority queues, one per live virtual-time domain, with deepen pushing a
// fresh domain and undeepen popping an exhausted one.
package domain

import (
	"errors"

	"github.com/SwarmArch/runtime/pqueue"
	"github.com/SwarmArch/runtime/ts"
)

// ErrNotEmpty is returned by Pop when the top domain's queue still holds
// tasks; the spec leaves this case's handling to each back-end (oracle
// drains before popping, TLS pops only on an explicit Undeepen and treats
// a non-empty top as fatal, sequential never deepens at all),
// so this package only enforces the invariant and lets the caller decide.
var ErrNotEmpty = errors.New("domain: top queue not empty")

// ErrEmptyStack is the programmer-contract violation of undeepen/Pop on a
// stack with nothing left to pop.
var ErrEmptyStack = errors.New("domain: stack is empty")

type frame struct {
	q       *pqueue.Queue
	superTS ts.Timestamp
}

// Stack is a LIFO of domain priority queues.
type Stack struct {
	frames []frame
}

// New returns a stack with a single root domain whose super-timestamp is
// the sentinel (no enclosing domain).
func New() *Stack {
	s := &Stack{}
	s.frames = append(s.frames, frame{q: pqueue.New(0), superTS: ts.NoTimestamp})
	return s
}

// Push (deepen) creates a fresh empty PQ and records superTS as the new
// domain's super-timestamp. The Oracle and TLS back-ends pass Deepen's
// maxTS argument here, not the calling task's own timestamp.
func (s *Stack) Push(superTS ts.Timestamp) {
	s.frames = append(s.frames, frame{q: pqueue.New(0), superTS: superTS})
}

// Top returns the current (innermost) domain's queue.
func (s *Stack) Top() *pqueue.Queue {
	return s.frames[len(s.frames)-1].q
}

// Pop (undeepen) removes the top domain. It fails with ErrNotEmpty if the
// top queue still has tasks and with ErrEmptyStack if only the root domain
// remains — the root is never popped.
func (s *Stack) Pop() error {
	if len(s.frames) <= 1 {
		return ErrEmptyStack
	}
	if !s.frames[len(s.frames)-1].q.Empty() {
		return ErrNotEmpty
	}
	s.frames = s.frames[:len(s.frames)-1]
	return nil
}

// SuperTimestamp returns the super-timestamp of the top domain, or
// ts.NoTimestamp at the root domain.
func (s *Stack) SuperTimestamp() ts.Timestamp {
	return s.frames[len(s.frames)-1].superTS
}

// Depth reports how many domains (including root) are currently live.
func (s *Stack) Depth() int { return len(s.frames) }

// Parent returns the queue of the domain enclosing the top domain, used by
// the oracle back-end to implement PARENTDOMAIN retargeting: pop top,
// push the task there, push the saved child queue back on top.
func (s *Stack) Parent() (*pqueue.Queue, error) {
	if len(s.frames) < 2 {
		return nil, ErrEmptyStack
	}
	return s.frames[len(s.frames)-2].q, nil
}

// Outermost returns the root domain's queue, used by SUPERDOMAIN targeting.
func (s *Stack) Outermost() *pqueue.Queue {
	return s.frames[0].q
}
