package pqueue

import (
	"math/rand"
	"testing"

	"github.com/SwarmArch/runtime/task"
	"github.com/SwarmArch/runtime/ts"
)

func expectEmpty(t *testing.T, q *Queue) {
	t.Helper()
	if !q.Empty() {
		t.Fatalf("expected empty; len=%d", q.Len())
	}
}

func TestPushPopOrdersByTimestamp(t *testing.T) {
	q := New(0)
	order := []ts.Timestamp{5, 1, 9, 3, 7}
	for _, tm := range order {
		q.Push(tm, &task.Task{})
	}
	var got []ts.Timestamp
	for !q.Empty() {
		_, tm, err := q.PopTop()
		if err != nil {
			t.Fatalf("PopTop: %v", err)
		}
		got = append(got, tm)
	}
	want := []ts.Timestamp{1, 3, 5, 7, 9}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("pop order[%d] = %d, want %d (full: %v)", i, got[i], w, got)
		}
	}
}

func TestPushPopBreaksTiesByInsertionOrder(t *testing.T) {
	q := New(0)
	var pushed []*task.Task
	for i := 0; i < 5; i++ {
		tk := &task.Task{}
		pushed = append(pushed, tk)
		q.Push(3, tk)
	}
	for i, want := range pushed {
		tk, tm, err := q.PopTop()
		if err != nil {
			t.Fatalf("PopTop: %v", err)
		}
		if tm != 3 {
			t.Fatalf("pop[%d] ts = %d, want 3", i, tm)
		}
		if tk != want {
			t.Fatalf("pop[%d] task = %p, want %p (FIFO among equal timestamps)", i, tk, want)
		}
	}
}

func TestPopEmptyReturnsError(t *testing.T) {
	q := New(0)
	if _, _, err := q.PopTop(); err != ErrEmpty {
		t.Fatalf("PopTop on empty = %v, want ErrEmpty", err)
	}
}

func TestPeekMinTSDoesNotRemove(t *testing.T) {
	q := New(0)
	q.Push(10, &task.Task{})
	q.Push(2, &task.Task{})
	tm, ok := q.PeekMinTS()
	if !ok || tm != 2 {
		t.Fatalf("PeekMinTS = (%d,%v), want (2,true)", tm, ok)
	}
	if q.Len() != 2 {
		t.Fatalf("PeekMinTS should not remove; len=%d", q.Len())
	}
}

func TestRemoveMidHeap(t *testing.T) {
	q := New(0)
	handles := make([]Handle, 0, 8)
	for i := ts.Timestamp(0); i < 8; i++ {
		handles = append(handles, q.Push(i, &task.Task{}))
	}
	if err := q.Remove(handles[4]); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if q.Len() != 7 {
		t.Fatalf("len after remove = %d, want 7", q.Len())
	}
	var prev ts.Timestamp = 0
	first := true
	for !q.Empty() {
		_, tm, _ := q.PopTop()
		if tm == 4 {
			t.Fatalf("removed timestamp 4 resurfaced")
		}
		if !first && tm < prev {
			t.Fatalf("heap order violated: %d after %d", tm, prev)
		}
		prev, first = tm, false
	}
}

func TestRemoveInvalidHandle(t *testing.T) {
	q := New(0)
	h := q.Push(1, &task.Task{})
	q.PopTop()
	if err := q.Remove(h); err != ErrItemNotFound {
		t.Fatalf("Remove on already-popped handle = %v, want ErrItemNotFound", err)
	}
}

func TestPushPopStressRandomOrder(t *testing.T) {
	const n = 2000
	q := New(n)
	perm := rand.Perm(n)
	for _, v := range perm {
		q.Push(ts.Timestamp(v), &task.Task{})
	}
	var prev ts.Timestamp
	first := true
	count := 0
	for !q.Empty() {
		_, tm, _ := q.PopTop()
		if !first && tm < prev {
			t.Fatalf("heap order violated at count %d: %d after %d", count, tm, prev)
		}
		prev, first, count = tm, false, count+1
	}
	if count != n {
		t.Fatalf("popped %d items, want %d", count, n)
	}
	expectEmpty(t, q)
}
