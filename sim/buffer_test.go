package sim

import (
	"math/rand"
	"testing"

	"github.com/SwarmArch/runtime/task"
	"github.com/SwarmArch/runtime/ts"
)

func TestPushBeyondWindow(t *testing.T) {
	b := NewHWBuffer()
	_, err := b.Push(ts.Timestamp(numBuckets), &task.Task{})
	if err != ErrBeyondWindow {
		t.Fatalf("Push at window edge = %v, want ErrBeyondWindow", err)
	}
}

func TestPushPopOrder(t *testing.T) {
	b := NewHWBuffer()
	ticks := []ts.Timestamp{5, 1, 9, 3}
	for _, tm := range ticks {
		if _, err := b.Push(tm, &task.Task{Ts: tm}); err != nil {
			t.Fatalf("Push(%d): %v", tm, err)
		}
	}
	var got []ts.Timestamp
	for !b.Empty() {
		_, tm, _, err := b.PopMin()
		if err != nil {
			t.Fatalf("PopMin: %v", err)
		}
		got = append(got, tm)
	}
	want := []ts.Timestamp{1, 3, 5, 9}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("pop order = %v, want %v", got, want)
		}
	}
}

func TestPopEmptyBuffer(t *testing.T) {
	b := NewHWBuffer()
	if _, _, _, err := b.PopMin(); err != ErrBufferEmpty {
		t.Fatalf("PopMin on empty = %v, want ErrBufferEmpty", err)
	}
}

func TestPushPopStress(t *testing.T) {
	const n = 500
	b := NewHWBuffer()
	perm := rand.Perm(n)
	for _, v := range perm {
		if _, err := b.Push(ts.Timestamp(v), &task.Task{Ts: ts.Timestamp(v)}); err != nil {
			t.Fatalf("Push(%d): %v", v, err)
		}
	}
	if b.Size() != n {
		t.Fatalf("Size() = %d, want %d", b.Size(), n)
	}
	var prev ts.Timestamp
	first := true
	for !b.Empty() {
		_, tm, _, _ := b.PopMin()
		if !first && tm < prev {
			t.Fatalf("order violated: %d after %d", tm, prev)
		}
		prev, first = tm, false
	}
}

func TestFakeBackendPushAndPopMin(t *testing.T) {
	fb := NewFakeBackend(64)
	tk := &task.Task{Ts: 3}
	if err := fb.PushTask(tk); err != nil {
		t.Fatalf("PushTask: %v", err)
	}
	got, tm, ok := fb.PopMin()
	if !ok || got != tk || tm != 3 {
		t.Fatalf("PopMin = (%v,%d,%v), want (tk,3,true)", got, tm, ok)
	}
}

func TestEvictOldestReturnsAscendingOrder(t *testing.T) {
	b := NewHWBuffer()
	ticks := []ts.Timestamp{5, 1, 9, 3}
	for _, tm := range ticks {
		if _, err := b.Push(tm, &task.Task{Ts: tm}); err != nil {
			t.Fatalf("Push(%d): %v", tm, err)
		}
	}
	got := b.EvictOldest(2)
	if len(got) != 2 || got[0].TS != 1 || got[1].TS != 3 {
		t.Fatalf("EvictOldest(2) = %v, want [1 3]", got)
	}
	if b.Size() != 2 {
		t.Fatalf("Size() after eviction = %d, want 2", b.Size())
	}
}

func TestFakeBackendEvict(t *testing.T) {
	fb := NewFakeBackend(8)
	for _, tm := range []ts.Timestamp{2, 4, 6} {
		if err := fb.PushTask(&task.Task{Ts: tm}); err != nil {
			t.Fatalf("PushTask(%d): %v", tm, err)
		}
	}
	evicted := fb.Evict(1)
	if len(evicted) != 1 || evicted[0].TS != 2 {
		t.Fatalf("Evict(1) = %v, want [{2 ...}]", evicted)
	}
}

func TestFakeBackendOnDomainDrained(t *testing.T) {
	fb := NewFakeBackend(8)
	fb.OnDomainDrained(7)
	fb.OnDomainDrained(9)
	got := fb.Drained()
	if len(got) != 2 || got[0] != 7 || got[1] != 9 {
		t.Fatalf("Drained() = %v, want [7 9]", got)
	}
}
