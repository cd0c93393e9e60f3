package sched

import (
	"sync/atomic"
	"testing"

	"github.com/SwarmArch/runtime/spill"
	"github.com/SwarmArch/runtime/task"
	"github.com/SwarmArch/runtime/ts"
)

func TestHardwareRunsAllTasks(t *testing.T) {
	rt := NewHardware(4, 64)
	var count atomic.Int64
	const n = 200
	for i := 0; i < n; i++ {
		rt.Enqueue(task.EnqueueLambda(ts.Timestamp(i), ts.Hint{}, 0, func() {
			count.Add(1)
		}))
	}
	rt.Run()
	if count.Load() != n {
		t.Fatalf("count = %d, want %d", count.Load(), n)
	}
}

func TestHardwareChildTaskDuringRun(t *testing.T) {
	rt := NewHardware(2, 16)
	var child atomic.Bool
	rt.Enqueue(task.EnqueueLambda(ts.Timestamp(1), ts.Hint{}, 0, func() {
		rt.Enqueue(task.EnqueueLambda(ts.Timestamp(2), ts.Hint{}, 0, func() {
			child.Store(true)
		}))
	}))
	rt.Run()
	if !child.Load() {
		t.Fatalf("child task enqueued during Run never executed")
	}
}

func TestHardwareNumThreads(t *testing.T) {
	rt := NewHardware(3, 8)
	if rt.NumThreads() != 3 {
		t.Fatalf("NumThreads() = %d, want 3", rt.NumThreads())
	}
}

// TestHardwareOverlappingSpillsBothDrain exercises a second spill firing
// before the first requeuer has finished draining: both batches must
// eventually reinstate their tasks, none lost to the single-field overwrite
// this guards against.
func TestHardwareOverlappingSpillsBothDrain(t *testing.T) {
	rt := NewHardware(1, 8)

	var ran []ts.Timestamp
	mkDescs := func(tms ...ts.Timestamp) *spill.TaskDescriptors {
		out := make(spill.TaskDescriptors, 0, len(tms))
		for _, tm := range tms {
			tm := tm
			out = append(out, spill.TaskDescriptor{
				TS:   tm,
				Task: &task.Task{Run: func() { ran = append(ran, tm) }},
			})
		}
		return &out
	}

	rt.mu.Lock()
	rt.requeuers = append(rt.requeuers,
		spill.NewRequeuer(mkDescs(1, 2)),
		spill.NewRequeuer(mkDescs(3, 4)),
	)
	rt.drainRequeuerLocked()
	rt.mu.Unlock()

	if len(rt.requeuers) != 0 {
		t.Fatalf("requeuers left pending = %d, want 0", len(rt.requeuers))
	}

	var got []ts.Timestamp
	for {
		tk, tm, ok := rt.backend.PopMin()
		if !ok {
			break
		}
		got = append(got, tm)
		tk.Run()
	}
	if len(got) != 4 {
		t.Fatalf("reinstated %d tasks, want 4 (got %v)", len(got), got)
	}
	if len(ran) != 4 {
		t.Fatalf("ran %d closures, want 4 (got %v)", len(ran), ran)
	}
}
