package parallel

import (
	"testing"

	"github.com/SwarmArch/runtime/cont"
	"github.com/SwarmArch/runtime/sched"
	"github.com/SwarmArch/runtime/task"
	"github.com/SwarmArch/runtime/ts"
)

func TestFillSequential(t *testing.T) {
	rt := sched.NewSequential()
	dst := make([]int, 10)
	rt.Enqueue(task.EnqueueLambda(0, ts.Hint{}, 0, func() {
		Fill(rt, 0, 10, 0, ts.Hint{}, 0, dst, 7)
	}))
	rt.Run()
	for i, v := range dst {
		if v != 7 {
			t.Fatalf("dst[%d] = %d, want 7", i, v)
		}
	}
}

func TestCopyAndTransformSequential(t *testing.T) {
	rt := sched.NewSequential()
	src := []int{1, 2, 3, 4, 5}
	dst := make([]int, 5)
	doubled := make([]int, 5)
	rt.Enqueue(task.EnqueueLambda(0, ts.Hint{}, 0, func() {
		Copy(rt, 0, 5, 0, ts.Hint{}, 0, dst, src)
		Transform(rt, 0, 5, 0, ts.Hint{}, 0, doubled, src, func(v int) int { return v * 2 })
	}))
	rt.Run()
	for i := range src {
		if dst[i] != src[i] {
			t.Fatalf("dst[%d] = %d, want %d", i, dst[i], src[i])
		}
		if doubled[i] != src[i]*2 {
			t.Fatalf("doubled[%d] = %d, want %d", i, doubled[i], src[i]*2)
		}
	}
}

func TestReduceSequentialSumsRange(t *testing.T) {
	rt := sched.NewSequential()
	src := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	var got int
	rt.Enqueue(task.EnqueueLambda(0, ts.Hint{}, 0, func() {
		done := cont.New(func(v int) { got = v })
		Reduce(rt, 0, len(src), 0, ts.Hint{}, 0, src, 0, func(a, b int) int { return a + b }, done)
	}))
	rt.Run()
	if got != 55 {
		t.Fatalf("Reduce sum = %d, want 55", got)
	}
}

func TestReduceTLSSumsRange(t *testing.T) {
	rt := sched.NewTLS(4)
	src := make([]int, 1000)
	want := 0
	for i := range src {
		src[i] = i + 1
		want += src[i]
	}
	var got int
	rt.Enqueue(task.EnqueueLambda(0, ts.Hint{}, 0, func() {
		done := cont.New(func(v int) { got = v })
		Reduce(rt, 0, len(src), 0, ts.Hint{}, 0, src, 0, func(a, b int) int { return a + b }, done)
	}))
	rt.Run()
	if got != want {
		t.Fatalf("Reduce sum = %d, want %d", got, want)
	}
}

// TestReduceTLSManyConcurrentCallsDoNotDeadlock drives every worker into
// its own top-level Reduce call at once — the scenario a blocking
// fork-join would deadlock under, since none of the fixed worker pool
// would be left to dequeue the strand tasks each call enqueues.
func TestReduceTLSManyConcurrentCallsDoNotDeadlock(t *testing.T) {
	const workers = 4
	rt := sched.NewTLS(workers)
	src := make([]int, 200)
	want := 0
	for i := range src {
		src[i] = i + 1
		want += src[i]
	}

	results := make([]int, workers)
	for w := 0; w < workers; w++ {
		w := w
		rt.Enqueue(task.EnqueueLambda(ts.Timestamp(w), ts.Hint{}, 0, func() {
			done := cont.New(func(v int) { results[w] = v })
			Reduce(rt, 0, len(src), ts.Timestamp(w), ts.Hint{}, 0, src, 0, func(a, b int) int { return a + b }, done)
		}))
	}
	rt.Run()
	for w, got := range results {
		if got != want {
			t.Fatalf("worker %d Reduce sum = %d, want %d", w, got, want)
		}
	}
}

func TestReduceEmptyRangeReturnsIdentity(t *testing.T) {
	rt := sched.NewSequential()
	src := []int{}
	var got int
	rt.Enqueue(task.EnqueueLambda(0, ts.Hint{}, 0, func() {
		done := cont.New(func(v int) { got = v })
		Reduce(rt, 0, 0, 0, ts.Hint{}, 0, src, 42, func(a, b int) int { return a + b }, done)
	}))
	rt.Run()
	if got != 42 {
		t.Fatalf("Reduce on empty range = %d, want identity 42", got)
	}
}
