package ring

import (
	"runtime"
	"testing"

	"github.com/SwarmArch/runtime/task"
)

const benchCap = 1024 // power-of-two, comfortably cache-resident

var dummyTask = &task.Task{}
var sink *task.Task // blocks DCE on Pop results

func BenchmarkRing_Push(b *testing.B) {
	r := New(benchCap)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !r.Push(dummyTask) { // full? free one slot then retry
			_ = r.Pop()
			_ = r.Push(dummyTask)
		}
	}
}

func BenchmarkRing_Pop(b *testing.B) {
	r := New(benchCap)
	for i := 0; i < benchCap-1; i++ { // leave one slot free so Pop succeeds
		r.Push(dummyTask)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		t := r.Pop()
		if t == nil { // empty? push one then pop
			r.Push(dummyTask)
			t = r.Pop()
		}
		sink = t
		_ = r.Push(dummyTask) // re-push to keep the ring non-empty
	}
	runtime.KeepAlive(sink)
}

func BenchmarkRing_PushPop(b *testing.B) {
	r := New(benchCap)
	for i := 0; i < benchCap/2; i++ { // half-full steady-state
		r.Push(dummyTask)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		t := r.Pop()
		sink = t
		_ = r.Push(dummyTask)
	}
	runtime.KeepAlive(sink)
}

// BenchmarkRing_CrossCore measures producer/consumer throughput with each
// side pinned to a different CPU, the AffinityRouter.Route/PinnedConsumer
// hand-off shape.
func BenchmarkRing_CrossCore(b *testing.B) {
	r := New(benchCap)

	ready := make(chan struct{})
	done := make(chan struct{})

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		setAffinity(1)
		close(ready)
		for i := 0; i < b.N; i++ {
			for r.Pop() == nil {
				cpuRelax()
			}
		}
		close(done)
	}()

	<-ready
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	setAffinity(0)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for !r.Push(dummyTask) {
			cpuRelax()
		}
	}
	<-done
	b.StopTimer()
}
