package control

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestInitialState(t *testing.T) {
	Reset()
	if IsStopped() || IsDraining() {
		t.Fatal("flags should start clear")
	}
}

func TestStopSetsFlag(t *testing.T) {
	Reset()
	Stop()
	if !IsStopped() {
		t.Fatal("Stop() should set the stop flag")
	}
	if IsDraining() {
		t.Fatal("Stop() should not set the drain flag")
	}
}

func TestDrainSetsFlag(t *testing.T) {
	Reset()
	Drain()
	if !IsDraining() {
		t.Fatal("Drain() should set the drain flag")
	}
	if IsStopped() {
		t.Fatal("Drain() should not set the stop flag")
	}
}

func TestFlagsPointersAreStable(t *testing.T) {
	Reset()
	stop1, drain1 := Flags()
	stop2, drain2 := Flags()
	if stop1 != stop2 || drain1 != drain2 {
		t.Fatal("Flags() should return stable pointers across calls")
	}
	*stop1 = 1
	if !IsStopped() {
		t.Fatal("writing through the returned pointer should affect IsStopped")
	}
}

func TestConcurrentAccess(t *testing.T) {
	Reset()
	var wg sync.WaitGroup
	var calls uint64
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				Drain()
				_ = IsDraining()
				atomic.AddUint64(&calls, 1)
			}
		}()
	}
	wg.Wait()
	if calls != 8000 {
		t.Fatalf("calls = %d, want 8000", calls)
	}
	if !IsDraining() {
		t.Fatal("IsDraining should be true after concurrent Drain calls")
	}
}
