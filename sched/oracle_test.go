package sched

import (
	"testing"

	"github.com/SwarmArch/runtime/sim"
	"github.com/SwarmArch/runtime/task"
	"github.com/SwarmArch/runtime/ts"
)

func TestOracleRunsInTimestampOrder(t *testing.T) {
	backend := sim.NewFakeBackend(16)
	rt := NewOracle(backend)
	var order []int
	for i, when := range []ts.Timestamp{30, 10, 20} {
		i, when := i, when
		rt.Enqueue(task.EnqueueLambda(when, ts.Hint{}, 0, func() {
			order = append(order, i)
		}))
	}
	rt.Run()
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 0 {
		t.Fatalf("unexpected execution order: %v", order)
	}
}

func TestOracleNotifiesBackendOnDomainDrain(t *testing.T) {
	backend := sim.NewFakeBackend(16)
	rt := NewOracle(backend)
	rt.Enqueue(task.EnqueueLambda(5, ts.Hint{}, 0, func() {
		rt.Deepen(9)
		rt.Enqueue(task.EnqueueLambda(7, ts.Hint{}, 0, func() {}))
	}))
	rt.Run()
	drained := backend.Drained()
	if len(drained) != 1 || drained[0] != 9 {
		t.Fatalf("Drained() = %v, want [9]", drained)
	}
}

func TestOracleRecordAsAbortedLeavesOtherTasksRunning(t *testing.T) {
	backend := sim.NewFakeBackend(16)
	rt := NewOracle(backend)
	childRan := false
	rt.Enqueue(task.EnqueueLambda(1, ts.Hint{}, 0, func() {
		rt.RecordAsAborted()
	}))
	rt.Enqueue(task.EnqueueLambda(2, ts.Hint{}, 0, func() {
		childRan = true
	}))
	rt.Run()
	if !childRan {
		t.Fatalf("unrelated task at a later timestamp should still run")
	}
}

func TestOracleAssignsUIDWhenZero(t *testing.T) {
	backend := sim.NewFakeBackend(16)
	rt := NewOracle(backend)
	var uid uint64
	rt.Enqueue(task.EnqueueLambda(1, ts.Hint{}, 0, func() {
		uid = rt.cur.UID
	}))
	rt.Run()
	if uid == 0 {
		t.Fatalf("expected a non-zero auto-assigned UID")
	}
}
