package sched

import (
	"testing"

	"github.com/so-sim/vsok/internal/process"
)

func TestSimpleKeepsRunningDescriptor(t *testing.T) {
	tbl := process.NewTable(0)
	cur := &tbl.Slots[0]
	cur.State = process.Running
	q := NewQueue()

	d := SimplePolicy{}.ChooseNext(tbl, q, cur, 3)
	if d.Switch || d.Next != cur || d.NewQuantum != 3 {
		t.Fatalf("want no switch, got %+v", d)
	}
}

func TestSimplePicksFirstReadyInTableOrder(t *testing.T) {
	tbl := process.NewTable(0)
	tbl.Slots[3].State = process.Ready
	tbl.Slots[3].PID = 3
	tbl.Slots[7].State = process.Ready
	tbl.Slots[7].PID = 7
	q := NewQueue()

	d := SimplePolicy{}.ChooseNext(tbl, q, nil, 0)
	if !d.Switch || d.Next == nil || d.Next.PID != 3 {
		t.Fatalf("want switch to pid 3, got %+v", d)
	}
}

func TestSimpleHaltsWhenNothingReady(t *testing.T) {
	tbl := process.NewTable(0)
	q := NewQueue()
	d := SimplePolicy{}.ChooseNext(tbl, q, nil, 0)
	if d.Next != nil {
		t.Fatalf("want nil next, got pid %d", d.Next.PID)
	}
}
