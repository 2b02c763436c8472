package sched

import (
	"testing"

	"github.com/so-sim/vsok/internal/constants"
	"github.com/so-sim/vsok/internal/process"
)

func TestPriorityRRKeepsCurrentUntilQuantumExhausted(t *testing.T) {
	q := NewQueue()
	cur := &process.Descriptor{PID: 1, State: process.Running, Priority: 0.5}

	d := PriorityRRPolicy{}.ChooseNext(nil, q, cur, 4)
	if d.Switch || d.Next != cur || d.NewQuantum != 4 {
		t.Fatalf("want to keep running, got %+v", d)
	}
	if cur.Priority != 0.5 {
		t.Fatal("priority must not age while still within its quantum")
	}
}

// TestPriorityRRAgingAfterFullQuantum mirrors three same-priority
// descriptors where the running one burns a full quantum: it should
// age above the other two and they should run before it returns.
func TestPriorityRRAgingAfterFullQuantum(t *testing.T) {
	q := NewQueue()
	a := &process.Descriptor{PID: 1, State: process.Running, Priority: 0.5}
	b := &process.Descriptor{PID: 2, State: process.Ready, Priority: 0.5}
	c := &process.Descriptor{PID: 3, State: process.Ready, Priority: 0.5}
	q.PushBack(b)
	q.PushBack(c)

	d := PriorityRRPolicy{}.ChooseNext(nil, q, a, 0)
	if !d.Switch || d.Next != b {
		t.Fatalf("want switch to b (still at 0.5, inserted before a's aged value), got %+v", d)
	}

	wantPriority := (0.5 + float64(constants.Quantum)/float64(constants.Quantum)) / 2
	if a.Priority != wantPriority {
		t.Fatalf("want aged priority %v, got %v", wantPriority, a.Priority)
	}
	if a.Metrics.Preemptions != 1 {
		t.Fatalf("want a's preemption count incremented on an actual switch, got %d", a.Metrics.Preemptions)
	}

	order := q.Slice()
	if len(order) != 2 || order[0] != c || order[1] != a {
		pids := make([]int, len(order))
		for i, x := range order {
			pids[i] = x.PID
		}
		t.Fatalf("want [c, a] behind b which was dispatched, got pids %v", pids)
	}
}

// TestPriorityRRNoPreemptionWhenSoleReadyProcess covers the
// single-ready-process case: the descriptor whose quantum just expired
// is the only one in the queue, so it is popped right back as next.
// No actual switch happened, so the preemption counter must not move,
// even though priority still ages and the entry count still bumps.
func TestPriorityRRNoPreemptionWhenSoleReadyProcess(t *testing.T) {
	q := NewQueue()
	a := &process.Descriptor{PID: 1, State: process.Running, Priority: 0.5}

	d := PriorityRRPolicy{}.ChooseNext(nil, q, a, 0)
	if d.Switch || d.Next != a {
		t.Fatalf("want no switch, same descriptor back as next, got %+v", d)
	}
	if a.Metrics.Preemptions != 0 {
		t.Fatalf("want no preemption counted when next == current, got %d", a.Metrics.Preemptions)
	}
	wantPriority := (0.5 + float64(constants.Quantum)/float64(constants.Quantum)) / 2
	if a.Priority != wantPriority {
		t.Fatalf("want aged priority %v, got %v", wantPriority, a.Priority)
	}
}

func TestPriorityRRHaltsWhenQueueEmpty(t *testing.T) {
	q := NewQueue()
	d := PriorityRRPolicy{}.ChooseNext(nil, q, nil, 0)
	if d.Next != nil {
		t.Fatalf("want nil next, got pid %d", d.Next.PID)
	}
}
