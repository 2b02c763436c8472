package sched

import "github.com/so-sim/vsok/internal/process"

// SimplePolicy keeps the current descriptor running until it leaves
// RUNNING on its own (blocks, finishes, or is killed); it never
// preempts on a timer. When a new descriptor must be chosen, it scans
// the process table in slot order and takes the first READY one,
// ignoring the queue entirely.
type SimplePolicy struct{}

var _ Policy = SimplePolicy{}

func (SimplePolicy) ChooseNext(table *process.Table, q *Queue, current *process.Descriptor, quantum int) Decision {
	if current != nil && current.State == process.Running {
		return Decision{Next: current, NewQuantum: quantum}
	}
	next := table.FirstReady()
	if next == nil {
		return Decision{Switch: current != nil, NewQuantum: 0}
	}
	return Decision{Switch: true, Next: next, NewQuantum: quantum}
}
