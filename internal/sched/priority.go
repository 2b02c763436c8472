package sched

import (
	"github.com/so-sim/vsok/internal/constants"
	"github.com/so-sim/vsok/internal/process"
)

// PriorityRRPolicy runs the lowest-numbered-priority ready descriptor
// first, ageing a descriptor's priority upward (numerically) each time
// it burns a full quantum, so CPU-bound processes drift toward the
// back of the queue over time.
type PriorityRRPolicy struct{}

var _ Policy = PriorityRRPolicy{}

func (PriorityRRPolicy) ChooseNext(table *process.Table, q *Queue, current *process.Descriptor, quantum int) Decision {
	stillRunnable := current != nil && current.State == process.Running
	if stillRunnable && quantum > 0 {
		return Decision{Next: current, NewQuantum: quantum}
	}
	if stillRunnable {
		tExec := float64(constants.Quantum - quantum)
		current.Priority = (current.Priority + tExec/float64(constants.Quantum)) / 2
		current.Transition(process.Ready)
		q.Remove(current) // reset's "enqueue logically" leaves a stale entry the first time through
		q.InsertByPriority(current)
	}
	next := q.PopFront()
	if next == nil {
		return Decision{Switch: current != nil, NewQuantum: 0}
	}
	if stillRunnable && next != current {
		current.Metrics.Preemptions++
	}
	newQuantum := quantum
	if next != current {
		newQuantum = constants.Quantum
	}
	return Decision{Switch: next != current, Next: next, NewQuantum: newQuantum}
}
