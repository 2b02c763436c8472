package sched

import (
	"github.com/so-sim/vsok/internal/constants"
	"github.com/so-sim/vsok/internal/process"
)

// RoundRobinPolicy runs ready descriptors FIFO, preempting the current
// one once its quantum is exhausted.
type RoundRobinPolicy struct{}

var _ Policy = RoundRobinPolicy{}

func (RoundRobinPolicy) ChooseNext(table *process.Table, q *Queue, current *process.Descriptor, quantum int) Decision {
	stillRunnable := current != nil && current.State == process.Running
	if stillRunnable && quantum > 0 {
		return Decision{Next: current, NewQuantum: quantum}
	}
	if stillRunnable {
		current.Transition(process.Ready)
		current.Metrics.Preemptions++
		q.Remove(current) // reset's "enqueue logically" leaves a stale entry the first time through
		q.PushBack(current)
	}
	next := q.PopFront()
	if next == nil {
		return Decision{Switch: current != nil, NewQuantum: 0}
	}
	return Decision{Switch: next != current, Next: next, NewQuantum: constants.Quantum}
}
