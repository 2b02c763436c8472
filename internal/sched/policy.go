package sched

import "github.com/so-sim/vsok/internal/process"

// Decision is what a Policy hands back to the kernel on every
// scheduling point: who runs next, whether that is a change from the
// previous current descriptor, and the quantum value to install.
type Decision struct {
	Switch     bool
	Next       *process.Descriptor
	NewQuantum int
}

// Policy chooses the next descriptor to run. Implementations are free
// to mutate the queue and the current descriptor's State/Priority/Metrics
// fields as part of deciding (re-enqueueing a preempted descriptor is
// itself part of the decision), but never touch any other descriptor.
type Policy interface {
	ChooseNext(table *process.Table, q *Queue, current *process.Descriptor, quantum int) Decision
}
