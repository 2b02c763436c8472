package process

import "github.com/so-sim/vsok/internal/constants"

// Descriptor is a process control block. The process table owns the
// storage for every Descriptor; every other component (the ready
// queue, the scheduler, the dispatcher) holds a non-owning *Descriptor
// into that storage, never a copy.
type Descriptor struct {
	PID int

	PC    int
	RegA  int
	RegX  int
	Mode  Mode
	State State
	Block BlockReason

	OutDevice int
	InDevice  int

	// Priority is only meaningful under the priority-round-robin
	// policy; the other two policies leave it at its initial value.
	Priority float64

	Metrics Metrics
}

// reset restores a slot to its EMPTY state, ready for reuse by SPAWN
// or boot. PID is set to the PIDNone sentinel: callers assign a fresh
// pid only once they decide to actually populate the slot.
func (d *Descriptor) reset() {
	*d = Descriptor{
		PID:      constants.PIDNone,
		State:    Empty,
		Mode:     ModeUser,
		Priority: 0.5,
	}
}

// Transition moves the descriptor to a new state, bumping the
// corresponding entry counter. Every state change in the kernel goes
// through this method rather than a bare field assignment, so the
// per-process Metrics entry counts can never drift out of sync with
// State.
func (d *Descriptor) Transition(to State) {
	if d.State == to {
		return
	}
	switch to {
	case Ready:
		d.Metrics.EntriesReady++
	case Running:
		d.Metrics.EntriesRunning++
	case Blocked:
		d.Metrics.EntriesBlocked++
	}
	d.State = to
}

// IsBlockedOn reports whether the descriptor is blocked for the given
// reason shape, ignoring payload. Useful in the unblock walk, which
// only cares about the reason's kind until it decides to inspect it.
func (d *Descriptor) IsBlockedOn(reason BlockReason) bool {
	if d.State != Blocked {
		return false
	}
	switch reason.(type) {
	case Writing:
		_, ok := d.Block.(Writing)
		return ok
	case Reading:
		_, ok := d.Block.(Reading)
		return ok
	case WaitingPID:
		_, ok := d.Block.(WaitingPID)
		return ok
	}
	return false
}
