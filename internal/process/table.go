package process

import "github.com/so-sim/vsok/internal/constants"

// Table is the fixed-size process table. It is a plain array, not a
// map: several operations (SPAWN's "first empty slot", SIMPLE's "first
// ready in table order") are specified in terms of a stable scan
// order, which a map cannot give us.
type Table struct {
	Slots   [constants.MaxProcs]Descriptor
	nextPID int
}

// NewTable returns a Table with every slot EMPTY and the pid counter
// starting at startPID.
func NewTable(startPID int) *Table {
	t := &Table{nextPID: startPID}
	for i := range t.Slots {
		t.Slots[i].reset()
	}
	return t
}

// AllocPID hands out the next pid and never reuses one, so a stale
// WaitingPID or a lingering log line can never refer to the wrong
// process.
func (t *Table) AllocPID() int {
	pid := t.nextPID
	t.nextPID++
	return pid
}

// AllocSlot returns the first EMPTY slot, or nil if the table is full.
func (t *Table) AllocSlot() *Descriptor {
	for i := range t.Slots {
		if t.Slots[i].State == Empty {
			return &t.Slots[i]
		}
	}
	return nil
}

// FindByPID returns the descriptor with the given pid, or nil.
func (t *Table) FindByPID(pid int) *Descriptor {
	for i := range t.Slots {
		if t.Slots[i].State != Empty && t.Slots[i].PID == pid {
			return &t.Slots[i]
		}
	}
	return nil
}

// FirstReady returns the first READY descriptor in slot order, or nil.
// This is the scan SIMPLE uses; it is exposed here rather than in the
// scheduler package because the ordering it depends on is a property
// of the table's storage, not of any queue.
func (t *Table) FirstReady() *Descriptor {
	for i := range t.Slots {
		if t.Slots[i].State == Ready {
			return &t.Slots[i]
		}
	}
	return nil
}

// HasActive reports whether any descriptor is RUNNING, READY, or
// BLOCKED. Once this is false the kernel has nothing left to dispatch
// and shuts down.
func (t *Table) HasActive() bool {
	for i := range t.Slots {
		switch t.Slots[i].State {
		case Running, Ready, Blocked:
			return true
		}
	}
	return false
}

// Reap clears a FINISHED descriptor's slot back to EMPTY, freeing it
// for a future SPAWN. It is a no-op if the descriptor is not FINISHED.
func (t *Table) Reap(d *Descriptor) {
	if d.State != Finished {
		return
	}
	d.reset()
}

// Release immediately frees a slot regardless of state. KILL does not
// use it: a killed descriptor stays FINISHED until Reap.
func (t *Table) Release(d *Descriptor) {
	d.reset()
}

// All returns a pointer to every slot, empty or not, in table order.
func (t *Table) All() []*Descriptor {
	out := make([]*Descriptor, 0, len(t.Slots))
	for i := range t.Slots {
		out = append(out, &t.Slots[i])
	}
	return out
}
