// Package dispatch implements the IRQ handlers, the block/unblock
// engine, and the supervisor-call dispatcher: everything spec.md §4.3,
// §4.4, and §4.6 describe, gathered behind one Dispatcher so the root
// package's Kernel.enter can drive them in the fixed six-step order.
package dispatch

import (
	"github.com/so-sim/vsok/internal/device"
	"github.com/so-sim/vsok/internal/interfaces"
	"github.com/so-sim/vsok/internal/process"
	"github.com/so-sim/vsok/internal/sched"
	"github.com/so-sim/vsok/internal/trampoline"
)

// FaultPolicy selects how a CPU fault is handled.
type FaultPolicy int

const (
	// FaultPolicyFatal halts the whole kernel, matching the
	// documented historical behavior.
	FaultPolicyFatal FaultPolicy = iota
	// FaultPolicyKillOffender finalizes only the faulting descriptor
	// and lets the scheduler carry on.
	FaultPolicyKillOffender
)

// Dispatcher bundles non-owning references to everything the IRQ
// handlers, the supervisor-call dispatcher, and the unblock engine
// need. It owns no state of its own beyond these references.
type Dispatcher struct {
	Bus     interfaces.Bus
	Loader  interfaces.Loader
	Logger  interfaces.Logger
	Layout  trampoline.Layout
	Gateway *device.Gateway
	Table   *process.Table
	Queue   *sched.Queue

	FaultPolicy FaultPolicy

	// NameBufSize bounds the byte copy SPAWN performs when reading the
	// program name out of simulated memory (design note: resolves
	// spec.md's open question in favor of the destination buffer
	// size).
	NameBufSize int
}

// New returns a Dispatcher wired to the given collaborators, with the
// defaults spec.md documents (fatal fault policy, 100-byte name
// buffer).
func New(bus interfaces.Bus, loader interfaces.Loader, logger interfaces.Logger, layout trampoline.Layout, table *process.Table, queue *sched.Queue) *Dispatcher {
	return &Dispatcher{
		Bus:         bus,
		Loader:      loader,
		Logger:      logger,
		Layout:      layout,
		Gateway:     device.NewGateway(bus),
		Table:       table,
		Queue:       queue,
		FaultPolicy: FaultPolicyFatal,
		NameBufSize: 100,
	}
}
