// Package trampoline implements the fixed-address context save/restore
// handshake between the kernel and the simulated CPU: the same role
// the assembly trampoline plays in spec.md §6, expressed as reads and
// writes through the Bus interface.
package trampoline

import (
	"errors"

	"github.com/so-sim/vsok/internal/interfaces"
	"github.com/so-sim/vsok/internal/process"
)

// Layout is the table of fixed memory addresses the save area
// occupies. The simulator owns the actual addresses; the kernel only
// ever reads or writes through them.
type Layout struct {
	PCAddr        int
	ModeAddr      int
	AAddr         int
	XAddr         int
	FaultCodeAddr int
}

// ErrNoDescriptor is returned by Dispatch when asked to install a nil
// descriptor; the caller should have already decided not to dispatch.
var ErrNoDescriptor = errors.New("trampoline: dispatch requested with no descriptor selected")

// Save copies the CPU's current register file into current, the
// descriptor that was RUNNING before this interrupt. It is a no-op if
// current is nil (nothing was running, e.g. at boot).
func Save(bus interfaces.Bus, layout Layout, current *process.Descriptor) error {
	if current == nil || current.State != process.Running {
		return nil
	}
	pc, err := bus.ReadMem(layout.PCAddr)
	if err != nil {
		return err
	}
	mode, err := bus.ReadMem(layout.ModeAddr)
	if err != nil {
		return err
	}
	a, err := bus.ReadMem(layout.AAddr)
	if err != nil {
		return err
	}
	x, err := bus.ReadMem(layout.XAddr)
	if err != nil {
		return err
	}
	current.PC = pc
	current.Mode = process.Mode(mode)
	current.RegA = a
	current.RegX = x
	return nil
}

// Dispatch writes next's saved register file back onto the CPU and
// transitions it to RUNNING. It is the mirror image of Save, and the
// save-then-dispatch round trip on the same descriptor without any
// intervening execution must be a no-op on its fields.
func Dispatch(bus interfaces.Bus, layout Layout, next *process.Descriptor) error {
	if next == nil {
		return ErrNoDescriptor
	}
	if err := bus.WriteMem(layout.PCAddr, next.PC); err != nil {
		return err
	}
	if err := bus.WriteMem(layout.ModeAddr, int(next.Mode)); err != nil {
		return err
	}
	if err := bus.WriteMem(layout.AAddr, next.RegA); err != nil {
		return err
	}
	if err := bus.WriteMem(layout.XAddr, next.RegX); err != nil {
		return err
	}
	next.Transition(process.Running)
	return nil
}

// FaultCode reads the CPU-error-code slot. The CPU-fault IRQ handler
// logs it; whether the fault is survivable is decided by the fault
// policy, not by the code.
func FaultCode(bus interfaces.Bus, layout Layout) (int, error) {
	return bus.ReadMem(layout.FaultCodeAddr)
}
