package dispatch

import (
	"github.com/so-sim/vsok/internal/device"
	"github.com/so-sim/vsok/internal/kernerr"
	"github.com/so-sim/vsok/internal/process"
	"github.com/so-sim/vsok/internal/trampoline"
)

// Reset loads the init image, installs it at slot 0, enqueues it
// (logically, even though it is about to become RUNNING — spec.md
// §4.3's documented exception to the usual ready-queue invariant),
// and returns it as the new current descriptor.
func (d *Dispatcher) Reset(initImage string) (*process.Descriptor, error) {
	loadAddr, _, err := d.Loader.Load(initImage)
	if err != nil {
		return nil, kernerr.Wrap("RESET", kernerr.CodeImageLoadBoot, err)
	}

	desc := &d.Table.Slots[0]
	pid := d.Table.AllocPID()
	*desc = process.Descriptor{
		PID:      pid,
		PC:       loadAddr,
		State:    process.Running,
		Mode:     process.ModeUser,
		Priority: 0.5,
	}
	desc.InDevice = device.DeviceForPID(pid)
	desc.OutDevice = desc.InDevice
	desc.Metrics.EntriesRunning++
	d.Queue.PushBack(desc)

	d.Logger.Infof("boot: init loaded pid=%d pc=%d device=%d", desc.PID, desc.PC, desc.InDevice)
	return desc, nil
}

// Timer acknowledges the timer interrupt and reprograms the countdown
// for the next tick. Quantum bookkeeping belongs to the caller (the
// root Kernel), since it is a property of the scheduling loop, not of
// the device.
func (d *Dispatcher) Timer(interval int) error {
	if err := d.Gateway.AckTimer(); err != nil {
		return kernerr.Wrap("TIMER", kernerr.CodeDeviceFault, err)
	}
	if err := d.Gateway.ProgramTimer(interval); err != nil {
		return kernerr.Wrap("TIMER", kernerr.CodeDeviceFault, err)
	}
	return nil
}

// Fault reads the CPU error code and either finalizes the faulting
// descriptor (FaultPolicyKillOffender) or reports a fatal error for
// the caller to halt on (FaultPolicyFatal).
func (d *Dispatcher) Fault(current *process.Descriptor) error {
	code, err := trampoline.FaultCode(d.Bus, d.Layout)
	if err != nil {
		return kernerr.Wrap("CPU_FAULT", kernerr.CodeDeviceFault, err)
	}

	if d.FaultPolicy == FaultPolicyKillOffender && current != nil {
		d.Logger.Warnf("cpu fault code=%d: finalizing pid=%d", code, current.PID)
		d.Queue.Remove(current)
		current.Transition(process.Finished)
		return nil
	}

	d.Logger.Errorf("cpu fault code=%d: halting kernel", code)
	return kernerr.New("CPU_FAULT", kernerr.CodeDeviceFault, "unrecoverable CPU fault")
}

// Unknown handles an interrupt kind the dispatcher does not
// recognize: always a fatal condition.
func (d *Dispatcher) Unknown(kind string) error {
	d.Logger.Errorf("unknown interrupt kind %q: halting kernel", kind)
	return kernerr.New("UNKNOWN_IRQ", kernerr.CodeUnknownIRQ, kind)
}
