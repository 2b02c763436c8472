package dispatch

import (
	"github.com/so-sim/vsok/internal/device"
	"github.com/so-sim/vsok/internal/kernerr"
	"github.com/so-sim/vsok/internal/process"
)

// SyscallID is the value the caller places in reg_a to name which of
// the five supervisor calls it wants.
type SyscallID int

const (
	SyscallRead SyscallID = iota
	SyscallWrite
	SyscallSpawn
	SyscallKill
	SyscallWait
)

// SupervisorCall dispatches the call named by current.RegA (the call
// id, per spec.md §4.6 read from the saved A register), using
// current.RegX as the argument (pid, address, or value).
func (d *Dispatcher) SupervisorCall(current *process.Descriptor) error {
	switch SyscallID(current.RegA) {
	case SyscallRead:
		return d.sysRead(current)
	case SyscallWrite:
		return d.sysWrite(current)
	case SyscallSpawn:
		return d.sysSpawn(current)
	case SyscallKill:
		return d.sysKill(current)
	case SyscallWait:
		return d.sysWait(current)
	default:
		d.Logger.Errorf("unknown supervisor call id=%d pid=%d", current.RegA, current.PID)
		return kernerr.WithPID("SUPERVISOR_CALL", kernerr.CodeUnknownSyscall, current.PID, "unrecognized call id")
	}
}

func (d *Dispatcher) sysRead(current *process.Descriptor) error {
	ready, err := d.Gateway.IsReady(current.InDevice, device.KeyboardReady)
	if err != nil {
		return kernerr.WithPID("READ", kernerr.CodeDeviceFault, current.PID, err.Error())
	}
	if !ready {
		current.Transition(process.Blocked)
		current.Block = process.Reading{}
		d.Queue.Remove(current)
		return nil
	}
	v, err := d.Gateway.ReadData(current.InDevice, device.KeyboardData)
	if err != nil {
		return kernerr.WithPID("READ", kernerr.CodeDeviceFault, current.PID, err.Error())
	}
	current.RegA = v
	return nil
}

func (d *Dispatcher) sysWrite(current *process.Descriptor) error {
	ready, err := d.Gateway.IsReady(current.OutDevice, device.ScreenReady)
	if err != nil {
		return kernerr.WithPID("WRITE", kernerr.CodeDeviceFault, current.PID, err.Error())
	}
	if !ready {
		current.Transition(process.Blocked)
		current.Block = process.Writing{}
		d.Queue.Remove(current)
		return nil
	}
	if err := d.Gateway.WriteData(current.OutDevice, device.ScreenData, current.RegX); err != nil {
		return kernerr.WithPID("WRITE", kernerr.CodeDeviceFault, current.PID, err.Error())
	}
	current.RegA = 0
	return nil
}

func (d *Dispatcher) sysSpawn(current *process.Descriptor) error {
	name, err := d.readImageName(current.RegX)
	if err != nil {
		current.RegA = -1
		d.Logger.Warnf("spawn: invalid name from pid=%d: %v", current.PID, err)
		return nil
	}

	slot := d.Table.AllocSlot()
	if slot == nil {
		current.RegA = -1
		d.Logger.Warnf("spawn: table full, rejecting pid=%d", current.PID)
		return nil
	}

	loadAddr, _, err := d.Loader.Load(name)
	if err != nil {
		current.RegA = -1
		d.Logger.Warnf("spawn: image load failed for %q: %v", name, err)
		return nil
	}

	pid := d.Table.AllocPID()
	*slot = process.Descriptor{
		PID:      pid,
		PC:       loadAddr,
		State:    process.Ready,
		Mode:     process.ModeUser,
		Priority: 0.5,
	}
	slot.InDevice = device.DeviceForPID(pid)
	slot.OutDevice = slot.InDevice
	slot.Metrics.EntriesReady++
	d.Queue.PushBack(slot)

	current.RegA = pid
	d.Logger.Infof("spawn: pid=%d image=%q from pid=%d", pid, name, current.PID)
	return nil
}

// readImageName copies at most NameBufSize-1 bytes of a NUL-terminated
// program name out of simulated memory, starting at addr.
func (d *Dispatcher) readImageName(addr int) (string, error) {
	buf := make([]byte, 0, d.NameBufSize)
	for i := 0; i < d.NameBufSize; i++ {
		v, err := d.Bus.ReadMem(addr + i)
		if err != nil {
			return "", err
		}
		if v == 0 {
			return string(buf), nil
		}
		if v < 0 || v > 255 {
			return "", kernerr.New("SPAWN", kernerr.CodeInvalidName, "non-byte value in name")
		}
		buf = append(buf, byte(v))
	}
	return "", kernerr.New("SPAWN", kernerr.CodeInvalidName, "missing NUL terminator")
}

func (d *Dispatcher) sysKill(current *process.Descriptor) error {
	if current.RegX == 0 {
		d.Queue.Remove(current)
		current.Transition(process.Finished)
		d.Logger.Infof("kill: pid=%d self-killed", current.PID)
		return nil
	}

	target := d.Table.FindByPID(current.RegX)
	if target == nil || target.State == process.Finished {
		current.RegA = -1
		return nil
	}
	d.Queue.Remove(target)
	target.Transition(process.Finished)
	current.RegA = 0
	d.Logger.Infof("kill: pid=%d killed by pid=%d", target.PID, current.PID)
	return nil
}

func (d *Dispatcher) sysWait(current *process.Descriptor) error {
	current.Transition(process.Blocked)
	current.Block = process.WaitingPID{PID: current.RegX}
	d.Queue.Remove(current)
	return nil
}
