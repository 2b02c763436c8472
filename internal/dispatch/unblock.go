package dispatch

import (
	"github.com/so-sim/vsok/internal/device"
	"github.com/so-sim/vsok/internal/kernerr"
	"github.com/so-sim/vsok/internal/process"
)

// Unblock walks every BLOCKED descriptor and moves it to READY if its
// blocking condition has been satisfied. It is idempotent: re-running
// it with nothing changed leaves every descriptor exactly where it
// was, because each reason's condition is re-checked from the device
// or table state rather than cached.
func (d *Dispatcher) Unblock() error {
	for _, desc := range d.Table.All() {
		if desc.State != process.Blocked {
			continue
		}
		switch reason := desc.Block.(type) {
		case process.Writing:
			if err := d.unblockWriting(desc); err != nil {
				return err
			}
		case process.Reading:
			if err := d.unblockReading(desc); err != nil {
				return err
			}
		case process.WaitingPID:
			d.unblockWaitingPID(desc, reason.PID)
		}
	}
	return nil
}

func (d *Dispatcher) unblockWriting(desc *process.Descriptor) error {
	ready, err := d.Gateway.IsReady(desc.OutDevice, device.ScreenReady)
	if err != nil {
		return kernerr.WithPID("UNBLOCK_WRITING", kernerr.CodeDeviceFault, desc.PID, err.Error())
	}
	if !ready {
		return nil
	}
	if err := d.Gateway.WriteData(desc.OutDevice, device.ScreenData, desc.RegX); err != nil {
		return kernerr.WithPID("UNBLOCK_WRITING", kernerr.CodeDeviceFault, desc.PID, err.Error())
	}
	desc.RegA = 0
	desc.Transition(process.Ready)
	desc.Block = nil
	d.Queue.PushBack(desc)
	return nil
}

func (d *Dispatcher) unblockReading(desc *process.Descriptor) error {
	ready, err := d.Gateway.IsReady(desc.InDevice, device.KeyboardReady)
	if err != nil {
		return kernerr.WithPID("UNBLOCK_READING", kernerr.CodeDeviceFault, desc.PID, err.Error())
	}
	if !ready {
		return nil
	}
	v, err := d.Gateway.ReadData(desc.InDevice, device.KeyboardData)
	if err != nil {
		return kernerr.WithPID("UNBLOCK_READING", kernerr.CodeDeviceFault, desc.PID, err.Error())
	}
	desc.RegA = v
	desc.Transition(process.Ready)
	desc.Block = nil
	d.Queue.PushBack(desc)
	return nil
}

func (d *Dispatcher) unblockWaitingPID(desc *process.Descriptor, awaited int) {
	target := d.Table.FindByPID(awaited)
	if target == nil || target.State != process.Finished {
		return
	}
	desc.RegA = 0
	desc.Transition(process.Ready)
	desc.Block = nil
	d.Queue.PushBack(desc)
}
