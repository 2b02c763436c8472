package vsok

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/so-sim/vsok/internal/constants"
	"github.com/so-sim/vsok/internal/device"
	"github.com/so-sim/vsok/internal/dispatch"
	"github.com/so-sim/vsok/internal/process"
)

// newScenarioKernel is newTestKernel's sibling for the end-to-end
// scenarios below: it honors a caller-chosen ReportPath instead of
// always disabling the report.
func newScenarioKernel(t *testing.T, cfg Config, reportPath string) (*Kernel, *FakeBus, *FakeLoader, *FakeConsole) {
	t.Helper()
	bus := NewFakeBus()
	loader := NewFakeLoader()
	loader.Register("init.maq", 1000, 10)
	console := NewFakeConsole()
	cfg.Layout.PCAddr, cfg.Layout.ModeAddr, cfg.Layout.AAddr, cfg.Layout.XAddr, cfg.Layout.FaultCodeAddr = 0, 1, 2, 3, 4
	cfg.ReportPath = reportPath
	k := New(bus, loader, console, cfg)
	return k, bus, loader, console
}

func supervisorCall(k *Kernel, bus *FakeBus, id dispatch.SyscallID, regX int) int {
	bus.mem[k.layout.AAddr] = int(id)
	bus.mem[k.layout.XAddr] = regX
	return k.HandleInterrupt(SupervisorCall)
}

func devicePort(deviceID int, role device.Role) int {
	const portsPerTerminal = 4
	return deviceID*portsPerTerminal + int(role)
}

// TestScenario_BootAndHalt reproduces spec.md §8 S1: init self-kills
// immediately, the kernel has nothing left to run, and the final
// report accounts for the one process that ever existed.
func TestScenario_BootAndHalt(t *testing.T) {
	reportPath := filepath.Join(t.TempDir(), "metrics.txt")
	k, bus, _, _ := newScenarioKernel(t, DefaultConfig(), reportPath)

	require.Equal(t, 0, k.Boot())
	init := k.Current()
	require.NotNil(t, init)
	assert.Equal(t, 0, init.PID)
	assert.Equal(t, process.Running, init.State)

	bus.SetPort(device.ClockTicksPort, 20)

	code := supervisorCall(k, bus, dispatch.SyscallKill, 0)
	assert.Equal(t, 1, code)
	assert.True(t, k.Halted())
	assert.False(t, k.InternalError())

	snap := k.Metrics().Snapshot()
	assert.EqualValues(t, 1, snap.ProcessesBooted)
	assert.EqualValues(t, 1, snap.ProcessesReaped)
	assert.EqualValues(t, 20, snap.TotalRunning)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "GERAL:")
	assert.Contains(t, out, "processes_created : 1")
	assert.Contains(t, out, "total_running     : 20")
}

// TestScenario_WriteContention reproduces S2: init writes to terminal
// 0, spawns a child forced onto the same terminal, self-kills to hand
// the CPU over, and the child writes too. Output order must match
// dispatch order and both calls must report success.
func TestScenario_WriteContention(t *testing.T) {
	cfg := DefaultConfig()
	k, bus, loader, _ := newScenarioKernel(t, cfg, "")
	loader.Register("child.maq", 2000, 5)

	require.Equal(t, 0, k.Boot())
	init := k.Current()

	readyPort := devicePort(0, device.ScreenReady)
	dataPort := devicePort(0, device.ScreenData)
	bus.SetPort(readyPort, 1)

	code := supervisorCall(k, bus, dispatch.SyscallWrite, 65)
	require.Equal(t, 0, code)
	assert.Equal(t, 0, init.RegA)

	spawnChild(t, k, bus, "child.maq")
	child := k.Table().FindByPID(1)
	require.NotNil(t, child)
	child.OutDevice = 0 // force contention onto init's terminal

	code = supervisorCall(k, bus, dispatch.SyscallKill, 0)
	require.Equal(t, 0, code)
	require.Equal(t, child, k.Current())

	code = supervisorCall(k, bus, dispatch.SyscallWrite, 66)
	require.Equal(t, 0, code)
	assert.Equal(t, 0, child.RegA)

	var order []int
	for _, w := range bus.PortWrites() {
		if w.Port == dataPort {
			order = append(order, w.Value)
		}
	}
	assert.Equal(t, []int{65, 66}, order)
}

// TestScenario_WaitForChild reproduces S3: init spawns a child, waits
// for it, the child writes a few times and self-kills, and init
// resumes with reg_a = 0 once the block/unblock walk observes the
// child finalized.
func TestScenario_WaitForChild(t *testing.T) {
	cfg := DefaultConfig()
	k, bus, loader, _ := newScenarioKernel(t, cfg, "")
	loader.Register("child.maq", 2000, 5)

	require.Equal(t, 0, k.Boot())
	init := k.Current()

	spawnChild(t, k, bus, "child.maq")
	child := k.Table().FindByPID(1)
	require.NotNil(t, child)
	require.Equal(t, process.Ready, child.State)

	code := supervisorCall(k, bus, dispatch.SyscallWait, child.PID)
	require.Equal(t, 0, code)
	require.Equal(t, child, k.Current())
	assert.Equal(t, process.Blocked, init.State)

	readyPort := devicePort(child.OutDevice, device.ScreenReady)
	bus.SetPort(readyPort, 1)
	for i := 0; i < 5; i++ {
		code = supervisorCall(k, bus, dispatch.SyscallWrite, 70+i)
		require.Equal(t, 0, code)
		require.Equal(t, 0, child.RegA)
	}

	code = supervisorCall(k, bus, dispatch.SyscallKill, 0)
	require.Equal(t, 0, code)

	// The KILL entry's own block/unblock walk (step d, after the
	// supervisor call) already readied init; one more entry checks
	// that init is running and stays current.
	k.HandleInterrupt(Timer)

	assert.Equal(t, init, k.Current())
	assert.Equal(t, process.Running, init.State)
	assert.Equal(t, 0, init.RegA)
}

// TestScenario_PriorityAgeing reproduces S4: three equal-priority,
// CPU-bound processes under PRIORITY_RR. Each one that burns a full
// quantum ages from 0.5 to 0.75 and cycles to the back of the queue,
// so the dispatch order is A, B, C, A.
func TestScenario_PriorityAgeing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SchedPolicy = PolicyPriorityRR
	k, bus, loader, _ := newScenarioKernel(t, cfg, "")
	loader.Register("b.maq", 2000, 5)
	loader.Register("c.maq", 3000, 5)

	require.Equal(t, 0, k.Boot())
	a := k.Current()
	require.Equal(t, 0, a.PID)
	assert.Equal(t, 0.5, a.Priority)

	spawnChildNamed(t, k, bus, "b.maq", 5000)
	spawnChildNamed(t, k, bus, "c.maq", 5100)
	b := k.Table().FindByPID(1)
	c := k.Table().FindByPID(2)
	require.NotNil(t, b)
	require.NotNil(t, c)

	runQuantum := func() {
		for i := 0; i < constants.Quantum; i++ {
			k.HandleInterrupt(Timer)
		}
	}

	runQuantum()
	assert.Equal(t, b, k.Current())
	assert.Equal(t, 0.75, a.Priority)

	runQuantum()
	assert.Equal(t, c, k.Current())
	assert.Equal(t, 0.75, b.Priority)

	runQuantum()
	assert.Equal(t, a, k.Current())
	assert.Equal(t, 0.75, c.Priority)
}

// TestScenario_BlockedReadBecomesReady reproduces S5: a READ against a
// not-yet-ready keyboard blocks the only process in the table; the
// kernel idles with nothing to dispatch until a timer tick's
// block/unblock walk finds the keyboard ready and resumes it.
func TestScenario_BlockedReadBecomesReady(t *testing.T) {
	k, bus, _, _ := newScenarioKernel(t, DefaultConfig(), "")
	require.Equal(t, 0, k.Boot())
	p := k.Current()

	code := supervisorCall(k, bus, dispatch.SyscallRead, 0)
	require.Equal(t, 0, code)
	assert.Equal(t, process.Blocked, p.State)
	assert.Nil(t, k.Current())

	keyDataPort := devicePort(p.InDevice, device.KeyboardData)
	keyReadyPort := devicePort(p.InDevice, device.KeyboardReady)
	bus.SetPort(keyDataPort, 7)
	bus.SetPort(keyReadyPort, 1)

	code = k.HandleInterrupt(Timer)
	assert.Equal(t, 0, code)
	assert.Equal(t, p, k.Current())
	assert.Equal(t, process.Running, p.State)
	assert.Equal(t, 7, p.RegA)
}

// TestScenario_KillUnknown reproduces S6: KILL of a nonexistent pid
// reports failure in reg_a without disturbing the caller.
func TestScenario_KillUnknown(t *testing.T) {
	k, bus, _, _ := newScenarioKernel(t, DefaultConfig(), "")
	require.Equal(t, 0, k.Boot())
	init := k.Current()

	code := supervisorCall(k, bus, dispatch.SyscallKill, 9999)
	assert.Equal(t, 0, code)
	assert.Equal(t, init, k.Current())
	assert.Equal(t, process.Running, init.State)
	assert.Equal(t, -1, init.RegA)
}

// spawnChildNamed mirrors spawnChild but lets a caller place each
// child's name at a distinct memory address, needed when more than one
// process is spawned in the same test.
func spawnChildNamed(t *testing.T, k *Kernel, bus *FakeBus, name string, addr int) {
	t.Helper()
	for i, ch := range []byte(name) {
		bus.mem[addr+i] = int(ch)
	}
	bus.mem[addr+len(name)] = 0
	bus.mem[k.layout.AAddr] = int(dispatch.SyscallSpawn)
	bus.mem[k.layout.XAddr] = addr
	k.HandleInterrupt(SupervisorCall)
}
