// Package vsok implements the interrupt-driven process subsystem of a
// kernel running atop a simulated computer: the process table, the
// ready queue, the block/unblock engine, the pluggable scheduler, the
// five supervisor calls, and the context save/restore handshake with
// the trampoline. The CPU/bus simulator, program loader, and console
// are external collaborators reached only through the interfaces in
// internal/interfaces.
package vsok

import (
	"github.com/so-sim/vsok/internal/dispatch"
	"github.com/so-sim/vsok/internal/interfaces"
	"github.com/so-sim/vsok/internal/logging"
	"github.com/so-sim/vsok/internal/process"
	"github.com/so-sim/vsok/internal/sched"
	"github.com/so-sim/vsok/internal/trampoline"
)

// InterruptKind names the four interrupt kinds the trampoline can
// vector to the kernel, plus Unknown for anything else.
type InterruptKind int

const (
	Reset InterruptKind = iota
	SupervisorCall
	CPUFault
	Timer
	Unknown
)

func (k InterruptKind) String() string {
	switch k {
	case Reset:
		return "reset"
	case SupervisorCall:
		return "supervisor_call"
	case CPUFault:
		return "cpu_fault"
	case Timer:
		return "timer"
	default:
		return "unknown"
	}
}

// Kernel is the single entry point a trampoline implementation drives.
// Its exported methods are not safe for concurrent invocation from
// more than one goroutine: the contract is that only the simulator's
// single callback thread calls HandleInterrupt, mirroring the
// teacher's single-queue-thread requirement for its io_uring runner.
type Kernel struct {
	cfg Config

	bus     interfaces.Bus
	loader  interfaces.Loader
	console interfaces.Console
	logger  interfaces.Logger
	layout  trampoline.Layout

	table  *process.Table
	queue  *sched.Queue
	policy sched.Policy
	disp   *dispatch.Dispatcher

	current  *process.Descriptor
	quantum  int
	lastTick int

	metrics  Metrics
	observer interfaces.Observer

	halted        bool
	internalError bool
}

// New constructs a Kernel. It does not boot: a RESET interrupt must be
// delivered through HandleInterrupt before anything else runs.
func New(bus interfaces.Bus, loader interfaces.Loader, console interfaces.Console, cfg Config) *Kernel {
	cfg = cfg.withDefaults()

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewLogger(logging.DefaultConfig())
	}

	table := process.NewTable(cfg.InitPID)
	queue := sched.NewQueue()
	disp := dispatch.New(bus, loader, logger, cfg.Layout, table, queue)
	disp.FaultPolicy = cfg.FaultPolicy
	disp.NameBufSize = cfg.SpawnNameBufSize

	return &Kernel{
		cfg:     cfg,
		bus:     bus,
		loader:  loader,
		console: console,
		logger:  logger,
		layout:  cfg.Layout,
		table:   table,
		queue:   queue,
		policy:  cfg.policy(),
		disp:    disp,
		quantum: cfg.Quantum,
	}
}

// SetObserver installs an optional external metrics observer,
// notified in addition to the kernel's own Metrics.
func (k *Kernel) SetObserver(o interfaces.Observer) {
	k.observer = o
}

// Metrics returns the kernel's own metrics collector.
func (k *Kernel) Metrics() *Metrics { return &k.metrics }

// Current returns the descriptor presently selected to run, or nil if
// the kernel has not booted, every active descriptor is blocked, or
// it has halted with nothing runnable.
func (k *Kernel) Current() *process.Descriptor { return k.current }

// Table exposes the process table for inspection (metrics reporting,
// tests). It is not safe to mutate from outside the kernel.
func (k *Kernel) Table() *process.Table { return k.table }

// HandleInterrupt is the single function a trampoline registers with
// the simulator. It enforces the fixed six-step ordering of every
// kernel entry and returns 1 if the machine should halt, 0 otherwise
// (a descriptor will resume, or every active descriptor is blocked and
// the kernel waits for the next interrupt).
func (k *Kernel) HandleInterrupt(kind InterruptKind) int {
	if k.halted {
		return 1
	}
	return k.enter(kind)
}

func (k *Kernel) enter(kind InterruptKind) int {
	// (a) metrics + elapsed-time accounting
	elapsed := k.accumulateElapsed()
	k.metrics.observeInterrupt(kind, elapsed)
	if k.observer != nil {
		k.observer.ObserveInterrupt(kind.String(), uint64(elapsed))
	}

	// (b) context save
	if err := trampoline.Save(k.bus, k.layout, k.current); err != nil {
		return k.fatal(err)
	}

	// (c) dispatch on interrupt kind
	var err error
	switch kind {
	case Reset:
		k.current, err = k.disp.Reset(k.cfg.InitImage)
		if err == nil {
			k.quantum = k.cfg.Quantum
			k.metrics.observeBoot()
			if tErr := k.disp.Gateway.ProgramTimer(k.cfg.TimerInterval); tErr != nil {
				err = tErr
			}
		}
	case SupervisorCall:
		err = k.disp.SupervisorCall(k.current)
		if err == nil && k.current != nil && k.current.State == process.Finished {
			// A self-KILL finalized the caller: it is no longer current.
			k.current = nil
		}
	case CPUFault:
		err = k.disp.Fault(k.current)
		if err == nil && k.disp.FaultPolicy == dispatch.FaultPolicyKillOffender {
			k.current = nil
		}
	case Timer:
		err = k.disp.Timer(k.cfg.TimerInterval)
		if err == nil {
			k.quantum--
		}
	default:
		err = k.disp.Unknown(kind.String())
	}
	if err != nil {
		return k.fatal(err)
	}

	// (d) block/unblock walk
	if err := k.disp.Unblock(); err != nil {
		return k.fatal(err)
	}

	// (e) scheduler
	k.schedule()

	// (f) dispatch or halt
	if !k.table.HasActive() {
		return k.Shutdown()
	}
	if k.current == nil {
		// Every active descriptor is BLOCKED: there is nothing to
		// dispatch this entry, but the table isn't empty either, so we
		// resume and wait for whichever interrupt clears a block.
		k.logger.Debugf("no process available to dispatch, waiting for interrupts")
		return 0
	}
	if err := trampoline.Dispatch(k.bus, k.layout, k.current); err != nil {
		return k.fatal(err)
	}
	k.metrics.observeDispatch()
	if k.observer != nil {
		k.observer.ObserveDispatch(k.current.PID)
	}
	return 0
}

func (k *Kernel) schedule() {
	d := k.policy.ChooseNext(k.table, k.queue, k.current, k.quantum)
	if d.Switch {
		k.metrics.observePreemption()
		if k.observer != nil {
			pid := -1
			if k.current != nil {
				pid = k.current.PID
			}
			k.observer.ObservePreemption(pid)
		}
	}
	k.quantum = d.NewQuantum
	k.current = d.Next
}

// accumulateElapsed reads the instruction clock and attributes the
// ticks since the last entry to whatever state each descriptor was in
// at the start of this interrupt, before any transitions happen.
func (k *Kernel) accumulateElapsed() uint64 {
	ticks, err := k.disp.Gateway.ReadClockTicks()
	if err != nil {
		return 0
	}
	elapsed := ticks - k.lastTick
	k.lastTick = ticks
	if elapsed < 0 {
		elapsed = 0
	}
	for _, d := range k.table.All() {
		switch d.State {
		case process.Running:
			d.Metrics.TimeRunning += elapsed
		case process.Ready:
			d.Metrics.TimeReady += elapsed
		case process.Blocked:
			d.Metrics.TimeBlocked += elapsed
		}
	}
	return uint64(elapsed)
}

func (k *Kernel) fatal(err error) int {
	k.internalError = true
	k.halted = true
	k.logger.Errorf("fatal kernel error: %v", err)
	if k.console != nil {
		k.console.Printf("vsok: halted on fatal error: %v", err)
	}
	return 1
}
