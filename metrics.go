package vsok

import (
	"sync/atomic"

	"github.com/so-sim/vsok/internal/interfaces"
	"github.com/so-sim/vsok/internal/process"
)

// Metrics accumulates kernel-wide counters. Every field is an atomic
// counter, exactly as the teacher's io_uring metrics are, even though
// the kernel itself is single-threaded and non-reentrant (HandleInterrupt
// is never called concurrently). The demo CLI reads its Snapshot from
// the same select loop that drives the kernel; the atomics keep
// Snapshot safe to call from another goroutine as well.
type Metrics struct {
	resetCount   atomic.Uint64
	syscallCount atomic.Uint64
	faultCount   atomic.Uint64
	timerCount   atomic.Uint64
	unknownCount atomic.Uint64

	preemptions atomic.Uint64
	dispatches  atomic.Uint64

	elapsedInstr atomic.Uint64

	processesBooted atomic.Uint64
	processesReaped atomic.Uint64

	totalRunning atomic.Uint64
	totalIdle    atomic.Uint64
}

func (m *Metrics) observeInterrupt(kind InterruptKind, elapsed uint64) {
	switch kind {
	case Reset:
		m.resetCount.Add(1)
	case SupervisorCall:
		m.syscallCount.Add(1)
	case CPUFault:
		m.faultCount.Add(1)
	case Timer:
		m.timerCount.Add(1)
	default:
		m.unknownCount.Add(1)
	}
	m.elapsedInstr.Add(elapsed)
}

func (m *Metrics) observePreemption() { m.preemptions.Add(1) }
func (m *Metrics) observeDispatch()   { m.dispatches.Add(1) }
func (m *Metrics) observeBoot()       { m.processesBooted.Add(1) }
func (m *Metrics) observeReap()       { m.processesReaped.Add(1) }

// finalizeAggregates derives the kernel-wide running/idle totals by
// summing every descriptor's own time buckets, the same way the
// original so_imprime_metricas/calcula_metricas_final pair builds its
// "GERAL" block from the per-process table at shutdown rather than
// tracking system-wide totals incrementally.
func (m *Metrics) finalizeAggregates(table *process.Table) {
	var running, idle uint64
	for _, d := range table.All() {
		if d.State == process.Empty {
			continue
		}
		running += uint64(d.Metrics.TimeRunning)
		idle += uint64(d.Metrics.TimeBlocked)
	}
	m.totalRunning.Store(running)
	m.totalIdle.Store(idle)
}

// Snapshot returns a point-in-time, safe-to-read-concurrently copy of
// the kernel's metrics.
func (m *Metrics) Snapshot() interfaces.Snapshot {
	return interfaces.Snapshot{
		Interrupts: map[string]uint64{
			"reset":           m.resetCount.Load(),
			"supervisor_call": m.syscallCount.Load(),
			"cpu_fault":       m.faultCount.Load(),
			"timer":           m.timerCount.Load(),
			"unknown":         m.unknownCount.Load(),
		},
		Preemptions:     m.preemptions.Load(),
		Dispatches:      m.dispatches.Load(),
		ElapsedInstr:    m.elapsedInstr.Load(),
		ProcessesBooted: m.processesBooted.Load(),
		ProcessesReaped: m.processesReaped.Load(),
		TotalRunning:    m.totalRunning.Load(),
		TotalIdle:       m.totalIdle.Load(),
	}
}
