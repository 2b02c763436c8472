// Package report writes the final metrics report a kernel emits on
// shutdown, grounded on the teacher's separation of the storage engine
// from the metrics engine as distinct packages (backend vs. metrics in
// the original).
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/so-sim/vsok/internal/interfaces"
	"github.com/so-sim/vsok/internal/process"
)

// Row is one line of the per-process report: a process's identity plus
// its final derived metrics.
type Row struct {
	PID              int
	EntriesReady     int
	EntriesRunning   int
	EntriesBlocked   int
	TimeReady        int
	TimeRunning      int
	TimeBlocked      int
	Turnaround       int
	MeanReadyLatency float64
	Preemptions      int
}

// Summary is the kernel-wide "GERAL" block printed ahead of the
// per-process tables: how many processes ever existed, the running and
// idle totals derived by summing the per-process table, total
// preemptions, and a count of every interrupt kind handled.
type Summary struct {
	ProcessesCreated int
	TotalRunning     uint64
	TotalIdle        uint64
	Preemptions      uint64
	Interrupts       map[string]uint64
}

// Rows builds one Row per non-empty descriptor in the table, sorted
// by pid for a deterministic report.
func Rows(table *process.Table) []Row {
	var rows []Row
	for _, d := range table.All() {
		if d.State == process.Empty {
			continue
		}
		rows = append(rows, Row{
			PID:              d.PID,
			EntriesReady:     d.Metrics.EntriesReady,
			EntriesRunning:   d.Metrics.EntriesRunning,
			EntriesBlocked:   d.Metrics.EntriesBlocked,
			TimeReady:        d.Metrics.TimeReady,
			TimeRunning:      d.Metrics.TimeRunning,
			TimeBlocked:      d.Metrics.TimeBlocked,
			Turnaround:       d.Metrics.Turnaround(),
			MeanReadyLatency: d.Metrics.MeanReadyLatency(),
			Preemptions:      d.Metrics.Preemptions,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].PID < rows[j].PID })
	return rows
}

// BuildSummary derives the GERAL block straight from the snapshot
// already computed by the kernel's own Metrics, plus a process count
// taken from the same rows the per-process tables render, so the
// summary and the tables can never disagree about which processes
// existed.
func BuildSummary(rows []Row, snap interfaces.Snapshot) Summary {
	return Summary{
		ProcessesCreated: len(rows),
		TotalRunning:     snap.TotalRunning,
		TotalIdle:        snap.TotalIdle,
		Preemptions:      snap.Preemptions,
		Interrupts:       snap.Interrupts,
	}
}

// Write renders the summary block followed by the two fixed-width
// per-process tables (time-in-state, then entry/preemption counts) the
// kernel's shutdown writes to ReportPath.
func Write(w io.Writer, summary Summary, rows []Row) error {
	if err := writeSummary(w, summary); err != nil {
		return err
	}
	if err := writeTimeTable(w, rows); err != nil {
		return err
	}
	return writeCountTable(w, rows)
}

func writeSummary(w io.Writer, s Summary) error {
	if _, err := fmt.Fprintf(w, "GERAL:\n"+
		"  processes_created : %d\n"+
		"  total_running     : %d\n"+
		"  total_idle        : %d\n"+
		"  preemptions       : %d\n",
		s.ProcessesCreated, s.TotalRunning, s.TotalIdle, s.Preemptions); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\nINTERRUPTS:\n"); err != nil {
		return err
	}
	for _, kind := range []string{"reset", "supervisor_call", "cpu_fault", "timer", "unknown"} {
		if _, err := fmt.Fprintf(w, "  %-16s: %d\n", kind, s.Interrupts[kind]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n")
	return err
}

func writeTimeTable(w io.Writer, rows []Row) error {
	if _, err := fmt.Fprintf(w, "%-6s %10s %10s %10s %12s %12s\n",
		"pid", "ready_t", "run_t", "block_t", "turnaround", "mean_ready"); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%-6d %10d %10d %10d %12d %12.2f\n",
			r.PID, r.TimeReady, r.TimeRunning, r.TimeBlocked, r.Turnaround, r.MeanReadyLatency); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n")
	return err
}

func writeCountTable(w io.Writer, rows []Row) error {
	if _, err := fmt.Fprintf(w, "%-6s %8s %8s %8s %10s\n",
		"pid", "ready#", "run#", "block#", "preempt"); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%-6d %8d %8d %8d %10d\n",
			r.PID, r.EntriesReady, r.EntriesRunning, r.EntriesBlocked, r.Preemptions); err != nil {
			return err
		}
	}
	return nil
}
