package vsok

import (
	"os"

	"github.com/so-sim/vsok/internal/process"
	"github.com/so-sim/vsok/internal/report"
)

// Shutdown disarms the timer, writes the final metrics report (if
// ReportPath is set), and marks the kernel halted. It is invoked
// automatically when enter() finds no RUNNING, READY or BLOCKED
// descriptor left, but is also
// exported so a caller can force a halt (e.g. on a signal).
func (k *Kernel) Shutdown() int {
	if k.halted {
		return 1
	}

	if err := k.disp.Gateway.DisarmTimer(); err != nil {
		k.logger.Warnf("shutdown: failed to disarm timer: %v", err)
	}

	k.metrics.finalizeAggregates(k.table)

	if k.cfg.ReportPath != "" {
		if err := k.writeReport(k.cfg.ReportPath); err != nil {
			k.logger.Errorf("shutdown: failed to write report: %v", err)
		}
	}

	// Slots are reaped only after the report has been rendered, so a
	// finished process still appears in its own metrics rows.
	for _, d := range k.table.All() {
		if d.State != process.Finished {
			continue
		}
		k.table.Reap(d)
		k.metrics.observeReap()
	}

	k.halted = true
	if k.console != nil {
		k.console.Printf("vsok: halted, %d instructions elapsed", k.lastTick)
	}
	k.logger.Infof("kernel halted after %d instructions", k.lastTick)

	if k.observer != nil {
		k.observer.ObserveShutdown(k.metrics.Snapshot())
	}
	return 1
}

// Halted reports whether the kernel has shut down, whether cleanly or
// on a fatal error.
func (k *Kernel) Halted() bool { return k.halted }

// InternalError reports whether the halt was caused by a fatal
// internal error rather than an ordinary empty-table shutdown.
func (k *Kernel) InternalError() bool { return k.internalError }

func (k *Kernel) writeReport(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	rows := report.Rows(k.table)
	summary := report.BuildSummary(rows, k.metrics.Snapshot())
	return report.Write(f, summary, rows)
}
