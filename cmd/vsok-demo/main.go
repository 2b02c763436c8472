package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/so-sim/vsok"
	"github.com/so-sim/vsok/internal/hostio"
	"github.com/so-sim/vsok/internal/logging"
)

func main() {
	var (
		initImage = flag.String("init", "init.maq", "Init program image to load at boot")
		imageDir  = flag.String("image-dir", ".", "Directory to search for program images")
		policy    = flag.String("policy", "simple", "Scheduling policy: simple, rr, priority")
		quantum   = flag.Int("quantum", 10, "First scheduler quantum after boot, in timer ticks")
		timerHz   = flag.Int("timer-hz", 20, "Instruction clock rate, in ticks per second")
		report    = flag.String("report", "metricas_processos.txt", "Path to write the final metrics report to")
		verbose   = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	logConfig := logging.DefaultConfig()
	if *verbose {
		logConfig.Level = logging.LevelDebug
	}
	logger := logging.NewLogger(logConfig)
	logging.SetDefault(logger)

	bus := hostio.New(*timerHz)
	if err := bus.Start(); err != nil {
		log.Fatalf("failed to start terminal: %v", err)
	}
	defer bus.Close()

	loader := hostio.NewFileLoader(bus, 100, *imageDir)

	cfg := vsok.DefaultConfig()
	cfg.InitImage = *initImage
	cfg.Quantum = *quantum
	cfg.TimerInterval = 50
	cfg.ReportPath = *report
	cfg.Layout.PCAddr, cfg.Layout.ModeAddr, cfg.Layout.AAddr, cfg.Layout.XAddr, cfg.Layout.FaultCodeAddr = 0, 1, 2, 3, 4
	cfg.Logger = logger

	switch *policy {
	case "rr":
		cfg.SchedPolicy = vsok.PolicyRoundRobin
	case "priority":
		cfg.SchedPolicy = vsok.PolicyPriorityRR
	default:
		cfg.SchedPolicy = vsok.PolicySimple
	}

	k := vsok.New(bus, loader, consolePrintf{}, cfg)

	logger.Infof("booting with init=%q policy=%s quantum=%d", *initImage, *policy, *quantum)
	if code := k.Boot(); code != 0 {
		logger.Errorf("boot failed")
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(1000 / max1(*timerHz)) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			logger.Infof("received shutdown signal")
			k.Shutdown()
			printSnapshot(k)
			return
		case <-ticker.C:
			if k.Halted() {
				printSnapshot(k)
				return
			}
			k.HandleInterrupt(vsok.Timer)
		}
	}
}

func max1(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

func printSnapshot(k *vsok.Kernel) {
	snap := k.Metrics().Snapshot()
	fmt.Fprintf(os.Stderr, "\nvsok: %d dispatches, %d preemptions, %d processes booted, %d reaped\n",
		snap.Dispatches, snap.Preemptions, snap.ProcessesBooted, snap.ProcessesReaped)
}

type consolePrintf struct{}

func (consolePrintf) Printf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
