package vsok

import (
	"github.com/so-sim/vsok/internal/constants"
	"github.com/so-sim/vsok/internal/dispatch"
	"github.com/so-sim/vsok/internal/interfaces"
	"github.com/so-sim/vsok/internal/sched"
	"github.com/so-sim/vsok/internal/trampoline"
)

// Policy names one of the three selectable scheduling disciplines.
type Policy int

const (
	PolicySimple Policy = iota
	PolicyRoundRobin
	PolicyPriorityRR
)

// Config is the kernel's construction-time configuration, following
// the teacher's DeviceParams/DefaultParams pattern: every tunable is a
// struct field with a documented default, not a bare package constant,
// so a test can shorten the first quantum or swap the fault policy
// without touching production defaults.
type Config struct {
	// InitImage is the program image RESET loads at slot 0.
	InitImage string
	// InitPID is the first pid handed out, by RESET.
	InitPID int

	TimerInterval int
	// Quantum is the quantum installed at RESET. The round-robin and
	// priority policies install constants.Quantum on every later
	// switch and age priorities against constants.Quantum, so this
	// value does not apply beyond the first quantum.
	Quantum       int
	SpawnNameBufSize int

	SchedPolicy Policy
	FaultPolicy dispatch.FaultPolicy

	// Layout is the fixed memory-address table the trampoline uses.
	// It has no sane default: it depends on where the simulator
	// placed its save area, so the caller must supply it.
	Layout trampoline.Layout

	// ReportPath is where Shutdown writes the final metrics report.
	// Empty disables the report.
	ReportPath string

	Logger interfaces.Logger
}

// DefaultConfig returns the configuration spec.md documents: init.maq
// at pid 0, a 50-instruction timer interval, a 10-tick quantum, the
// SIMPLE policy, a fatal fault policy, and a 100-byte SPAWN name
// buffer. Layout is left zero-valued; callers must set it.
func DefaultConfig() Config {
	return Config{
		InitImage:        "init.maq",
		InitPID:          constants.InitPID,
		TimerInterval:    constants.TimerInterval,
		Quantum:          constants.Quantum,
		SpawnNameBufSize: 100,
		SchedPolicy:      PolicySimple,
		FaultPolicy:      dispatch.FaultPolicyFatal,
		ReportPath:       "metricas_processos.txt",
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.InitImage == "" {
		c.InitImage = d.InitImage
	}
	if c.TimerInterval == 0 {
		c.TimerInterval = d.TimerInterval
	}
	if c.Quantum == 0 {
		c.Quantum = d.Quantum
	}
	if c.SpawnNameBufSize == 0 {
		c.SpawnNameBufSize = d.SpawnNameBufSize
	}
	return c
}

func (c Config) policy() sched.Policy {
	switch c.SchedPolicy {
	case PolicyRoundRobin:
		return sched.RoundRobinPolicy{}
	case PolicyPriorityRR:
		return sched.PriorityRRPolicy{}
	default:
		return sched.SimplePolicy{}
	}
}
