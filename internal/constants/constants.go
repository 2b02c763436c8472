package constants

// Kernel-wide tunables. Config in the root package takes its
// TimerInterval and Quantum defaults from here; Config.Quantum only
// sets the first quantum installed at RESET, since the scheduling
// policies install Quantum itself on every later switch. MaxProcs and
// NumTerminals are fixed.
const (
	// TimerInterval is the number of simulated instructions between
	// timer interrupts, reprogrammed into the timer device on every
	// timer IRQ and at boot.
	TimerInterval = 50

	// Quantum is the number of timer ticks a descriptor may run before
	// the round-robin and priority-round-robin policies consider it
	// for preemption.
	Quantum = 10

	// MaxProcs is the fixed capacity of the process table.
	MaxProcs = 10

	// PIDNone marks an unused process-table slot, and is the sentinel
	// "no pid" value. (KILL of the caller itself is requested with
	// reg_x = 0, not with PIDNone.)
	PIDNone = -1
)

// NumTerminals is the number of character terminals the device model
// exposes. A descriptor's input/output device id is pid mod NumTerminals.
const NumTerminals = 4

// InitPID is the pid assigned to the first process created on RESET.
const InitPID = 0
