// Package interfaces provides internal interface definitions for vsok.
// These are separate from the public interfaces to avoid circular imports
// between the root package and internal packages.
package interfaces

// Bus is the memory-mapped system bus the kernel drives: CPU context
// lives at fixed addresses, devices live at fixed port numbers. A real
// implementation wraps whatever simulates the CPU; Bus itself is an
// external collaborator the kernel never constructs.
type Bus interface {
	ReadMem(addr int) (int, error)
	WriteMem(addr int, value int) error
	ReadPort(port int) (int, error)
	WritePort(port int, value int) error
}

// Loader resolves a program image name to the address range it was
// placed at, for use by the SPAWN supervisor call and by boot.
type Loader interface {
	Load(image string) (loadAddr int, length int, err error)
}

// Console is the operator-facing output surface used for diagnostics
// that are not part of any process's terminal (e.g. boot/shutdown
// banners, fatal fault reports).
type Console interface {
	Printf(format string, args ...interface{})
}

// Logger is the structured logger used throughout the kernel.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Observer receives kernel-level metrics events. Implementations must
// be safe to call from HandleInterrupt.
type Observer interface {
	ObserveInterrupt(kind string, elapsedInstr uint64)
	ObservePreemption(pid int)
	ObserveDispatch(pid int)
	ObserveShutdown(finalMetrics Snapshot)
}

// Snapshot is a point-in-time, read-only copy of kernel metrics. It is
// defined here (rather than in the root package) so Observer can refer
// to it without the root package importing interfaces for anything but
// these declarations.
type Snapshot struct {
	Interrupts       map[string]uint64
	Preemptions      uint64
	Dispatches       uint64
	ElapsedInstr     uint64
	ProcessesBooted  uint64
	ProcessesReaped  uint64
	TotalRunning     uint64
	TotalIdle        uint64
}
