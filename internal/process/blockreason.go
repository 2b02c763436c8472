package process

// BlockReason is a closed tagged variant describing why a BLOCKED
// descriptor is blocked. A plain enum plus sidecar fields would let a
// WAITING_PID descriptor forget to carry a pid or a READING descriptor
// carry a stale one; modeling the reason as an interface makes the
// invalid states unrepresentable.
type BlockReason interface {
	blockReason()
}

// Writing means the descriptor is waiting for its output device to
// become ready to accept the next character.
type Writing struct{}

func (Writing) blockReason() {}

// Reading means the descriptor is waiting for its input device to
// produce the next character.
type Reading struct{}

func (Reading) blockReason() {}

// WaitingPID means the descriptor issued WAIT and is waiting for the
// child with this pid to reach FINISHED.
type WaitingPID struct {
	PID int
}

func (WaitingPID) blockReason() {}
