package vsok

import "github.com/so-sim/vsok/internal/constants"

// Re-exported so callers never need to import internal/constants directly.
const (
	TimerInterval = constants.TimerInterval
	Quantum       = constants.Quantum
	MaxProcs      = constants.MaxProcs
	PIDNone       = constants.PIDNone
	NumTerminals  = constants.NumTerminals
	InitPID       = constants.InitPID
)
