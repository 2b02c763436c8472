package vsok

import (
	"errors"

	"github.com/so-sim/vsok/internal/kernerr"
)

// Error is the structured error type every fatal kernel condition is
// reported as. It is a thin re-export of internal/kernerr.Error so
// that callers outside this module never need to import an internal
// package to use errors.As.
type Error = kernerr.Error

// ErrCode categorizes a fatal kernel condition.
type ErrCode = kernerr.Code

const (
	ErrCodeDeviceFault       = kernerr.CodeDeviceFault
	ErrCodeImageLoadBoot     = kernerr.CodeImageLoadBoot
	ErrCodeImageLoadSpawn    = kernerr.CodeImageLoadSpawn
	ErrCodeInvalidName       = kernerr.CodeInvalidName
	ErrCodeTableFull         = kernerr.CodeTableFull
	ErrCodeInvalidKillTarget = kernerr.CodeInvalidKillTarget
	ErrCodeUnknownIRQ        = kernerr.CodeUnknownIRQ
	ErrCodeUnknownSyscall    = kernerr.CodeUnknownSyscall
)

// IsCode reports whether err is a *Error with the given code.
func IsCode(err error, code ErrCode) bool {
	return kernerr.IsCode(err, code)
}

// As is a convenience wrapper over errors.As for *Error.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
