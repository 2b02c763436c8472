// Package kernerr defines the structured error type shared by the
// root package and internal/dispatch. It lives in its own package so
// that internal/dispatch can return these errors without importing
// the root package (which imports internal/dispatch).
package kernerr

import (
	"errors"
	"fmt"
)

// Code is a high-level error category, one per bullet of the error
// taxonomy.
type Code string

const (
	CodeDeviceFault        Code = "device fault"
	CodeImageLoadBoot      Code = "image load failed at boot"
	CodeImageLoadSpawn     Code = "image load failed in spawn"
	CodeInvalidName        Code = "invalid program name"
	CodeTableFull          Code = "process table full"
	CodeInvalidKillTarget  Code = "invalid kill target"
	CodeUnknownIRQ         Code = "unknown interrupt kind"
	CodeUnknownSyscall     Code = "unknown supervisor call id"
)

// Error is a structured kernel error carrying enough context (the
// operation that failed, the pid and device involved, if any) to
// diagnose a fatal condition from a log line alone.
type Error struct {
	Op     string
	Code   Code
	PID    int
	Device int
	Msg    string
	Inner  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}
	switch {
	case e.PID >= 0 && e.Device >= 0:
		return fmt.Sprintf("vsok: %s: %s (pid=%d device=%d)", e.Op, msg, e.PID, e.Device)
	case e.PID >= 0:
		return fmt.Sprintf("vsok: %s: %s (pid=%d)", e.Op, msg, e.PID)
	case e.Device >= 0:
		return fmt.Sprintf("vsok: %s: %s (device=%d)", e.Op, msg, e.Device)
	default:
		return fmt.Sprintf("vsok: %s: %s", e.Op, msg)
	}
}

func (e *Error) Unwrap() error { return e.Inner }

func (e *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == te.Code
}

// New builds a context-free structured error.
func New(op string, code Code, msg string) *Error {
	return &Error{Op: op, Code: code, Msg: msg, PID: -1, Device: -1}
}

// WithPID builds a structured error tied to a specific process.
func WithPID(op string, code Code, pid int, msg string) *Error {
	return &Error{Op: op, Code: code, Msg: msg, PID: pid, Device: -1}
}

// WithDevice builds a structured error tied to a specific device.
func WithDevice(op string, code Code, device int, msg string) *Error {
	return &Error{Op: op, Code: code, Msg: msg, PID: -1, Device: device}
}

// Wrap attaches op/code context to an underlying error.
func Wrap(op string, code Code, inner error) *Error {
	if inner == nil {
		return nil
	}
	return &Error{Op: op, Code: code, Msg: inner.Error(), Inner: inner, PID: -1, Device: -1}
}

// IsCode reports whether err is a *Error with the given code.
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
