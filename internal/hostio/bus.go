// Package hostio wires a Kernel to a real process instead of a
// simulated CPU: a flat memory array for the save area and program
// images, a free-running instruction clock driven by a background
// ticker, and terminal 0 connected to the host's stdin/stdout in raw
// mode via golang.org/x/term, polled non-blockingly with
// golang.org/x/sys/unix the way the emulator in the reference pack
// drives its UART.
package hostio

import (
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

const (
	memSize   = 1 << 16
	portCount = 32
)

const (
	keyboardDataPort  = 0
	keyboardReadyPort = 1
	screenDataPort    = 2
	screenReadyPort   = 3

	clockTicksPort = 18
)

// Bus is a real-process stand-in for the simulated computer's
// memory-mapped bus: a flat memory array plus a port array, with
// terminal 0's ports backed by the host terminal.
type Bus struct {
	mu   sync.Mutex
	mem  [memSize]int
	port [portCount]int

	stdin  *os.File
	stdout *os.File

	ticksPerSecond int
	savedState     *term.State
	stop           chan struct{}
}

// New returns a Bus with terminal 0 bound to stdin/stdout. Call Start
// to begin polling the terminal and advancing the instruction clock;
// call Close to restore the terminal and stop the clock.
func New(ticksPerSecond int) *Bus {
	return &Bus{
		stdin:          os.Stdin,
		stdout:         os.Stdout,
		ticksPerSecond: ticksPerSecond,
		stop:           make(chan struct{}),
	}
}

// Start puts the terminal in raw mode (if it is one) and launches the
// background goroutines that poll stdin and advance the clock.
func (b *Bus) Start() error {
	fd := int(b.stdin.Fd())
	if term.IsTerminal(fd) {
		state, err := term.GetState(fd)
		if err != nil {
			return err
		}
		b.savedState = state
		if _, err := term.MakeRaw(fd); err != nil {
			return err
		}
	}
	go b.pollKeyboard()
	go b.runClock()
	return nil
}

// Close restores the terminal and stops the background goroutines.
func (b *Bus) Close() error {
	close(b.stop)
	fd := int(b.stdin.Fd())
	if b.savedState != nil && term.IsTerminal(fd) {
		return term.Restore(fd, b.savedState)
	}
	return nil
}

// pollKeyboard checks stdin for a pending byte without blocking the
// caller, the same non-blocking-read approach the reference emulator
// uses for its UART, and latches it onto terminal 0's keyboard ports.
func (b *Bus) pollKeyboard() {
	fd := int(b.stdin.Fd())
	if err := unix.SetNonblock(fd, true); err != nil {
		return
	}
	buf := make([]byte, 1)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-b.stop:
			return
		case <-ticker.C:
			n, err := unix.Read(fd, buf)
			if err != nil || n <= 0 {
				continue
			}
			b.mu.Lock()
			b.port[keyboardDataPort] = int(buf[0])
			b.port[keyboardReadyPort] = 1
			b.mu.Unlock()
		}
	}
}

func (b *Bus) runClock() {
	rate := b.ticksPerSecond
	if rate <= 0 {
		rate = 1
	}
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()
	ticks := 0
	for {
		select {
		case <-b.stop:
			return
		case <-ticker.C:
			ticks++
			b.mu.Lock()
			b.port[clockTicksPort] = ticks
			b.mu.Unlock()
		}
	}
}

func (b *Bus) ReadMem(addr int) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if addr < 0 || addr >= memSize {
		return 0, fmt.Errorf("hostio: mem address %d out of range", addr)
	}
	return b.mem[addr], nil
}

func (b *Bus) WriteMem(addr int, value int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if addr < 0 || addr >= memSize {
		return fmt.Errorf("hostio: mem address %d out of range", addr)
	}
	b.mem[addr] = value
	return nil
}

func (b *Bus) ReadPort(port int) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if port < 0 || port >= portCount {
		return 0, fmt.Errorf("hostio: port %d out of range", port)
	}
	// The host terminal never applies write backpressure the way a
	// real serial line might, so the screen is always ready.
	if port == screenReadyPort {
		return 1, nil
	}
	return b.port[port], nil
}

func (b *Bus) WritePort(port int, value int) error {
	if port < 0 || port >= portCount {
		return fmt.Errorf("hostio: port %d out of range", port)
	}

	b.mu.Lock()
	b.port[port] = value
	b.mu.Unlock()

	if port == screenDataPort {
		_, err := b.stdout.Write([]byte{byte(value)})
		return err
	}
	if port == keyboardReadyPort && value == 0 {
		// A write of 0 to keyboard-ready only updates the latched port
		// value; nothing further to do on the host side.
		return nil
	}
	return nil
}
