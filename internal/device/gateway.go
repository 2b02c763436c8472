// Package device implements the Device Gateway: the translation from
// a logical (device id, role) pair to the concrete port number the
// Bus understands, per spec.md §3/§6.
package device

import "github.com/so-sim/vsok/internal/interfaces"

// Role identifies which port of a terminal is being addressed.
type Role int

const (
	KeyboardData Role = iota
	KeyboardReady
	ScreenData
	ScreenReady
)

const portsPerTerminal = 4

// Port numbers for the timer and the instruction clock sit just past
// the last terminal's ports.
const (
	TimerCountdownPort = portsPerTerminal * 4
	TimerEnablePort    = TimerCountdownPort + 1
	ClockTicksPort     = TimerEnablePort + 1
)

// Gateway wraps a Bus and exposes device operations in terms of
// logical device id and role, rather than raw port numbers.
type Gateway struct {
	bus interfaces.Bus
}

// NewGateway returns a Gateway over bus.
func NewGateway(bus interfaces.Bus) *Gateway {
	return &Gateway{bus: bus}
}

func (g *Gateway) port(deviceID int, role Role) int {
	return deviceID*portsPerTerminal + int(role)
}

// IsReady reports whether the given device/role port signals ready.
func (g *Gateway) IsReady(deviceID int, role Role) (bool, error) {
	v, err := g.bus.ReadPort(g.port(deviceID, role))
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// ReadData reads the data port for a device/role pair.
func (g *Gateway) ReadData(deviceID int, role Role) (int, error) {
	return g.bus.ReadPort(g.port(deviceID, role))
}

// WriteData writes the data port for a device/role pair.
func (g *Gateway) WriteData(deviceID int, role Role, value int) error {
	return g.bus.WritePort(g.port(deviceID, role), value)
}

// ProgramTimer reprograms the timer's countdown port to interval.
func (g *Gateway) ProgramTimer(interval int) error {
	return g.bus.WritePort(TimerCountdownPort, interval)
}

// AckTimer clears the timer's interrupt-enable/pending port.
func (g *Gateway) AckTimer() error {
	return g.bus.WritePort(TimerEnablePort, 0)
}

// DisarmTimer clears both timer ports, used at shutdown.
func (g *Gateway) DisarmTimer() error {
	if err := g.bus.WritePort(TimerCountdownPort, 0); err != nil {
		return err
	}
	return g.AckTimer()
}

// ReadClockTicks reads the free-running instruction clock.
func (g *Gateway) ReadClockTicks() (int, error) {
	return g.bus.ReadPort(ClockTicksPort)
}

// DeviceForPID returns the logical device id a descriptor's terminal
// is bound to.
func DeviceForPID(pid int) int {
	const numTerminals = 4
	d := pid % numTerminals
	if d < 0 {
		d += numTerminals
	}
	return d
}
