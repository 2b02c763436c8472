package vsok

import (
	"fmt"
	"sync"

	"github.com/so-sim/vsok/internal/interfaces"
)

// FakeBus is an in-memory implementation of interfaces.Bus for tests
// that need to drive the kernel without a real CPU/bus simulator. It
// tracks call counts the way the teacher's MockBackend tracks I/O
// calls, so a test can assert on how many times a port was touched.
type FakeBus struct {
	mu   sync.Mutex
	mem  map[int]int
	port map[int]int

	memReads, memWrites   int
	portReads, portWrites int

	portLog []PortWrite
}

// PortWrite records one WritePort call in the order it happened, so a
// test can assert on write ordering rather than just final port state.
type PortWrite struct {
	Port  int
	Value int
}

// NewFakeBus returns an empty FakeBus with every address/port reading
// as zero until written.
func NewFakeBus() *FakeBus {
	return &FakeBus{
		mem:  make(map[int]int),
		port: make(map[int]int),
	}
}

func (b *FakeBus) ReadMem(addr int) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.memReads++
	return b.mem[addr], nil
}

func (b *FakeBus) WriteMem(addr int, value int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.memWrites++
	b.mem[addr] = value
	return nil
}

func (b *FakeBus) ReadPort(port int) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.portReads++
	return b.port[port], nil
}

func (b *FakeBus) WritePort(port int, value int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.portWrites++
	b.port[port] = value
	b.portLog = append(b.portLog, PortWrite{Port: port, Value: value})
	return nil
}

// PortWrites returns every WritePort call so far, in call order.
func (b *FakeBus) PortWrites() []PortWrite {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]PortWrite, len(b.portLog))
	copy(out, b.portLog)
	return out
}

// SetPort lets a test poke a device condition directly (e.g. marking
// a keyboard ready) without going through WritePort's call counting.
func (b *FakeBus) SetPort(port int, value int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.port[port] = value
}

// CallCounts mirrors the teacher's MockBackend.CallCounts: a snapshot
// of how many times each operation has been invoked.
func (b *FakeBus) CallCounts() map[string]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return map[string]int{
		"mem_read":   b.memReads,
		"mem_write":  b.memWrites,
		"port_read":  b.portReads,
		"port_write": b.portWrites,
	}
}

var _ interfaces.Bus = (*FakeBus)(nil)

// FakeLoader resolves image names against an in-memory table a test
// populates directly, instead of reading program images off disk.
type FakeLoader struct {
	mu     sync.Mutex
	images map[string]fakeImage
}

type fakeImage struct {
	loadAddr int
	length   int
}

// NewFakeLoader returns a loader with no images registered.
func NewFakeLoader() *FakeLoader {
	return &FakeLoader{images: make(map[string]fakeImage)}
}

// Register makes name resolvable to the given load address/length.
func (l *FakeLoader) Register(name string, loadAddr, length int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.images[name] = fakeImage{loadAddr: loadAddr, length: length}
}

func (l *FakeLoader) Load(name string) (int, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	img, ok := l.images[name]
	if !ok {
		return 0, 0, fmt.Errorf("fake loader: no such image %q", name)
	}
	return img.loadAddr, img.length, nil
}

var _ interfaces.Loader = (*FakeLoader)(nil)

// FakeConsole collects every Printf call instead of writing to a real
// terminal, so tests can assert on boot/shutdown banners.
type FakeConsole struct {
	mu    sync.Mutex
	Lines []string
}

// NewFakeConsole returns an empty FakeConsole.
func NewFakeConsole() *FakeConsole {
	return &FakeConsole{}
}

func (c *FakeConsole) Printf(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Lines = append(c.Lines, fmt.Sprintf(format, args...))
}

var _ interfaces.Console = (*FakeConsole)(nil)
