package device

import "testing"

type fakeBus struct{ port map[int]int }

func newFakeBus() *fakeBus { return &fakeBus{port: make(map[int]int)} }

func (b *fakeBus) ReadMem(addr int) (int, error)   { return 0, nil }
func (b *fakeBus) WriteMem(addr int, v int) error  { return nil }
func (b *fakeBus) ReadPort(p int) (int, error)     { return b.port[p], nil }
func (b *fakeBus) WritePort(p int, v int) error    { b.port[p] = v; return nil }

func TestPortAddressingIsPerTerminal(t *testing.T) {
	bus := newFakeBus()
	g := NewGateway(bus)

	if err := g.WriteData(2, ScreenData, 65); err != nil {
		t.Fatal(err)
	}
	got, err := bus.ReadPort(2*4 + int(ScreenData))
	if err != nil || got != 65 {
		t.Fatalf("want 65 at the computed port, got %d, %v", got, err)
	}
}

func TestIsReady(t *testing.T) {
	bus := newFakeBus()
	g := NewGateway(bus)
	if ready, _ := g.IsReady(1, KeyboardReady); ready {
		t.Fatal("want not ready by default")
	}
	bus.port[1*4+int(KeyboardReady)] = 1
	if ready, _ := g.IsReady(1, KeyboardReady); !ready {
		t.Fatal("want ready once the port is nonzero")
	}
}

func TestDisarmTimerClearsBothPorts(t *testing.T) {
	bus := newFakeBus()
	g := NewGateway(bus)
	g.ProgramTimer(50)
	bus.port[TimerEnablePort] = 1
	if err := g.DisarmTimer(); err != nil {
		t.Fatal(err)
	}
	if bus.port[TimerCountdownPort] != 0 || bus.port[TimerEnablePort] != 0 {
		t.Fatal("disarm must clear both timer ports")
	}
}

func TestDeviceForPIDWrapsMod4(t *testing.T) {
	cases := map[int]int{0: 0, 1: 1, 4: 0, 5: 1, -1: 3, -4: 0}
	for pid, want := range cases {
		if got := DeviceForPID(pid); got != want {
			t.Errorf("DeviceForPID(%d) = %d, want %d", pid, got, want)
		}
	}
}
