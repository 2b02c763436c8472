package process

import "testing"

func TestNewTableAllSlotsEmpty(t *testing.T) {
	tbl := NewTable(7)
	for i, d := range tbl.All() {
		if d.State != Empty {
			t.Fatalf("slot %d: want EMPTY, got %v", i, d.State)
		}
		if d.PID != -1 {
			t.Fatalf("slot %d: want pid -1, got %d", i, d.PID)
		}
	}
}

func TestAllocPIDNeverReuses(t *testing.T) {
	tbl := NewTable(5)
	first := tbl.AllocPID()
	second := tbl.AllocPID()
	if first != 5 || second != 6 {
		t.Fatalf("want 5,6 got %d,%d", first, second)
	}
}

func TestAllocSlotFirstEmpty(t *testing.T) {
	tbl := NewTable(0)
	tbl.Slots[0].State = Running
	tbl.Slots[1].State = Running
	got := tbl.AllocSlot()
	if got != &tbl.Slots[2] {
		t.Fatalf("want slot 2, got slot with pid %d", got.PID)
	}
}

func TestAllocSlotFullReturnsNil(t *testing.T) {
	tbl := NewTable(0)
	for i := range tbl.Slots {
		tbl.Slots[i].State = Running
	}
	if got := tbl.AllocSlot(); got != nil {
		t.Fatalf("want nil, got slot with pid %d", got.PID)
	}
}

func TestFindByPIDSkipsEmptySlots(t *testing.T) {
	tbl := NewTable(0)
	tbl.Slots[3].State = Ready
	tbl.Slots[3].PID = 99
	if got := tbl.FindByPID(99); got != &tbl.Slots[3] {
		t.Fatalf("expected slot 3")
	}
	if got := tbl.FindByPID(-1); got != nil {
		t.Fatalf("want nil for the default empty pid, got %v", got)
	}
}

func TestFirstReadyScansInSlotOrder(t *testing.T) {
	tbl := NewTable(0)
	tbl.Slots[2].State = Ready
	tbl.Slots[2].PID = 2
	tbl.Slots[5].State = Ready
	tbl.Slots[5].PID = 5
	got := tbl.FirstReady()
	if got == nil || got.PID != 2 {
		t.Fatalf("want pid 2, got %v", got)
	}
}

func TestHasActive(t *testing.T) {
	tbl := NewTable(0)
	if tbl.HasActive() {
		t.Fatal("empty table should have no active descriptors")
	}
	tbl.Slots[0].State = Blocked
	if !tbl.HasActive() {
		t.Fatal("a blocked descriptor still counts as active")
	}
}

func TestReapOnlyClearsFinished(t *testing.T) {
	tbl := NewTable(0)
	d := &tbl.Slots[0]
	d.State = Running
	d.PID = 1
	tbl.Reap(d)
	if d.State != Running {
		t.Fatal("Reap must not touch a non-FINISHED descriptor")
	}
	d.State = Finished
	tbl.Reap(d)
	if d.State != Empty || d.PID != -1 {
		t.Fatalf("want EMPTY/-1 after reap, got state=%v pid=%d", d.State, d.PID)
	}
}
