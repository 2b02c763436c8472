package process

import "testing"

func TestTurnaroundSumsAllThreeStates(t *testing.T) {
	m := Metrics{TimeReady: 10, TimeRunning: 30, TimeBlocked: 5}
	if got := m.Turnaround(); got != 45 {
		t.Fatalf("want 45, got %d", got)
	}
}

func TestMeanReadyLatencyZeroEntries(t *testing.T) {
	var m Metrics
	if got := m.MeanReadyLatency(); got != 0 {
		t.Fatalf("want 0 with no entries, got %v", got)
	}
}

func TestMeanReadyLatency(t *testing.T) {
	m := Metrics{TimeReady: 100, EntriesReady: 4}
	if got := m.MeanReadyLatency(); got != 25 {
		t.Fatalf("want 25, got %v", got)
	}
}
