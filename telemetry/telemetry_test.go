package telemetry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/heliosmc/keff/transport"
)

func TestOutputManagerDisabledWhenDirEmpty(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if om != nil {
		t.Fatalf("expected nil manager for empty dir")
	}
	if err := om.WriteCycle(CycleRecord{Cycle: 1}); err != nil {
		t.Fatalf("nil manager WriteCycle should no-op: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("nil manager Close should no-op: %v", err)
	}
}

func TestOutputManagerWritesCycleCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	if err := om.WriteCycle(CycleRecord{Cycle: 1, Keff: 1.01, BankSize: 200}); err != nil {
		t.Fatalf("WriteCycle: %v", err)
	}
	if err := om.WriteCycle(CycleRecord{Cycle: 2, Keff: 1.02, BankSize: 198}); err != nil {
		t.Fatalf("WriteCycle: %v", err)
	}
	om.Close()

	data, err := os.ReadFile(filepath.Join(dir, "cycles.csv"))
	if err != nil {
		t.Fatalf("reading cycles.csv: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("cycles.csv is empty")
	}
}

func TestPerfCollectorAveragesWindow(t *testing.T) {
	pc := NewPerfCollector(4)
	for i := 0; i < 4; i++ {
		pc.StartCycle()
		pc.StartPhase(PhaseTransport)
		time.Sleep(time.Microsecond)
		pc.StartPhase(PhaseReport)
		time.Sleep(time.Microsecond)
		pc.EndCycle()
	}
	stats := pc.Stats()
	if stats.AvgCycleDuration <= 0 {
		t.Fatalf("expected positive average cycle duration, got %v", stats.AvgCycleDuration)
	}
	if _, ok := stats.PhasePct[PhaseTransport]; !ok {
		t.Fatalf("expected transport phase percentage to be recorded")
	}
	if _, ok := stats.PhasePct[PhaseReport]; !ok {
		t.Fatalf("expected report phase percentage to be recorded")
	}
}

func TestSeedBankKeepsBestPopulation(t *testing.T) {
	sb := NewSeedBank(2)
	sb.Consider(1, 100, []transport.BankEntry{{}})
	sb.Consider(2, 250, []transport.BankEntry{{}, {}})
	sb.Consider(3, 180, []transport.BankEntry{{}, {}, {}})

	best := sb.Best()
	if len(best) != 2 {
		t.Fatalf("expected best bank from cycle 2 (size 2), got size %d", len(best))
	}
}

func TestSeedBankNilIsNoOp(t *testing.T) {
	var sb *SeedBank
	sb.Consider(1, 100, nil)
	if got := sb.Best(); got != nil {
		t.Fatalf("expected nil best from nil seed bank, got %v", got)
	}
}
