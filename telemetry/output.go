package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/heliosmc/keff/config"
)

// CycleRecord is one row of the per-cycle CSV export: the observable
// outputs for a single completed generation.
type CycleRecord struct {
	Cycle          uint64  `csv:"cycle"`
	Active         bool    `csv:"active"`
	Keff           float64 `csv:"keff"`
	KeffTrack      float64 `csv:"keff_track"`
	KeffCollision  float64 `csv:"keff_collision"`
	KeffAbsorption float64 `csv:"keff_absorption"`
	Leakage        float64 `csv:"leakage"`
	Absorption     float64 `csv:"absorption"`
	N2N            float64 `csv:"n2n"`
	N3N            float64 `csv:"n3n"`
	N4N            float64 `csv:"n4n"`
	BankSize       int     `csv:"bank_size"`
}

// OutputManager owns the per-run output directory: the per-cycle CSV, the
// perf CSV, and a copy of the resolved configuration. A nil *OutputManager
// is valid and makes every method a no-op, so callers don't need to guard
// output.dir == "" at every call site.
type OutputManager struct {
	dir string

	cycleFile *os.File
	perfFile  *os.File

	cycleHeaderWritten bool
	perfHeaderWritten  bool
}

// NewOutputManager creates the output directory and opens its CSV files.
// Returns (nil, nil) when dir is empty, meaning output is disabled.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	cyclePath := filepath.Join(dir, "cycles.csv")
	f, err := os.Create(cyclePath)
	if err != nil {
		return nil, fmt.Errorf("creating cycles.csv: %w", err)
	}
	om.cycleFile = f

	perfPath := filepath.Join(dir, "perf.csv")
	f, err = os.Create(perfPath)
	if err != nil {
		om.cycleFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	return om, nil
}

// WriteConfig saves the resolved configuration as YAML alongside the run's
// other output files.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteCycle appends one generation's observables to cycles.csv.
func (om *OutputManager) WriteCycle(rec CycleRecord) error {
	if om == nil {
		return nil
	}

	records := []CycleRecord{rec}
	if !om.cycleHeaderWritten {
		if err := gocsv.Marshal(records, om.cycleFile); err != nil {
			return fmt.Errorf("writing cycle record: %w", err)
		}
		om.cycleHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.cycleFile); err != nil {
		return fmt.Errorf("writing cycle record: %w", err)
	}
	return nil
}

// WritePerf writes a rolling-window performance sample to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd uint64) error {
	if om == nil {
		return nil
	}

	records := []PerfStatsCSV{stats.ToCSV(windowEnd)}
	if !om.perfHeaderWritten {
		if err := gocsv.Marshal(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf record: %w", err)
		}
		om.perfHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.perfFile); err != nil {
		return fmt.Errorf("writing perf record: %w", err)
	}
	return nil
}

// WriteSeedBank saves the accumulated seed bank as JSON, when seed-bank
// telemetry is enabled.
func (om *OutputManager) WriteSeedBank(sb *SeedBank) error {
	if om == nil || sb == nil {
		return nil
	}
	data, err := sb.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshaling seed bank: %w", err)
	}
	return os.WriteFile(filepath.Join(om.dir, "seed_bank.json"), data, 0644)
}

// Dir returns the output directory path, or "" for a disabled manager.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes every open output file.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	if om.cycleFile != nil {
		if err := om.cycleFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if om.perfFile != nil {
		if err := om.perfFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
