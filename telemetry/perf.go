package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for a single cycle's timeline. Only the spans a caller can
// actually bracket with real work are named here: sim.RunCycle's internal
// source-sampling/transport/join steps run behind one call and across
// however many goroutines its scheduling policy spawns, so they are not
// separable from outside the sim package — Transport covers that whole
// call, and Report covers the telemetry export and console output after it.
const (
	PhaseTransport = "transport"
	PhaseReport    = "report"
)

// PerfSample holds timing data for a single cycle.
type PerfSample struct {
	CycleDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window of cycles.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	cycleStart    time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a collector averaging over windowSize cycles.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 32
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartCycle begins timing a new cycle.
func (p *PerfCollector) StartCycle() {
	p.cycleStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase of the current cycle.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndCycle finishes timing the current cycle and records the sample.
func (p *PerfCollector) EndCycle() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	sample := PerfSample{
		CycleDuration: now.Sub(p.cycleStart),
		Phases:        p.currentPhases,
	}

	p.samples[p.writeIndex] = sample
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics over the window.
type PerfStats struct {
	AvgCycleDuration time.Duration
	MinCycleDuration time.Duration
	MaxCycleDuration time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	CyclesPerSecond float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var totalCycle time.Duration
	var minCycle, maxCycle time.Duration
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalCycle += s.CycleDuration

		if i == 0 || s.CycleDuration < minCycle {
			minCycle = s.CycleDuration
		}
		if s.CycleDuration > maxCycle {
			maxCycle = s.CycleDuration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avgCycle := totalCycle / time.Duration(p.sampleCount)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgCycle > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avgCycle) * 100
		}
	}

	var cyclesPerSec float64
	if avgCycle > 0 {
		cyclesPerSec = float64(time.Second) / float64(avgCycle)
	}

	return PerfStats{
		AvgCycleDuration: avgCycle,
		MinCycleDuration: minCycle,
		MaxCycleDuration: maxCycle,
		PhaseAvg:         phaseAvg,
		PhasePct:         phasePct,
		CyclesPerSecond:  cyclesPerSec,
	}
}

// LogStats logs performance statistics via the package logger.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_cycle_us", s.AvgCycleDuration.Microseconds(),
		"min_cycle_us", s.MinCycleDuration.Microseconds(),
		"max_cycle_us", s.MaxCycleDuration.Microseconds(),
		"cycles_per_sec", int(s.CyclesPerSecond),
	}

	for _, phase := range []string{PhaseTransport, PhaseReport} {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	Logf(slog.LevelInfo, "perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_cycle_us", s.AvgCycleDuration.Microseconds()),
		slog.Int64("min_cycle_us", s.MinCycleDuration.Microseconds()),
		slog.Int64("max_cycle_us", s.MaxCycleDuration.Microseconds()),
		slog.Float64("cycles_per_sec", s.CyclesPerSecond),
	}

	for phase, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(phase+"_pct", pct))
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    uint64  `csv:"window_end"`
	AvgCycleUS   int64   `csv:"avg_cycle_us"`
	MinCycleUS   int64   `csv:"min_cycle_us"`
	MaxCycleUS   int64   `csv:"max_cycle_us"`
	CyclesPerSec float64 `csv:"cycles_per_sec"`
	TransportPct float64 `csv:"transport_pct"`
	ReportPct    float64 `csv:"report_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd uint64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgCycleUS:   s.AvgCycleDuration.Microseconds(),
		MinCycleUS:   s.MinCycleDuration.Microseconds(),
		MaxCycleUS:   s.MaxCycleDuration.Microseconds(),
		CyclesPerSec: s.CyclesPerSecond,
		TransportPct: s.PhasePct[PhaseTransport],
		ReportPct:    s.PhasePct[PhaseReport],
	}
}
