// heliosmc runs a Monte Carlo k-eff power-iteration for one of the
// built-in scenes, printing (and optionally exporting) the per-cycle
// observable table.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heliosmc/keff/config"
	"github.com/heliosmc/keff/cycle"
	"github.com/heliosmc/keff/rng"
	"github.com/heliosmc/keff/scene"
	"github.com/heliosmc/keff/sim"
	"github.com/heliosmc/keff/tally"
	"github.com/heliosmc/keff/telemetry"
	"github.com/heliosmc/keff/transport"
)

var (
	configPath = flag.String("config", "", "config YAML file (empty = defaults)")
	outputDir  = flag.String("output", "", "output directory for CSV/YAML export (empty = output.dir from config; disabled if that is empty too)")
	logFile    = flag.String("logfile", "", "write the per-cycle table to a file instead of stdout")
	quiet      = flag.Bool("quiet", false, "suppress the per-cycle table, still export if an output directory is set")
)

func main() {
	flag.Parse()

	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			log.Fatalf("failed to create log file: %v", err)
		}
		defer f.Close()
		telemetry.SetLogWriter(f)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	dir := *outputDir
	if dir == "" {
		dir = cfg.Output.Dir
	}
	om, err := telemetry.NewOutputManager(dir)
	if err != nil {
		log.Fatalf("failed to initialize output: %v", err)
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		log.Printf("failed to write config.yaml: %v", err)
	}

	built := buildScene(cfg)
	policy := sim.PolicyFromConfig(cfg.Scheduler)

	master := rng.New(cfg.Seed)
	bank := make([]transport.BankEntry, cfg.Criticality.Particles)
	for i := range bank {
		bank[i] = built.Source.Sample(master)
	}

	c := &cycle.Controller{
		Model:     built.Model,
		Grid:      built.Materials.Master,
		Materials: built.Materials,
		Tallies:   tally.NewParentSet(),
		Pool:      &tally.Pool{},
		Master:    master,

		MaxRNGPerHistory: cfg.RNG.MaxPerHistory,
		NParticles:       cfg.Criticality.Particles,

		HistoryParams: transport.Params{
			EnergyFreeGasThreshold: cfg.FreeGas.EnergyThreshold,
			AWRFreeGasThreshold:    cfg.FreeGas.AWRThreshold,
			KeffEstimate:           1.0,
		},

		Bank:      bank,
		CycleType: cycle.Inactive,
	}

	var seedBank *telemetry.SeedBank
	if cfg.Telemetry.SeedBank.Enabled {
		seedBank = telemetry.NewSeedBank(5)
	}
	perf := telemetry.NewPerfCollector(int(cfg.Telemetry.PerfWindow))

	totalCycles := cfg.Criticality.Inactive + cfg.Criticality.Active
	if !*quiet {
		telemetry.Logf(slog.LevelInfo, fmt.Sprintf("run %s: %d particles, %d inactive + %d active cycles",
			cfg.Derived.RunID, cfg.Criticality.Particles, cfg.Criticality.Inactive, cfg.Criticality.Active))
	}

	start := time.Now()
	for i := uint64(0); i < totalCycles; i++ {
		c.CycleIndex = i
		if i == cfg.Criticality.Inactive {
			c.CycleType = cycle.Active
		}

		perf.StartCycle()
		perf.StartPhase(telemetry.PhaseTransport)
		if err := sim.RunCycle(c, policy, 0); err != nil {
			log.Fatalf("cycle %d failed: %v", i, err)
		}
		perf.StartPhase(telemetry.PhaseReport)

		if seedBank != nil && c.CycleType == cycle.Inactive {
			seedBank.Consider(i, float64(len(c.Bank)), c.Bank)
		}

		rec := telemetry.CycleRecord{
			Cycle:    i,
			Active:   c.CycleType == cycle.Active,
			Keff:     c.Keff,
			BankSize: len(c.Bank),
		}
		if c.CycleType == cycle.Active {
			rec.KeffTrack = c.Tallies.KeffTrack.Mean()
			rec.KeffCollision = c.Tallies.KeffCollision.Mean()
			rec.KeffAbsorption = c.Tallies.KeffAbsorption.Mean()
			rec.Leakage = c.Tallies.Leakage.Mean()
			rec.Absorption = c.Tallies.Absorption.Mean()
			rec.N2N = c.Tallies.N2N.Mean()
			rec.N3N = c.Tallies.N3N.Mean()
			rec.N4N = c.Tallies.N4N.Mean()
		}
		if err := om.WriteCycle(rec); err != nil {
			log.Printf("failed to write cycle record: %v", err)
		}

		perf.EndCycle()
		if i%uint64(cfg.Telemetry.PerfWindow) == 0 {
			if err := om.WritePerf(perf.Stats(), i); err != nil {
				log.Printf("failed to write perf record: %v", err)
			}
		}

		if !*quiet {
			printCycle(rec)
		}
	}

	if err := om.WriteSeedBank(seedBank); err != nil {
		log.Printf("failed to write seed bank: %v", err)
	}

	elapsed := time.Since(start)
	if !*quiet {
		telemetry.Logf(slog.LevelInfo, fmt.Sprintf("\ndone in %s", elapsed.Round(time.Millisecond)))
		telemetry.Logf(slog.LevelInfo, fmt.Sprintf(
			"k-eff-trk = %.5f +/- %.5f  k-eff-col = %.5f +/- %.5f  k-eff-abs = %.5f +/- %.5f",
			c.Tallies.KeffTrack.Mean(), c.Tallies.KeffTrack.StdErr(),
			c.Tallies.KeffCollision.Mean(), c.Tallies.KeffCollision.StdErr(),
			c.Tallies.KeffAbsorption.Mean(), c.Tallies.KeffAbsorption.StdErr(),
		))
	}
}

func buildScene(cfg *config.Config) *scene.Built {
	switch cfg.Geometry.Scene {
	case "lattice":
		return scene.ReflectingCubeLattice(cfg.Geometry.Pitch)
	case "slab":
		return scene.TwoRegionSlab(cfg.Geometry.Radius)
	case "chance-fission":
		return scene.ChanceFissionSphere(cfg.Geometry.Radius)
	default:
		return scene.Sphere(cfg.Geometry.Radius)
	}
}

func printCycle(rec telemetry.CycleRecord) {
	if rec.Active {
		telemetry.Logf(slog.LevelInfo, fmt.Sprintf("cycle %4d [active]   keff=%.5f  trk=%.5f  col=%.5f  abs=%.5f  leak=%.4f  bank=%d",
			rec.Cycle, rec.Keff, rec.KeffTrack, rec.KeffCollision, rec.KeffAbsorption, rec.Leakage, rec.BankSize))
		return
	}
	telemetry.Logf(slog.LevelInfo, fmt.Sprintf("cycle %4d [inactive] keff=%.5f  bank=%d", rec.Cycle, rec.Keff, rec.BankSize))
}
