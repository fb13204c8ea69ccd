package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/heliosmc/keff/config"
	"github.com/heliosmc/keff/sim"
)

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "base config YAML file (empty = defaults)")
	geometry := flag.String("geometry", "sphere", "geometry to search: sphere (radius) or lattice (pitch)")
	maxEvals := flag.Int("max-evals", 100, "maximum CMA-ES evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "output directory for the trace CSV and best config")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	var target Target
	switch *geometry {
	case "lattice":
		target = TargetLatticePitch
	case "sphere":
		target = TargetSphereRadius
	default:
		log.Fatalf("unknown geometry %q, want sphere or lattice", *geometry)
	}
	spec := specFor(target)

	evaluator := NewFitnessEvaluator(target, cfg, sim.PolicyFromConfig(cfg.Scheduler))

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := clampSpec(spec, denormalize(spec, x[0]))
			return evaluator.Evaluate(raw)
		},
	}

	initX := []float64{normalize(spec, spec.Default)}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + 3
	}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize}
	settings := &optimize.Settings{FuncEvaluations: *maxEvals, Concurrent: 0}

	logPath := filepath.Join(*outputDir, "critsearch_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()
	logWriter.Write([]string{"eval", "fitness", spec.Name})

	evalCount := 0
	startTime := time.Now()

	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		raw := clampSpec(spec, denormalize(spec, x[0]))
		logWriter.Write([]string{
			strconv.Itoa(evalCount),
			fmt.Sprintf("%.8f", fitness),
			fmt.Sprintf("%.6f", raw),
		})
		logWriter.Flush()

		elapsed := time.Since(startTime)
		avgPerEval := elapsed / time.Duration(evalCount)
		remaining := time.Duration(*maxEvals-evalCount) * avgPerEval
		fmt.Printf("Eval %d/%d: %s=%.4f fitness=%.6f | elapsed: %s, ETA: %s\n",
			evalCount, *maxEvals, spec.Name, raw, fitness, formatDuration(elapsed), formatDuration(remaining))

		return fitness
	}

	fmt.Printf("Searching %s over [%.2f, %.2f] for k-eff-trk -> 1.0 (population=%d, max_evals=%d)\n",
		spec.Name, spec.Min, spec.Max, popSize, *maxEvals)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	bestValue, bestKeff := evaluator.BestValue()
	if bestValue == 0 && result != nil {
		bestValue = clampSpec(spec, denormalize(spec, result.X[0]))
	}

	fmt.Printf("\nBest %s = %.6f, k-eff-trk = %.6f\n", spec.Name, bestValue, bestKeff)

	bestCfg, _ := config.Load(*configPath)
	switch target {
	case TargetLatticePitch:
		bestCfg.Geometry.Pitch = bestValue
	default:
		bestCfg.Geometry.Radius = bestValue
	}

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("Best config saved to: %s\n", configOutPath)
	}
}
