// Package tally implements the parent/child accumulator pool: per-worker
// scratch tallies borrowed from a pooled deque, joined into running parent
// statistics at the end of each active cycle.
package tally

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Tally is a parent accumulator: one value per completed active cycle,
// reported as (mean, stderr) across the run. Parents are only mutated
// inside Accumulate, at the end of a cycle — never touched mid-cycle.
type Tally struct {
	cycleMeans []float64
}

// Accumulate folds one cycle's summed contribution into the running
// series, normalised by the source count.
func (t *Tally) Accumulate(cycleSum float64, nSrc uint64) {
	t.cycleMeans = append(t.cycleMeans, cycleSum/float64(nSrc))
}

// Mean and StdErr report the running statistics across all accumulated
// active cycles.
func (t *Tally) Mean() float64 {
	if len(t.cycleMeans) == 0 {
		return 0
	}
	return stat.Mean(t.cycleMeans, nil)
}

func (t *Tally) StdErr() float64 {
	n := len(t.cycleMeans)
	if n < 2 {
		return 0
	}
	_, std := stat.MeanStdDev(t.cycleMeans, nil)
	return std / math.Sqrt(float64(n))
}

// N reports how many active cycles have been accumulated.
func (t *Tally) N() int {
	return len(t.cycleMeans)
}
