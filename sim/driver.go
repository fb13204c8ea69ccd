// Package sim provides the parallel driver that fans one cycle's histories
// over a worker pool. All three scheduling policies must produce
// numerically identical results, since the cycle controller derives each
// slot's RNG stream from the master by index alone.
package sim

import (
	"runtime"
	"sync"

	"github.com/heliosmc/keff/cycle"
	"github.com/heliosmc/keff/tally"
)

// Policy selects how history indices within a cycle are scheduled across
// goroutines. None of the three affects the numerical result.
type Policy int

const (
	Single      Policy = iota // sequential, one history at a time
	Coarse                    // static partition, one goroutine per chunk
	Cooperative               // work-stealing over a shared index channel
)

// PolicyFromConfig maps the engine's historical scheduler names onto the
// three policies this driver implements: "single" stays sequential,
// "omp" (traditionally static loop partitioning) maps to Coarse, and
// "tbb" (traditionally work-stealing) maps to Cooperative.
func PolicyFromConfig(name string) Policy {
	switch name {
	case "omp":
		return Coarse
	case "tbb":
		return Cooperative
	default:
		return Single
	}
}

// RunCycle executes one full generation over c.Bank under the given
// scheduling policy, then advances the master RNG, updates k-eff, joins or
// drains tallies, and swaps the fission bank for the next generation.
func RunCycle(c *cycle.Controller, policy Policy, workers int) error {
	n := len(c.Bank)
	c.ResizeLocal()

	var children []*tally.Child
	var population float64
	var err error

	switch policy {
	case Single:
		children, population, err = runSingle(c, n)
	case Coarse:
		children, population, err = runCoarse(c, n, resolveWorkers(workers))
	default:
		children, population, err = runCooperative(c, n, resolveWorkers(workers))
	}

	if err != nil {
		tally.DrainNoStats(children, c.Pool)
		return err
	}

	c.AdvanceMaster()
	c.UpdateKeff(population)
	c.JoinChildren(children)
	c.SwapBanks()
	return nil
}

func resolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}
	return runtime.GOMAXPROCS(0)
}

func runSingle(c *cycle.Controller, n int) ([]*tally.Child, float64, error) {
	child := c.Pool.Borrow()
	total := 0.0
	for i := 0; i < n; i++ {
		pop, err := c.RunSlot(i, c.WorkerRNG(i), child)
		if err != nil {
			return []*tally.Child{child}, 0, err
		}
		total += pop
	}
	return []*tally.Child{child}, total, nil
}

// runCoarse statically partitions [0, n) into one contiguous chunk per
// worker, mirroring a snapshot/parallel-chunk/serial-join pattern: each
// worker owns its chunk outright, and the driver only reads results back
// after every worker has finished (a full barrier).
func runCoarse(c *cycle.Controller, n, workers int) ([]*tally.Child, float64, error) {
	if workers > n {
		workers = n
	}
	if workers <= 0 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers

	children := make([]*tally.Child, workers)
	pops := make([]float64, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		children[w] = c.Pool.Borrow()
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				pop, err := c.RunSlot(i, c.WorkerRNG(i), children[w])
				if err != nil {
					errs[w] = err
					return
				}
				pops[w] += pop
			}
		}(w, start, end)
	}
	wg.Wait()

	return collect(children, pops, errs)
}

// runCooperative hands out indices one at a time over a shared channel, so
// a worker that finishes its current history early steals the next
// available index rather than sitting idle on an uneven chunk.
func runCooperative(c *cycle.Controller, n, workers int) ([]*tally.Child, float64, error) {
	if workers <= 0 {
		workers = 1
	}
	indices := make(chan int, n)
	for i := 0; i < n; i++ {
		indices <- i
	}
	close(indices)

	children := make([]*tally.Child, workers)
	pops := make([]float64, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		children[w] = c.Pool.Borrow()
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := range indices {
				pop, err := c.RunSlot(i, c.WorkerRNG(i), children[w])
				if err != nil {
					errs[w] = err
					return
				}
				pops[w] += pop
			}
		}(w)
	}
	wg.Wait()

	return collect(children, pops, errs)
}

func collect(children []*tally.Child, pops []float64, errs []error) ([]*tally.Child, float64, error) {
	live := make([]*tally.Child, 0, len(children))
	total := 0.0
	var firstErr error
	for i, c := range children {
		if c == nil {
			continue
		}
		live = append(live, c)
		total += pops[i]
		if errs[i] != nil && firstErr == nil {
			firstErr = errs[i]
		}
	}
	return live, total, firstErr
}
