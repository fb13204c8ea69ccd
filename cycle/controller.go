// Package cycle implements the power-iteration controller: one generation
// over a fission-site bank, population aggregation, k-eff update, and the
// inactive/active cycle distinction.
package cycle

import (
	"github.com/heliosmc/keff/geom"
	"github.com/heliosmc/keff/physics"
	"github.com/heliosmc/keff/rng"
	"github.com/heliosmc/keff/tally"
	"github.com/heliosmc/keff/transport"
)

// Type distinguishes inactive cycles (statistics suppressed, fission
// source still converging) from active cycles (tallies accumulated).
type Type int

const (
	Inactive Type = iota
	Active
)

// Controller holds everything one generation needs: the fission bank, the
// local bank, the running k-eff estimate, the parent tallies, and the
// master RNG. The driver in the sim package owns concurrency; Controller
// owns the per-cycle state machine described by the cycle itself.
type Controller struct {
	Model     *geom.Model
	Grid      *physics.Grid
	Materials *physics.MaterialSet

	Tallies *tally.ParentSet
	Pool    *tally.Pool

	Master *rng.Stream

	MaxRNGPerHistory uint64
	NParticles       uint64

	HistoryParams transport.Params

	Bank       []transport.BankEntry
	local      [][]transport.BankEntry
	CycleType  Type
	CycleIndex uint64
	Keff       float64
}

// ResizeLocal resizes the local bank to match the current fission bank, per
// step 1 of the per-cycle procedure.
func (c *Controller) ResizeLocal() {
	if cap(c.local) >= len(c.Bank) {
		c.local = c.local[:len(c.Bank)]
		for i := range c.local {
			c.local[i] = c.local[i][:0]
		}
		return
	}
	c.local = make([][]transport.BankEntry, len(c.Bank))
}

// WorkerRNG derives the RNG stream slot i must use this cycle: a clone of
// the master stream jumped to the reserved offset for that slot. Two
// workers deriving the same i on the same master state produce bit-
// identical streams regardless of scheduling.
func (c *Controller) WorkerRNG(i int) *rng.Stream {
	w := c.Master.Clone()
	w.Jump(uint64(i) * c.MaxRNGPerHistory)
	return w
}

// RunSlot runs one source-bank slot's history to completion, tallying into
// child and appending progeny into the local bank at i. The returned
// population is the sum of that history's progeny weights.
func (c *Controller) RunSlot(i int, worker *rng.Stream, child *tally.Child) (population float64, err error) {
	entry := c.Bank[i]
	particle := entry.Particle

	cell, escaped := c.Model.NonVoid(entry.Cell, &particle.Position, &particle.Direction)
	if escaped {
		child.Leakage += particle.Weight
		return 0, nil
	}

	result, err := transport.Run(c.Model, c.Grid, c.Materials, cell, particle, worker, c.HistoryParams, c.CycleIndex)
	if err != nil {
		return 0, err
	}
	child.Add(result)
	c.local[i] = append(c.local[i], result.Progeny...)
	return result.Population, nil
}

// AdvanceMaster advances the master RNG past the whole cycle's reserved
// span, independent of how many workers actually ran.
func (c *Controller) AdvanceMaster() {
	c.Master.Jump(uint64(len(c.Bank)) * c.MaxRNGPerHistory)
}

// UpdateKeff sets k-eff to the cycle's total population over the configured
// particle count — exact in IEEE double after a single division.
func (c *Controller) UpdateKeff(population float64) {
	c.Keff = population / float64(c.NParticles)
	c.HistoryParams.KeffEstimate = c.Keff
}

// JoinChildren folds the cycle's borrowed children into the parent tallies
// when active, or simply returns them to the pool when inactive.
func (c *Controller) JoinChildren(children []*tally.Child) {
	if c.CycleType == Active {
		c.Tallies.Join(children, c.Pool, uint64(len(c.Bank)))
	} else {
		tally.DrainNoStats(children, c.Pool)
	}
}

// SwapBanks flattens the local bank, slot by slot in index order, into the
// next generation's fission bank. The local slots keep their contents until
// ResizeLocal empties them at the start of the next cycle.
func (c *Controller) SwapBanks() {
	total := 0
	for _, l := range c.local {
		total += len(l)
	}
	next := make([]transport.BankEntry, 0, total)
	for _, l := range c.local {
		next = append(next, l...)
	}
	c.Bank = next
}
