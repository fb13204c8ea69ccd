package main

import (
	"github.com/heliosmc/keff/config"
	"github.com/heliosmc/keff/cycle"
	"github.com/heliosmc/keff/rng"
	"github.com/heliosmc/keff/sim"
	"github.com/heliosmc/keff/tally"
	"github.com/heliosmc/keff/transport"
)

// FitnessEvaluator runs a full inactive+active cycle sequence for a given
// geometric parameter value and scores it against k-eff-trk = 1.0.
type FitnessEvaluator struct {
	target Target
	cfg    *config.Config
	policy sim.Policy
	best   struct {
		fitness float64
		keff    float64
		value   float64
	}
}

// NewFitnessEvaluator creates an evaluator bound to a base config and the
// scheduling policy the search should use while evaluating candidates.
func NewFitnessEvaluator(target Target, cfg *config.Config, policy sim.Policy) *FitnessEvaluator {
	fe := &FitnessEvaluator{target: target, cfg: cfg, policy: policy}
	fe.best.fitness = 1e18
	return fe
}

// Evaluate runs the engine for one candidate geometric value and returns
// (k-eff-trk - 1.0)^2, the quantity CMA-ES minimizes.
func (fe *FitnessEvaluator) Evaluate(value float64) float64 {
	keff := fe.runOnce(value)
	fitness := (keff - 1.0) * (keff - 1.0)
	if fitness < fe.best.fitness {
		fe.best.fitness = fitness
		fe.best.keff = keff
		fe.best.value = value
	}
	return fitness
}

// BestValue returns the geometric parameter value with the lowest fitness
// seen so far, and the k-eff-trk it produced.
func (fe *FitnessEvaluator) BestValue() (value, keff float64) {
	return fe.best.value, fe.best.keff
}

func (fe *FitnessEvaluator) runOnce(value float64) float64 {
	built := buildScene(fe.target, value)

	n := fe.cfg.Criticality.Particles
	master := rng.New(fe.cfg.Seed)
	bank := make([]transport.BankEntry, n)
	for i := uint64(0); i < n; i++ {
		bank[i] = built.Source.Sample(master)
	}

	c := &cycle.Controller{
		Model:     built.Model,
		Grid:      built.Materials.Master,
		Materials: built.Materials,
		Tallies:   tally.NewParentSet(),
		Pool:      &tally.Pool{},
		Master:    master,

		MaxRNGPerHistory: fe.cfg.RNG.MaxPerHistory,
		NParticles:       n,

		HistoryParams: transport.Params{
			EnergyFreeGasThreshold: fe.cfg.FreeGas.EnergyThreshold,
			AWRFreeGasThreshold:    fe.cfg.FreeGas.AWRThreshold,
			KeffEstimate:           1.0,
		},

		Bank:      bank,
		CycleType: cycle.Inactive,
	}

	for i := uint64(0); i < fe.cfg.Criticality.Inactive; i++ {
		c.CycleIndex = i
		if err := sim.RunCycle(c, fe.policy, 0); err != nil {
			return 0
		}
	}

	c.CycleType = cycle.Active
	for i := uint64(0); i < fe.cfg.Criticality.Active; i++ {
		c.CycleIndex = fe.cfg.Criticality.Inactive + i
		if err := sim.RunCycle(c, fe.policy, 0); err != nil {
			return c.Tallies.KeffTrack.Mean()
		}
	}

	return c.Tallies.KeffTrack.Mean()
}
