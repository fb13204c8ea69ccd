package transport

import (
	"math"

	"github.com/heliosmc/keff/geom"
	"github.com/heliosmc/keff/physics"
	"github.com/heliosmc/keff/rng"
)

// collide samples an isotope and reaction channel at the particle's current
// position/energy and applies it, mutating p in place. Returns terminate
// when the history ends here (capture or fission).
func collide(model *geom.Model, master *physics.Grid, mats *physics.MaterialSet, mat *physics.Material, p *Particle, r *rng.Stream, params Params, cycle uint64, result *Result, cell geom.CellIx) (terminate bool, err error) {
	if mat.IsFissile() {
		result.KeffCollision += p.Weight * mat.NuSigmaFission(master, p.Energy) / mat.SigmaTotal(master, p.Energy)
	}

	iso, masterIx := mat.SampleIsotope(master, p.Energy, r.Uniform())
	kind, mt := iso.SampleReaction(masterIx, p.Energy, r.Uniform())

	switch kind {
	case physics.ReactionCapture, physics.ReactionFission:
		return absorb(iso, masterIx, kind, p, r, params, result, cell), checkFinite(p, cycle)

	case physics.ReactionElastic:
		newE, newDir := physics.ElasticKinematics(iso.AWR, p.Energy, mat.Temperature, params.EnergyFreeGasThreshold, params.AWRFreeGasThreshold, p.Direction, r)
		p.Energy, p.Direction = newE, newDir
		return false, checkFinite(p, cycle)

	default: // inelastic
		newE, newDir := physics.ElasticKinematics(iso.AWR, p.Energy, mat.Temperature, params.EnergyFreeGasThreshold, params.AWRFreeGasThreshold, p.Direction, r)
		p.Energy, p.Direction = newE, newDir
		switch mt {
		case physics.MTN2N:
			result.N2N += p.Weight
		case physics.MTN3N:
			result.N3N += p.Weight
		case physics.MTN4N:
			result.N4N += p.Weight
		}
		return false, checkFinite(p, cycle)
	}
}

// absorb handles the absorption path (§4.4): records the absorption
// tally, the absorption-estimator k-eff contribution for fissile struck
// isotopes, and — if classified as fission — banks integer progeny.
func absorb(iso *physics.Isotope, masterIx int, kind physics.ReactionKind, p *Particle, r *rng.Stream, params Params, result *Result, cell geom.CellIx) bool {
	result.Absorption += p.Weight

	s := iso.At(masterIx, p.Energy)
	if iso.Fissile() {
		result.KeffAbsorption += p.Weight * (s.Fission / s.Absorption) * iso.Nu.Eval(p.Energy)
	}

	if kind != physics.ReactionFission {
		return true
	}

	if iso.FissionKind == physics.ChanceFission {
		chanceMT := iso.SampleChanceMT(masterIx, p.Energy, r.Uniform())
		result.FissionChance[chanceMT] += p.Weight
	}

	nuBar := iso.Nu.Eval(p.Energy)
	mu := p.Weight * nuBar / params.KeffEstimate
	nInt := math.Floor(mu)
	nu := int(nInt)
	if r.Uniform() < mu-nInt {
		nu++
	}

	for i := 0; i < nu; i++ {
		secondary := iso.SampleFissionSecondary(r)
		result.Progeny = append(result.Progeny, BankEntry{
			Cell: cell,
			Particle: Particle{
				Position:  p.Position,
				Direction: secondary.Direction,
				Energy:    secondary.Energy,
				Weight:    1.0,
				Alive:     true,
			},
		})
	}
	return true
}

func checkFinite(p *Particle, cycle uint64) error {
	if math.IsNaN(p.Energy) || math.IsInf(p.Energy, 0) || p.Energy < 0 {
		return &NumericError{Component: "transport", Cycle: cycle, Field: "energy"}
	}
	if math.IsNaN(p.Direction[0]) || math.IsNaN(p.Direction[1]) || math.IsNaN(p.Direction[2]) {
		return &NumericError{Component: "transport", Cycle: cycle, Field: "direction"}
	}
	return nil
}
