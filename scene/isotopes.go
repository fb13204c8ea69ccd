// Package scene provides built-in test geometries — a bare sphere, a
// reflecting lattice cell, and a two-region slab — driven entirely by
// configuration rather than a full input-deck parser.
package scene

import (
	"math"

	"github.com/heliosmc/keff/physics"
)

// sharedGrid is the master energy grid every built-in scene's isotopes are
// tabulated against.
func sharedGrid() *physics.Grid {
	return &physics.Grid{Energy: []float64{
		1e-11, 1e-9, 1e-7, 1e-5, 1e-3, 1e-2, 1e-1, 1.0, 2.0, 5.0, 10.0, 20.0,
	}}
}

// u235 returns a representative fissile isotope with a composite fission
// cross section, tabulated on the shared grid.
func u235(master *physics.Grid) *physics.Isotope {
	n := len(master.Energy)
	total := fallingCurve(n, 680.0, 0.55)
	elastic := scaleCurve(total, 0.30)
	absorption := subtractCurve(total, elastic)
	fission := scaleCurve(absorption, 0.85)

	iso := &physics.Isotope{
		Name:        "U-235",
		AWR:         235.04,
		Energy:      master.Energy,
		Total:       total,
		Elastic:     elastic,
		Absorption:  absorption,
		Fission:     fission,
		FissionKind: physics.CompositeFission,
		Nu:          physics.NuSampler{Kind: physics.NuPolynomial, Coeffs: []float64{2.43, 0.066}},
		Watt:        physics.WattSpectrum{A: 0.988, B: 2.249},
	}
	iso.BuildChildIndex(master)
	return iso
}

// u238ChanceFission returns a fissile isotope whose fission cross section
// is supplied as separate first/second/third/fourth-chance MTs (19, 20,
// 21, 38) rather than a composite MT=18, exercising the chance-fission
// synthesis path. Its total, elastic, absorption and composite-fission
// curves follow the same peak/total/absorption/fission decomposition as
// u235, so the two isotopes are directly comparable under the composite-σ
// equivalence property (scenario S5): SampleReaction only ever consults
// the composite Fission curve, so classifying a collision behaves
// identically whether the isotope's FissionKind is Composite or Chance —
// only the post-hoc MT attribution (via SampleChanceMT) differs.
func u238ChanceFission(master *physics.Grid) *physics.Isotope {
	n := len(master.Energy)
	total := fallingCurve(n, 12.0, 0.4)
	elastic := scaleCurve(total, 0.55)
	absorption := subtractCurve(total, elastic)
	fission := scaleCurve(absorption, 0.60)

	// chanceWeights sum to 1 so chance1+chance2+chance3+chance4 reconstructs
	// fission exactly, at every grid point.
	chanceWeights := []float64{0.45, 0.30, 0.18, 0.07}
	chanceXS := make([][]float64, len(chanceWeights))
	for i, w := range chanceWeights {
		chanceXS[i] = scaleCurve(fission, w)
	}

	iso := &physics.Isotope{
		Name:        "U-238",
		AWR:         238.05,
		Energy:      master.Energy,
		Total:       total,
		Elastic:     elastic,
		Absorption:  absorption,
		Fission:     fission,
		FissionKind: physics.ChanceFission,
		ChanceMTs:   []int{physics.MTChance1, physics.MTChance2, physics.MTChance3, physics.MTChance4},
		ChanceXS:    chanceXS,
		Nu:          physics.NuSampler{Kind: physics.NuPolynomial, Coeffs: []float64{2.8, 0.12}},
		Watt:        physics.WattSpectrum{A: 1.03, B: 2.29},
	}
	iso.BuildChildIndex(master)
	return iso
}

// absorber returns a strongly-absorbing, non-fissile isotope for the
// two-region slab scene.
func absorber(master *physics.Grid) *physics.Isotope {
	n := len(master.Energy)
	total := fallingCurve(n, 3840.0, 0.4)
	elastic := scaleCurve(total, 0.0008)
	absorption := subtractCurve(total, elastic)

	iso := &physics.Isotope{
		Name:       "B-10",
		AWR:        10.01,
		Energy:     master.Energy,
		Total:      total,
		Elastic:    elastic,
		Absorption: absorption,
		Fission:    make([]float64, n),
	}
	iso.BuildChildIndex(master)
	return iso
}

// fallingCurve synthesises a monotonically decreasing tabulated total cross
// section: xs(E) = peak / E^power, evaluated at the shared grid's energies.
// Per-channel curves are never derived independently from their own
// peak/power pair — they are always a fraction of a single total curve
// (scaleCurve/subtractCurve below), so Total = Elastic + Absorption and
// Fission <= Absorption hold exactly at every grid point by construction.
func fallingCurve(n int, peak, power float64) []float64 {
	grid := sharedGrid().Energy
	out := make([]float64, n)
	for i, e := range grid {
		out[i] = peak / math.Pow(e, power)
	}
	return out
}

// scaleCurve returns frac*curve[i] elementwise.
func scaleCurve(curve []float64, frac float64) []float64 {
	out := make([]float64, len(curve))
	for i, v := range curve {
		out[i] = v * frac
	}
	return out
}

// subtractCurve returns a[i]-b[i] elementwise.
func subtractCurve(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}
