package physics

import (
	"fmt"
	"log/slog"
	"sort"
)

// FissionStyle tags how an isotope's fission cross section was supplied.
type FissionStyle int

const (
	NoFission       FissionStyle = iota
	CompositeFission              // a single MT=18 total-fission cross section
	ChanceFission                  // synthesised from MT 19/20/21/38
)

// MT numbers the engine distinguishes by name (ENDF nomenclature).
const (
	MTElastic    = 2
	MTN2N        = 16
	MTN3N        = 17
	MTFission    = 18
	MTChance1    = 19
	MTChance2    = 20
	MTChance3    = 21
	MTAbsorption = 27
	MTN4N        = 37
	MTChance4    = 38
)

// ReactionKind is the closed set of reaction outcomes a collision samples.
type ReactionKind int

const (
	ReactionCapture ReactionKind = iota
	ReactionFission
	ReactionElastic
	ReactionInelastic
)

// Isotope is an immutable physics view: total/absorption/fission/elastic
// cross sections on its own local energy grid, plus a precomputed index map
// from the shared master grid so a lookup costs one binary search on the
// master grid and then O(1) indexing into this isotope's own tables.
type Isotope struct {
	Name string
	AWR  float64

	Energy     []float64 // isotope-local energy grid (MeV), ascending
	Total      []float64
	Elastic    []float64
	Absorption []float64 // capture + fission
	Fission    []float64 // zero-valued if NoFission

	childIndex []int // len(master.Energy); childIndex[i] brackets master.Energy[i] in Energy

	FissionKind FissionStyle
	Nu          NuSampler
	Watt        WattSpectrum

	// Chance-fission bookkeeping: present only when FissionKind == ChanceFission.
	ChanceMTs []int
	ChanceXS  [][]float64 // aligned to Energy, one slice per ChanceMTs entry

	// Inelastic channels besides elastic and fission, aligned to Energy.
	InelasticMTs []int
	InelasticXS  [][]float64
}

// BuildChildIndex precomputes the master-grid-index to this isotope's-own
// local-grid-index map. Must be called once after Energy is populated and
// before any probability lookup. A chance-fission isotope with no nu-bar
// data (empty Nu sampler) is demoted to NoFission here, with a warning.
func (iso *Isotope) BuildChildIndex(master *Grid) {
	iso.childIndex = make([]int, len(master.Energy))
	for i, e := range master.Energy {
		iso.childIndex[i] = localBracket(iso.Energy, e)
	}
	if iso.FissionKind == ChanceFission && len(iso.Nu.Coeffs) == 0 && len(iso.Nu.Nu) == 0 {
		slog.Warn("chance-fission isotope has no nu-bar data; treating it as non-fissile", "isotope", iso.Name)
		iso.FissionKind = NoFission
	}
}

// localBracket returns j such that energy[j] <= e < energy[j+1], clamped.
func localBracket(energy []float64, e float64) int {
	if e <= energy[0] {
		return 0
	}
	if e >= energy[len(energy)-1] {
		return len(energy) - 2
	}
	j := sort.Search(len(energy), func(k int) bool { return energy[k] > e }) - 1
	if j < 0 {
		j = 0
	}
	if j > len(energy)-2 {
		j = len(energy) - 2
	}
	return j
}

// sigmaAt interpolates xs linear-linear at energy e using the isotope's own
// grid, given the master-grid index masterIx this isotope was looked up at.
func (iso *Isotope) sigmaAt(xs []float64, masterIx int, e float64) float64 {
	j := iso.childIndex[masterIx]
	e0, e1 := iso.Energy[j], iso.Energy[j+1]
	if e1 == e0 {
		return xs[j]
	}
	t := (e - e0) / (e1 - e0)
	return xs[j] + t*(xs[j+1]-xs[j])
}

// Sigmas bundles the four interpolated cross sections the transport loop
// needs per collision, computed at the same grid index so their ratios sum
// to 1 exactly within the interpolation cell.
type Sigmas struct {
	Total      float64
	Absorption float64
	Fission    float64
	Elastic    float64
}

// At returns the interpolated cross sections for this isotope at energy e,
// given the master grid's bracketing index masterIx.
func (iso *Isotope) At(masterIx int, e float64) Sigmas {
	s := Sigmas{
		Total:      iso.sigmaAt(iso.Total, masterIx, e),
		Absorption: iso.sigmaAt(iso.Absorption, masterIx, e),
		Elastic:    iso.sigmaAt(iso.Elastic, masterIx, e),
	}
	if iso.FissionKind != NoFission {
		s.Fission = iso.sigmaAt(iso.Fission, masterIx, e)
	}
	return s
}

// AbsorptionProb, FissionProb, ElasticProb are sigma/sigma_total at the same
// grid point, so by construction they are consistent probabilities.
func (iso *Isotope) AbsorptionProb(masterIx int, e float64) float64 {
	s := iso.At(masterIx, e)
	return s.Absorption / s.Total
}

func (iso *Isotope) FissionProb(masterIx int, e float64) float64 {
	s := iso.At(masterIx, e)
	return s.Fission / s.Total
}

func (iso *Isotope) ElasticProb(masterIx int, e float64) float64 {
	s := iso.At(masterIx, e)
	return s.Elastic / s.Total
}

// Fissile reports whether this isotope carries a fission cross section.
func (iso *Isotope) Fissile() bool {
	return iso.FissionKind != NoFission
}

// SampleReaction classifies a collision per the engine's channel-selection
// rule: absorption (capture or fission) if xi < pa; elastic if the residual
// falls within pe; otherwise an inelastic MT chosen proportional to its
// sigma at e.
func (iso *Isotope) SampleReaction(masterIx int, e, xi float64) (ReactionKind, int) {
	s := iso.At(masterIx, e)
	pa := s.Absorption / s.Total
	pf := 0.0
	if iso.Fissile() {
		pf = s.Fission / s.Total
	}
	pe := s.Elastic / s.Total

	if xi < pa {
		if iso.Fissile() && xi > pa-pf {
			return ReactionFission, MTFission
		}
		return ReactionCapture, MTAbsorption
	}
	if xi-pa <= pe {
		return ReactionElastic, MTElastic
	}
	return ReactionInelastic, iso.sampleInelasticMT(masterIx, e, xi-pa-pe)
}

// sampleInelasticMT chooses among the isotope's non-elastic, non-fission
// channels weighted by their sigma at e.
func (iso *Isotope) sampleInelasticMT(masterIx int, e, residual float64) int {
	if len(iso.InelasticMTs) == 0 {
		return 0
	}
	total := 0.0
	vals := make([]float64, len(iso.InelasticMTs))
	for i, xs := range iso.InelasticXS {
		vals[i] = iso.sigmaAt(xs, masterIx, e)
		total += vals[i]
	}
	if total <= 0 {
		return iso.InelasticMTs[0]
	}
	target := residual * total
	acc := 0.0
	for i, v := range vals {
		acc += v
		if target <= acc {
			return iso.InelasticMTs[i]
		}
	}
	return iso.InelasticMTs[len(iso.InelasticMTs)-1]
}

// SampleChanceMT chooses which chance-fission MT fired, weighted by each
// chance's own sigma at e, for isotopes built with synthesised composite
// fission (FissionKind == ChanceFission).
func (iso *Isotope) SampleChanceMT(masterIx int, e, xi float64) int {
	total := 0.0
	vals := make([]float64, len(iso.ChanceMTs))
	for i, xs := range iso.ChanceXS {
		vals[i] = iso.sigmaAt(xs, masterIx, e)
		total += vals[i]
	}
	if total <= 0 {
		return iso.ChanceMTs[0]
	}
	target := xi * total
	acc := 0.0
	for i, v := range vals {
		acc += v
		if target <= acc {
			return iso.ChanceMTs[i]
		}
	}
	return iso.ChanceMTs[len(iso.ChanceMTs)-1]
}

// PhysicsError reports a cross-section table defect discovered at startup
// or during a history (a missing required MT, an absent NU block).
type PhysicsError struct {
	Isotope string
	Reason  string
}

func (e *PhysicsError) Error() string {
	return fmt.Sprintf("physics error for isotope %s: %s", e.Isotope, e.Reason)
}
