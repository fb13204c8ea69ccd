package physics

import "math"

// Nuclide pairs an isotope with its atomic density (atoms/barn-cm) inside a
// material.
type Nuclide struct {
	Isotope       *Isotope
	AtomicDensity float64
}

// Material is an unordered collection of nuclides. All macroscopic
// quantities are computed against the run's shared master Grid so every
// isotope lookup shares one binary search.
type Material struct {
	Name        string
	Nuclides    []Nuclide
	Temperature float64 // kT, MeV; drives the free-gas elastic-kinematics threshold

	fissile bool // cached at construction
}

// Finalize caches derived flags. Call once after Nuclides is populated.
func (m *Material) Finalize() {
	for _, n := range m.Nuclides {
		if n.Isotope.Fissile() {
			m.fissile = true
			break
		}
	}
}

// IsFissile reports whether any nuclide in this material carries fission
// cross sections.
func (m *Material) IsFissile() bool {
	return m.fissile
}

// macroAt sums N_i * sigma_i over nuclides for the given per-isotope sigma
// accessor, at the shared master-grid index masterIx.
func (m *Material) macroAt(masterIx int, e float64, pick func(Sigmas) float64) float64 {
	total := 0.0
	for _, n := range m.Nuclides {
		total += n.AtomicDensity * pick(n.Isotope.At(masterIx, e))
	}
	return total
}

// SigmaTotal returns the macroscopic total cross section Σ_t(E).
func (m *Material) SigmaTotal(master *Grid, e float64) float64 {
	return m.macroAt(master.Locate(e), e, func(s Sigmas) float64 { return s.Total })
}

// SigmaFission returns the macroscopic fission cross section Σ_f(E).
func (m *Material) SigmaFission(master *Grid, e float64) float64 {
	return m.macroAt(master.Locate(e), e, func(s Sigmas) float64 { return s.Fission })
}

// NuSigmaFission returns ν̄Σ_f(E), the fission-neutron production rate.
func (m *Material) NuSigmaFission(master *Grid, e float64) float64 {
	masterIx := master.Locate(e)
	total := 0.0
	for _, n := range m.Nuclides {
		if !n.Isotope.Fissile() {
			continue
		}
		sf := n.Isotope.At(masterIx, e).Fission
		total += n.AtomicDensity * sf * n.Isotope.Nu.Eval(e)
	}
	return total
}

// MeanFreePath returns 1/Σ_t(E), or +Inf in the degenerate zero-density case.
func (m *Material) MeanFreePath(master *Grid, e float64) float64 {
	st := m.SigmaTotal(master, e)
	if st <= 0 {
		return math.Inf(1)
	}
	return 1 / st
}

// SampleIsotope picks a nuclide with probability proportional to
// N_i·σ_i,total(E) and returns its isotope and the master-grid index
// already located for e, so the caller need not re-locate.
func (m *Material) SampleIsotope(master *Grid, e, xi float64) (*Isotope, int) {
	masterIx := master.Locate(e)
	total := m.macroAt(masterIx, e, func(s Sigmas) float64 { return s.Total })
	target := xi * total
	acc := 0.0
	for _, n := range m.Nuclides {
		acc += n.AtomicDensity * n.Isotope.At(masterIx, e).Total
		if target <= acc {
			return n.Isotope, masterIx
		}
	}
	last := m.Nuclides[len(m.Nuclides)-1]
	return last.Isotope, masterIx
}

// MaterialSet is the arena of materials a geometry's cells index into by
// MaterialIx. A negative index denotes void.
type MaterialSet struct {
	Master    *Grid
	Materials []*Material
}

// Get returns the material at ix, or nil if ix denotes void.
func (ms *MaterialSet) Get(ix int) *Material {
	if ix < 0 {
		return nil
	}
	return ms.Materials[ix]
}
