package tally

// ParentSet holds every observable output tally for the whole run:
// leakage, absorption, the three k-eff estimators, the (n,2n)/(n,3n)/(n,4n)
// reaction counters, and the chance-fission diagnostic counters keyed by MT.
type ParentSet struct {
	Leakage        Tally
	Absorption     Tally
	KeffTrack      Tally
	KeffCollision  Tally
	KeffAbsorption Tally
	N2N, N3N, N4N  Tally
	FissionChance  map[int]*Tally
}

// NewParentSet returns an empty parent set ready to accumulate.
func NewParentSet() *ParentSet {
	return &ParentSet{FissionChance: map[int]*Tally{}}
}

// Join sums every borrowed child into one cycle total per tally, returns
// each child to the pool (which resets it), and folds each total into its
// parent via Accumulate(nSrc).
func (ps *ParentSet) Join(children []*Child, pool *Pool, nSrc uint64) {
	var leak, abs, ktrk, kcol, kabs, n2n, n3n, n4n float64
	chance := map[int]float64{}

	for _, c := range children {
		leak += c.Leakage
		abs += c.Absorption
		ktrk += c.KeffTrack
		kcol += c.KeffCollision
		kabs += c.KeffAbsorption
		n2n += c.N2N
		n3n += c.N3N
		n4n += c.N4N
		for mt, w := range c.FissionChance {
			chance[mt] += w
		}
		pool.Return(c)
	}

	ps.Leakage.Accumulate(leak, nSrc)
	ps.Absorption.Accumulate(abs, nSrc)
	ps.KeffTrack.Accumulate(ktrk, nSrc)
	ps.KeffCollision.Accumulate(kcol, nSrc)
	ps.KeffAbsorption.Accumulate(kabs, nSrc)
	ps.N2N.Accumulate(n2n, nSrc)
	ps.N3N.Accumulate(n3n, nSrc)
	ps.N4N.Accumulate(n4n, nSrc)

	for mt, w := range chance {
		t, ok := ps.FissionChance[mt]
		if !ok {
			t = &Tally{}
			ps.FissionChance[mt] = t
		}
		t.Accumulate(w, nSrc)
	}
}

// DrainNoStats returns every borrowed child to the pool after an inactive
// cycle, discarding their contents without touching the parent series.
func DrainNoStats(children []*Child, pool *Pool) {
	for _, c := range children {
		pool.Return(c)
	}
}
