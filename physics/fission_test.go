package physics

import (
	"math"
	"testing"

	"github.com/heliosmc/keff/rng"
)

func TestWattSpectrumProducesPositiveEnergies(t *testing.T) {
	w := WattSpectrum{A: 0.988, B: 2.249}
	r := rng.New(1)

	for i := 0; i < 1000; i++ {
		e := w.Sample(r)
		if e <= 0 || math.IsNaN(e) || math.IsInf(e, 0) {
			t.Fatalf("sampled invalid fission energy %v", e)
		}
	}
}

func TestSampleFissionSecondaryDirectionIsUnit(t *testing.T) {
	iso := &Isotope{Watt: WattSpectrum{A: 0.988, B: 2.249}}
	r := rng.New(7)

	for i := 0; i < 100; i++ {
		p := iso.SampleFissionSecondary(r)
		len2 := p.Direction.Dot(p.Direction)
		if math.Abs(len2-1) > 1e-9 {
			t.Errorf("fission secondary direction not unit length: |d|^2=%v", len2)
		}
	}
}
