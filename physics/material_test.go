package physics

import (
	"math"
	"testing"
)

func TestMaterialMeanFreePath(t *testing.T) {
	master := &Grid{Energy: []float64{1e-11, 1e-4, 1e-2, 1e-1, 1.0, 5.0, 20.0}}
	iso := makeTestIsotope(master)

	mat := &Material{Name: "fuel", Nuclides: []Nuclide{{Isotope: iso, AtomicDensity: 0.048}}}
	mat.Finalize()

	if !mat.IsFissile() {
		t.Fatal("expected fissile material")
	}

	mfp := mat.MeanFreePath(master, 1.0)
	st := mat.SigmaTotal(master, 1.0)
	if math.Abs(mfp-1/st) > 1e-12 {
		t.Errorf("meanFreePath %v != 1/sigmaTotal %v", mfp, 1/st)
	}
}

func TestMaterialSampleIsotopeWeighted(t *testing.T) {
	master := &Grid{Energy: []float64{1e-11, 1e-4, 1e-2, 1e-1, 1.0, 5.0, 20.0}}
	iso1 := makeTestIsotope(master)
	iso2 := makeTestIsotope(master)
	iso2.Name = "test-238"

	mat := &Material{Nuclides: []Nuclide{
		{Isotope: iso1, AtomicDensity: 0.001},
		{Isotope: iso2, AtomicDensity: 0.047},
	}}
	mat.Finalize()

	counts := map[string]int{}
	for i := 0; i < 1000; i++ {
		xi := float64(i) / 1000
		picked, _ := mat.SampleIsotope(master, 1.0, xi)
		counts[picked.Name]++
	}
	if counts["test-238"] < counts["test-235"] {
		t.Errorf("expected the higher-density isotope to be sampled more often: %v", counts)
	}
}

func TestMaterialSigmaFissionZeroWhenNotFissile(t *testing.T) {
	master := &Grid{Energy: []float64{1e-11, 1e-4, 1e-2, 1e-1, 1.0, 5.0, 20.0}}
	iso := makeTestIsotope(master)
	iso.FissionKind = NoFission
	iso.Fission = make([]float64, len(iso.Energy))

	mat := &Material{Nuclides: []Nuclide{{Isotope: iso, AtomicDensity: 0.05}}}
	mat.Finalize()

	if mat.IsFissile() {
		t.Error("expected non-fissile material")
	}
	if mat.SigmaFission(master, 1.0) != 0 {
		t.Errorf("expected zero fission cross section, got %v", mat.SigmaFission(master, 1.0))
	}
}
