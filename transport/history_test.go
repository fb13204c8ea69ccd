package transport

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/heliosmc/keff/geom"
	"github.com/heliosmc/keff/physics"
	"github.com/heliosmc/keff/rng"
)

func bareSphereFixture(radius float64) (*geom.Model, *physics.Grid, *physics.MaterialSet) {
	master := &physics.Grid{Energy: []float64{1e-11, 1e-4, 1e-2, 1e-1, 1.0, 5.0, 20.0}}

	iso := &physics.Isotope{
		Name:        "u235",
		AWR:         235.0,
		Energy:      master.Energy,
		Total:       []float64{7, 6, 5, 4, 3, 2, 1.5},
		Elastic:     []float64{3, 2.5, 2, 1.5, 1, 0.8, 0.6},
		Absorption:  []float64{4, 3.5, 3, 2.5, 2, 1.2, 0.9},
		Fission:     []float64{3.5, 3, 2.6, 2.1, 1.7, 1.0, 0.7},
		FissionKind: physics.CompositeFission,
		Nu:          physics.NuSampler{Kind: physics.NuPolynomial, Coeffs: []float64{2.43}},
		Watt:        physics.WattSpectrum{A: 0.988, B: 2.249},
	}
	iso.BuildChildIndex(master)

	mat := &physics.Material{Name: "fuel", Nuclides: []physics.Nuclide{{Isotope: iso, AtomicDensity: 0.048}}}
	mat.Finalize()

	mats := &physics.MaterialSet{Master: master, Materials: []*physics.Material{mat}}

	model := &geom.Model{
		Surfaces: []geom.Surface{
			{Kind: geom.Sphere, Center: mgl64.Vec3{0, 0, 0}, Radius: radius},
		},
		Cells: []geom.Cell{
			{ID: 1, Surfaces: []geom.SurfaceIx{0}, RequiredSense: []int{-1}, MaterialIx: 0},
		},
	}

	return model, master, mats
}

func TestRunHistoryTerminates(t *testing.T) {
	model, master, mats := bareSphereFixture(8.741)
	r := rng.New(10)

	params := Params{EnergyFreeGasThreshold: 400.0, AWRFreeGasThreshold: 1.0, KeffEstimate: 1.0}

	for i := 0; i < 200; i++ {
		p := Particle{Position: mgl64.Vec3{0, 0, 0}, Direction: mgl64.Vec3{1, 0, 0}, Energy: 1.0, Weight: 1.0, Alive: true}
		result, err := Run(model, master, mats, 0, p, r, params, 0)
		if err != nil {
			t.Fatalf("history %d failed: %v", i, err)
		}
		if result.Leakage < 0 || result.Absorption < 0 {
			t.Fatalf("history %d produced a negative tally: %+v", i, result)
		}
		for _, prog := range result.Progeny {
			if prog.Particle.Energy <= 0 {
				t.Errorf("history %d produced non-positive progeny energy %v", i, prog.Particle.Energy)
			}
		}
	}
}

func TestRunHistoryConservesPopulation(t *testing.T) {
	model, master, mats := bareSphereFixture(8.741)
	r := rng.New(11)
	params := Params{EnergyFreeGasThreshold: 400.0, AWRFreeGasThreshold: 1.0, KeffEstimate: 1.0}

	p := Particle{Position: mgl64.Vec3{0, 0, 0}, Direction: mgl64.Vec3{0, 0, 1}, Energy: 1.0, Weight: 1.0, Alive: true}
	result, err := Run(model, master, mats, 0, p, r, params, 0)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}

	sum := 0.0
	for _, prog := range result.Progeny {
		sum += prog.Particle.Weight
	}
	if sum != result.Population {
		t.Errorf("population %v != sum of progeny weights %v", result.Population, sum)
	}
}
