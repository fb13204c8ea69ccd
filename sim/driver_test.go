package sim

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/heliosmc/keff/cycle"
	"github.com/heliosmc/keff/geom"
	"github.com/heliosmc/keff/physics"
	"github.com/heliosmc/keff/rng"
	"github.com/heliosmc/keff/tally"
	"github.com/heliosmc/keff/transport"
)

func newTestController(seed uint64) *cycle.Controller {
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
		Surfaces: []geom.Surface{{Kind: geom.Sphere, Center: mgl64.Vec3{0, 0, 0}, Radius: 8.741}},
		Cells:    []geom.Cell{{ID: 1, Surfaces: []geom.SurfaceIx{0}, RequiredSense: []int{-1}, MaterialIx: 0}},
	}

	bank := make([]transport.BankEntry, 200)
	for i := range bank {
		bank[i] = transport.BankEntry{
			Cell: 0,
			Particle: transport.Particle{
				Position:  mgl64.Vec3{0, 0, 0},
				Direction: mgl64.Vec3{1, 0, 0},
				Energy:    1.0,
				Weight:    1.0,
				Alive:     true,
			},
		}
	}

	return &cycle.Controller{
		Model:            model,
		Grid:             master,
		Materials:        mats,
		Tallies:          tally.NewParentSet(),
		Pool:             &tally.Pool{},
		Master:           rng.New(seed),
		MaxRNGPerHistory: 10000,
		NParticles:       200,
		HistoryParams:    transport.Params{EnergyFreeGasThreshold: 400.0, AWRFreeGasThreshold: 1.0, KeffEstimate: 1.0},
		Bank:             bank,
		CycleType:        cycle.Active,
	}
}

func TestSchedulingPoliciesAreReproducible(t *testing.T) {
	policies := []struct {
		name    string
		policy  Policy
		workers int
	}{
		{"single", Single, 1},
		{"coarse-1", Coarse, 1},
		{"coarse-4", Coarse, 4},
		{"coarse-16", Coarse, 16},
		{"cooperative-4", Cooperative, 4},
	}

	var referenceKeff float64
	var referenceBankLen int

	for i, p := range policies {
		c := newTestController(10)
		if err := RunCycle(c, p.policy, p.workers); err != nil {
			t.Fatalf("%s: RunCycle failed: %v", p.name, err)
		}
		if i == 0 {
			referenceKeff = c.Keff
			referenceBankLen = len(c.Bank)
			continue
		}
		if c.Keff != referenceKeff {
			t.Errorf("%s: k-eff %v != reference %v", p.name, c.Keff, referenceKeff)
		}
		if len(c.Bank) != referenceBankLen {
			t.Errorf("%s: next-generation bank length %d != reference %d", p.name, len(c.Bank), referenceBankLen)
		}
	}
}
