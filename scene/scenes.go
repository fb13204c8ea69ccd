package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/heliosmc/keff/geom"
	"github.com/heliosmc/keff/physics"
	"github.com/heliosmc/keff/source"
)

// thermalKT is room-temperature kT in MeV, the default for every built-in
// scene's fuel and moderator materials.
const thermalKT = 2.53e-8

// Built is what a scene constructor hands back: a ready geometry, its
// material set, and a source sampler for the first inactive cycle.
type Built struct {
	Model     *geom.Model
	Materials *physics.MaterialSet
	Source    source.Sampler
}

// Sphere builds a bare homogeneous U-235 sphere with a vacuum boundary,
// density 18.74 g/cc (scenario S1 in the engine's test matrix).
func Sphere(radius float64) *Built {
	master := sharedGrid()
	iso := u235(master)

	mat := &physics.Material{Name: "fuel", Temperature: thermalKT, Nuclides: []physics.Nuclide{
		{Isotope: iso, AtomicDensity: 0.04794},
	}}
	mat.Finalize()

	model := &geom.Model{
		Surfaces: []geom.Surface{
			{Kind: geom.Sphere, Center: mgl64.Vec3{0, 0, 0}, Radius: radius},
		},
		Cells: []geom.Cell{
			{ID: 1, Surfaces: []geom.SurfaceIx{0}, RequiredSense: []int{-1}, MaterialIx: 0},
		},
	}

	mats := &physics.MaterialSet{Master: master, Materials: []*physics.Material{mat}}

	return &Built{
		Model:     model,
		Materials: mats,
		Source:    &source.Point{Model: model, Position: mgl64.Vec3{0, 0, 0}, Energy: 2.0},
	}
}

// ChanceFissionSphere builds a bare homogeneous U-238 sphere whose fuel
// isotope supplies its fission cross section as separate chance-fission
// MTs (19/20/21/38) instead of a single composite MT=18, exercising the
// chance-fission synthesis path end to end (scenario S5).
func ChanceFissionSphere(radius float64) *Built {
	master := sharedGrid()
	iso := u238ChanceFission(master)

	mat := &physics.Material{Name: "fuel", Temperature: thermalKT, Nuclides: []physics.Nuclide{
		{Isotope: iso, AtomicDensity: 0.04794},
	}}
	mat.Finalize()

	model := &geom.Model{
		Surfaces: []geom.Surface{
			{Kind: geom.Sphere, Center: mgl64.Vec3{0, 0, 0}, Radius: radius},
		},
		Cells: []geom.Cell{
			{ID: 1, Surfaces: []geom.SurfaceIx{0}, RequiredSense: []int{-1}, MaterialIx: 0},
		},
	}

	mats := &physics.MaterialSet{Master: master, Materials: []*physics.Material{mat}}

	return &Built{
		Model:     model,
		Materials: mats,
		Source:    &source.Point{Model: model, Position: mgl64.Vec3{0, 0, 0}, Energy: 2.0},
	}
}

// ReflectingCubeLattice builds a reflecting cubic unit cell filled entirely
// with fuel (one cell, no separate pin or moderator region); with every face
// reflecting it stands for an infinite lattice of identical cells, per
// scenario S2. Leakage is exactly zero every cycle because every surface
// reflects.
func ReflectingCubeLattice(pitch float64) *Built {
	master := sharedGrid()
	iso := u235(master)

	mat := &physics.Material{Name: "fuel", Temperature: thermalKT, Nuclides: []physics.Nuclide{
		{Isotope: iso, AtomicDensity: 0.04794},
	}}
	mat.Finalize()

	half := pitch / 2
	model := &geom.Model{
		Surfaces: []geom.Surface{
			{Kind: geom.Plane, Point: mgl64.Vec3{-half, 0, 0}, Normal: mgl64.Vec3{1, 0, 0}, Reflecting: true},
			{Kind: geom.Plane, Point: mgl64.Vec3{half, 0, 0}, Normal: mgl64.Vec3{1, 0, 0}, Reflecting: true},
			{Kind: geom.Plane, Point: mgl64.Vec3{0, -half, 0}, Normal: mgl64.Vec3{0, 1, 0}, Reflecting: true},
			{Kind: geom.Plane, Point: mgl64.Vec3{0, half, 0}, Normal: mgl64.Vec3{0, 1, 0}, Reflecting: true},
			{Kind: geom.Plane, Point: mgl64.Vec3{0, 0, -half}, Normal: mgl64.Vec3{0, 0, 1}, Reflecting: true},
			{Kind: geom.Plane, Point: mgl64.Vec3{0, 0, half}, Normal: mgl64.Vec3{0, 0, 1}, Reflecting: true},
		},
		Cells: []geom.Cell{
			{
				ID:            1,
				Surfaces:      []geom.SurfaceIx{0, 1, 2, 3, 4, 5},
				RequiredSense: []int{1, -1, 1, -1, 1, -1},
				MaterialIx:    0,
			},
		},
	}

	mats := &physics.MaterialSet{Master: master, Materials: []*physics.Material{mat}}

	return &Built{
		Model:     model,
		Materials: mats,
		Source:    &source.Point{Model: model, Position: mgl64.Vec3{0, 0, 0}, Energy: 2.0},
	}
}

// TwoRegionSlab builds a fuel slab adjacent to a pure-absorber slab with a
// point source on the fuel slab's mid-plane, per scenario S3.
func TwoRegionSlab(fuelThickness float64) *Built {
	master := sharedGrid()
	fuelIso := u235(master)
	absorberIso := absorber(master)

	fuel := &physics.Material{Name: "fuel", Temperature: thermalKT, Nuclides: []physics.Nuclide{
		{Isotope: fuelIso, AtomicDensity: 0.04794},
	}}
	fuel.Finalize()

	poison := &physics.Material{Name: "absorber", Temperature: thermalKT, Nuclides: []physics.Nuclide{
		{Isotope: absorberIso, AtomicDensity: 0.13},
	}}
	poison.Finalize()

	const halfSpan = 50.0 // lateral reflecting extent, cm
	model := &geom.Model{
		Surfaces: []geom.Surface{
			{Kind: geom.Plane, Point: mgl64.Vec3{0, 0, 0}, Normal: mgl64.Vec3{0, 0, 1}, Reflecting: false},
			{Kind: geom.Plane, Point: mgl64.Vec3{0, 0, fuelThickness}, Normal: mgl64.Vec3{0, 0, 1}, Reflecting: false},
			{Kind: geom.Plane, Point: mgl64.Vec3{0, 0, fuelThickness + 20.0}, Normal: mgl64.Vec3{0, 0, 1}, Reflecting: false},
			{Kind: geom.Plane, Point: mgl64.Vec3{-halfSpan, 0, 0}, Normal: mgl64.Vec3{1, 0, 0}, Reflecting: true},
			{Kind: geom.Plane, Point: mgl64.Vec3{halfSpan, 0, 0}, Normal: mgl64.Vec3{1, 0, 0}, Reflecting: true},
			{Kind: geom.Plane, Point: mgl64.Vec3{0, -halfSpan, 0}, Normal: mgl64.Vec3{0, 1, 0}, Reflecting: true},
			{Kind: geom.Plane, Point: mgl64.Vec3{0, halfSpan, 0}, Normal: mgl64.Vec3{0, 1, 0}, Reflecting: true},
		},
		Cells: []geom.Cell{
			{ // fuel slab: 0 <= z <= fuelThickness
				ID:            1,
				Surfaces:      []geom.SurfaceIx{0, 1, 3, 4, 5, 6},
				RequiredSense: []int{1, -1, 1, -1, 1, -1},
				MaterialIx:    0,
			},
			{ // absorber slab: fuelThickness <= z <= fuelThickness+20
				ID:            2,
				Surfaces:      []geom.SurfaceIx{1, 2, 3, 4, 5, 6},
				RequiredSense: []int{1, -1, 1, -1, 1, -1},
				MaterialIx:    1,
			},
		},
	}

	mats := &physics.MaterialSet{Master: master, Materials: []*physics.Material{fuel, poison}}

	return &Built{
		Model:     model,
		Materials: mats,
		Source:    &source.Point{Model: model, Position: mgl64.Vec3{0, 0, fuelThickness / 2}, Energy: 2.0},
	}
}
