package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func sphereModel(radius float64) *Model {
	return &Model{
		Surfaces: []Surface{
			{Kind: Sphere, Center: mgl64.Vec3{0, 0, 0}, Radius: radius},
		},
		Cells: []Cell{
			{ID: 1, Surfaces: []SurfaceIx{0}, RequiredSense: []int{-1}, MaterialIx: 0},
			{ID: 2, Surfaces: []SurfaceIx{0}, RequiredSense: []int{-1}, Negated: true, MaterialIx: -1},
		},
	}
}

func TestSenseInsideOutside(t *testing.T) {
	m := sphereModel(5.0)
	inside := mgl64.Vec3{1, 0, 0}
	outside := mgl64.Vec3{10, 0, 0}

	if m.Surfaces[0].Sense(inside) != -1 {
		t.Error("expected inside point to have sense -1")
	}
	if m.Surfaces[0].Sense(outside) != 1 {
		t.Error("expected outside point to have sense +1")
	}
}

func TestFindCellPartition(t *testing.T) {
	m := sphereModel(5.0)

	cix, ok := m.FindCell(mgl64.Vec3{1, 0, 0})
	if !ok || m.Cells[cix].ID != 1 {
		t.Errorf("expected point inside sphere to be in cell 1, got %v ok=%v", cix, ok)
	}

	cix, ok = m.FindCell(mgl64.Vec3{10, 0, 0})
	if !ok || m.Cells[cix].ID != 2 {
		t.Errorf("expected point outside sphere to be in cell 2, got %v ok=%v", cix, ok)
	}
}

func TestIntersectSphereFromCenter(t *testing.T) {
	m := sphereModel(5.0)
	cix, _ := m.FindCell(mgl64.Vec3{0, 0, 0})

	_, sense, dist, ok := m.Intersect(cix, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0})
	if !ok {
		t.Fatal("expected intersection")
	}
	if math.Abs(dist-5.0) > 1e-9 {
		t.Errorf("expected distance 5.0, got %v", dist)
	}
	if sense != -1 {
		t.Errorf("expected required sense -1 for the fuel cell, got %d", sense)
	}
}

func TestReflectIdempotent(t *testing.T) {
	s := &Surface{Kind: Plane, Point: mgl64.Vec3{0, 0, 0}, Normal: mgl64.Vec3{0, 0, 1}, Reflecting: true}
	dir := mgl64.Vec3{0.3, 0.4, 0.866}
	dir = dir.Normalize()

	once := s.Reflect(mgl64.Vec3{0, 0, 0}, dir)
	twice := s.Reflect(mgl64.Vec3{0, 0, 0}, once)

	for i := 0; i < 3; i++ {
		if math.Abs(twice[i]-dir[i]) > 1e-14 {
			t.Errorf("reflecting twice did not restore direction: %v vs %v", twice, dir)
		}
	}
}

func TestNonVoidTransit(t *testing.T) {
	// Two concentric spheres: inner is void, outer shell has a material.
	m := &Model{
		Surfaces: []Surface{
			{Kind: Sphere, Center: mgl64.Vec3{0, 0, 0}, Radius: 3.0},
			{Kind: Sphere, Center: mgl64.Vec3{0, 0, 0}, Radius: 6.0},
		},
		Cells: []Cell{
			{ID: 1, Surfaces: []SurfaceIx{0}, RequiredSense: []int{-1}, MaterialIx: -1},               // void core
			{ID: 2, Surfaces: []SurfaceIx{0, 1}, RequiredSense: []int{1, -1}, MaterialIx: 0},           // fuel shell
			{ID: 3, Surfaces: []SurfaceIx{1}, RequiredSense: []int{1}, Negated: false, MaterialIx: -2}, // unreachable outside, unused here
		},
	}

	pos := mgl64.Vec3{0, 0, 0}
	dir := mgl64.Vec3{1, 0, 0}
	cix, escaped := m.NonVoid(0, &pos, &dir)

	if escaped {
		t.Fatal("expected the particle to reach the fuel shell, not escape")
	}
	if m.Cells[cix].MaterialIx < 0 {
		t.Errorf("expected to land in a material cell, got cell %d", m.Cells[cix].ID)
	}
	if math.Abs(pos[0]-(3.0+NudgeEps)) > 1e-9 {
		t.Errorf("expected position at the void/fuel boundary plus nudge, got %v", pos)
	}
	if dir != (mgl64.Vec3{1, 0, 0}) {
		t.Errorf("expected direction unchanged through a transmissive void, got %v", dir)
	}
}

func TestNegatedCellContains(t *testing.T) {
	m := sphereModel(5.0)
	outer := &m.Cells[1]

	if outer.Contains(mgl64.Vec3{1, 0, 0}, m.Surfaces) {
		t.Error("negated outer cell should not contain an interior point")
	}
	if !outer.Contains(mgl64.Vec3{10, 0, 0}, m.Surfaces) {
		t.Error("negated outer cell should contain an exterior point")
	}
}
