// Package geom implements the constructive-solid-geometry model: surfaces,
// cells, and the walker operations a particle history uses to cross from
// one cell to the next. Geometry is stored in arena form — flat slices of
// Surface and Cell indexed by SurfaceIx/CellIx — so cross-references never
// form ownership cycles.
package geom

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// NudgeEps is the engine-wide distance a particle is pushed forward after
// crossing a surface, so the next intersection search does not immediately
// re-hit the surface it just left.
const NudgeEps = 1e-12

// Coordinate is a position in 3-space.
type Coordinate = mgl64.Vec3

// Direction is a unit vector. Callers are responsible for normalizing after
// any operation that might perturb its length (Invariant: ‖dir‖ = 1 within
// 1 ULP after each rotation).
type Direction = mgl64.Vec3

// SurfaceIx indexes into a Model's Surfaces slice.
type SurfaceIx int

// CellIx indexes into a Model's Cells slice. NoCell marks "outside the
// domain" or "not yet located".
type CellIx int

const NoCell CellIx = -1

// SurfaceKind tags the closed set of supported surface shapes.
type SurfaceKind int

const (
	Plane SurfaceKind = iota
	Sphere
	Cylinder
)

// Surface is an implicit oriented surface f(x) = 0, tagged by kind rather
// than dispatched through an interface, per the engine's closed reaction/
// surface/distribution variant convention.
type Surface struct {
	Kind SurfaceKind

	// Plane: Point + Normal (unit). f(x) = (x-Point)·Normal
	Point  Coordinate
	Normal Direction

	// Sphere / Cylinder: Center + Radius. f(x) = |x-Center|^2 - Radius^2
	// projected orthogonally to Normal for the cylinder case (Normal is the
	// cylinder axis direction, unit length).
	Center Coordinate
	Radius float64

	Reflecting bool
}

// Sense returns the signed side of x relative to the surface: +1 if
// f(x) >= 0, -1 otherwise.
func (s *Surface) Sense(x Coordinate) int {
	if s.f(x) >= 0 {
		return 1
	}
	return -1
}

func (s *Surface) f(x Coordinate) float64 {
	switch s.Kind {
	case Plane:
		return x.Sub(s.Point).Dot(s.Normal)
	case Sphere:
		d := x.Sub(s.Center)
		return d.Dot(d) - s.Radius*s.Radius
	case Cylinder:
		d := x.Sub(s.Center)
		axial := d.Dot(s.Normal)
		radial := d.Sub(s.Normal.Mul(axial))
		return radial.Dot(radial) - s.Radius*s.Radius
	default:
		return 0
	}
}

// Intersect returns the smallest positive distance along dir from pos to
// this surface, or ok=false if there is no positive-distance root.
func (s *Surface) Intersect(pos Coordinate, dir Direction) (dist float64, ok bool) {
	switch s.Kind {
	case Plane:
		denom := dir.Dot(s.Normal)
		if denom == 0 {
			return 0, false
		}
		t := -s.f(pos) / denom
		if t <= 0 {
			return 0, false
		}
		return t, true
	case Sphere:
		return quadraticIntersect(pos.Sub(s.Center), dir, s.Radius)
	case Cylinder:
		d := pos.Sub(s.Center)
		axial := d.Dot(s.Normal)
		dAxial := dir.Dot(s.Normal)
		radialPos := d.Sub(s.Normal.Mul(axial))
		radialDir := dir.Sub(s.Normal.Mul(dAxial))
		return quadraticIntersect(radialPos, radialDir, s.Radius)
	default:
		return 0, false
	}
}

// quadraticIntersect solves |p + t*d|^2 = r^2 for the smallest positive t.
func quadraticIntersect(p, d mgl64.Vec3, r float64) (float64, bool) {
	a := d.Dot(d)
	if a == 0 {
		return 0, false
	}
	b := 2 * p.Dot(d)
	c := p.Dot(p) - r*r
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)
	best, ok := -1.0, false
	for _, t := range []float64{t1, t2} {
		if t > 0 && (!ok || t < best) {
			best, ok = t, true
		}
	}
	return best, ok
}

// Reflect mirrors dir across this surface's local normal at x.
func (s *Surface) Reflect(x Coordinate, dir Direction) Direction {
	n := s.normalAt(x)
	return dir.Sub(n.Mul(2 * dir.Dot(n))).Normalize()
}

func (s *Surface) normalAt(x Coordinate) Direction {
	switch s.Kind {
	case Plane:
		return s.Normal
	case Sphere:
		return x.Sub(s.Center).Normalize()
	case Cylinder:
		d := x.Sub(s.Center)
		axial := d.Dot(s.Normal)
		radial := d.Sub(s.Normal.Mul(axial))
		return radial.Normalize()
	default:
		return Direction{0, 0, 1}
	}
}

// Cell is a user id plus an ordered list of (surface, required sense)
// pairs, plus a NEGATED flag, plus an index into the material table
// (-1 = void).
type Cell struct {
	ID            int
	Surfaces      []SurfaceIx
	RequiredSense []int
	Negated       bool
	MaterialIx    int // -1 = void
}

// Contains implements the cell point-containment rule from the engine's
// data model: non-negated cells require every surface sense to match;
// negated cells require at least one mismatch.
func (c *Cell) Contains(x Coordinate, surfaces []Surface) bool {
	allMatch := true
	for i, sIx := range c.Surfaces {
		if surfaces[sIx].Sense(x) != c.RequiredSense[i] {
			allMatch = false
			break
		}
	}
	if c.Negated {
		return !allMatch
	}
	return allMatch
}

// Model is the arena holding the whole CSG tree: flat surface and cell
// slices, indexed rather than linked.
type Model struct {
	Surfaces []Surface
	Cells    []Cell
}

// FindCell locates the cell containing x by linear scan of the partition.
// The data model's invariant guarantees at most one match; scanning in
// registration order breaks no tie because there should be none.
func (m *Model) FindCell(x Coordinate) (CellIx, bool) {
	for i := range m.Cells {
		if m.Cells[i].Contains(x, m.Surfaces) {
			return CellIx(i), true
		}
	}
	return NoCell, false
}

// Intersect returns the minimum positive crossing distance over a cell's
// surfaces, with ties broken by first-registered order.
func (m *Model) Intersect(cix CellIx, pos Coordinate, dir Direction) (sIx SurfaceIx, sense int, dist float64, ok bool) {
	cell := &m.Cells[cix]
	best := -1.0
	bestI := -1
	for i, s := range cell.Surfaces {
		d, hit := m.Surfaces[s].Intersect(pos, dir)
		if hit && (bestI == -1 || d < best) {
			best, bestI = d, i
		}
	}
	if bestI == -1 {
		return 0, 0, 0, false
	}
	s := cell.Surfaces[bestI]
	return s, cell.RequiredSense[bestI], best, true
}

// Cross handles the boundary condition for a particle arriving at surface
// sIx with incoming sense senseIn. On a reflecting surface the cell is
// unchanged and the direction is mirrored in place. Otherwise the particle
// is located by its (already advanced and nudged) position: found means
// transmission into a neighbouring cell, not-found means the vacuum
// boundary and the caller records leakage.
func (m *Model) Cross(sIx SurfaceIx, pos Coordinate, dir *Direction) (newCell CellIx, alive bool) {
	s := &m.Surfaces[sIx]
	if s.Reflecting {
		*dir = s.Reflect(pos, *dir)
		return NoCell, true // caller keeps current cell
	}
	if cix, ok := m.FindCell(pos); ok {
		return cix, true
	}
	return NoCell, false
}

// NonVoid drives pos/dir forward at constant energy (free-flight) across
// void cells until either the particle enters a cell with a material
// (MaterialIx >= 0) or escapes the domain. The invariant on a non-escaped
// return is that cix names a cell whose material is non-null.
func (m *Model) NonVoid(cix CellIx, pos *Coordinate, dir *Direction) (newCell CellIx, escaped bool) {
	if cix == NoCell {
		return NoCell, true // outside every cell: already out of the domain
	}
	for m.Cells[cix].MaterialIx < 0 {
		sIx, _, dist, ok := m.Intersect(cix, *pos, *dir)
		if !ok {
			return NoCell, true
		}
		*pos = pos.Add(dir.Mul(dist))

		nc, alive := m.Cross(sIx, *pos, dir)
		if !alive {
			return NoCell, true
		}
		*pos = pos.Add(dir.Mul(NudgeEps))
		if nc == NoCell {
			nc = cix // reflecting surface: same cell, direction already mirrored
		}
		cix = nc
	}
	return cix, false
}

// GeometryError describes a fatal inconsistency in the geometry model. The
// walker methods in this package do not return it: Cross treats a point
// that no cell contains as having left through a vacuum boundary, so a hole
// in the CSG is indistinguishable from leakage.
type GeometryError struct {
	Component   string
	Cycle       uint64
	Fingerprint string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("geometry error in %s at cycle %d: %s", e.Component, e.Cycle, e.Fingerprint)
}

