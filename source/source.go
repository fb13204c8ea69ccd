// Package source provides the source sampler interface and built-in
// samplers used to seed the first inactive cycle's fission bank.
package source

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/heliosmc/keff/geom"
	"github.com/heliosmc/keff/rng"
	"github.com/heliosmc/keff/transport"
)

// Sampler produces initial weight-1 source particles, each already located
// in its starting cell.
type Sampler interface {
	Sample(r *rng.Stream) transport.BankEntry
}

// maxRejectionAttempts bounds how many times a rejection sampler retries
// before giving up and returning the box center, so a degenerate geometry
// (e.g. a fissile region much smaller than its bounding box) cannot spin
// forever.
const maxRejectionAttempts = 10000

// Point sources every particle at a fixed position with a fixed energy and
// an isotropic direction.
type Point struct {
	Model    *geom.Model
	Position geom.Coordinate
	Energy   float64
}

func (p *Point) Sample(r *rng.Stream) transport.BankEntry {
	cix, _ := p.Model.FindCell(p.Position)
	return transport.BankEntry{
		Cell: cix,
		Particle: transport.Particle{
			Position:  p.Position,
			Direction: isotropicDirection(r),
			Energy:    p.Energy,
			Weight:    1.0,
			Alive:     true,
		},
	}
}

// Volume sources particles uniformly over an axis-aligned box, rejecting
// draws that land outside the geometry's fissile region.
type Volume struct {
	Model     *geom.Model
	Min, Max  geom.Coordinate
	Energy    float64
	IsFissile func(geom.CellIx) bool // nil accepts any located cell

	// MaxAttempts bounds rejection retries per sample, mirroring the
	// engine's max_source_samples reservation; 0 uses maxRejectionAttempts.
	MaxAttempts int
}

func (v *Volume) Sample(r *rng.Stream) transport.BankEntry {
	limit := v.MaxAttempts
	if limit <= 0 {
		limit = maxRejectionAttempts
	}
	for attempt := 0; attempt < limit; attempt++ {
		pos := mgl64.Vec3{
			lerp(v.Min[0], v.Max[0], r.Uniform()),
			lerp(v.Min[1], v.Max[1], r.Uniform()),
			lerp(v.Min[2], v.Max[2], r.Uniform()),
		}
		cix, ok := v.Model.FindCell(pos)
		if !ok {
			continue
		}
		if v.IsFissile != nil && !v.IsFissile(cix) {
			continue
		}
		return transport.BankEntry{
			Cell: cix,
			Particle: transport.Particle{
				Position:  pos,
				Direction: isotropicDirection(r),
				Energy:    v.Energy,
				Weight:    1.0,
				Alive:     true,
			},
		}
	}

	center := v.Min.Add(v.Max).Mul(0.5)
	cix, _ := v.Model.FindCell(center)
	return transport.BankEntry{
		Cell: cix,
		Particle: transport.Particle{
			Position:  center,
			Direction: isotropicDirection(r),
			Energy:    v.Energy,
			Weight:    1.0,
			Alive:     true,
		},
	}
}

func lerp(a, b, t float64) float64 { return a + t*(b-a) }

func isotropicDirection(r *rng.Stream) geom.Direction {
	mu := 2*r.Uniform() - 1
	phi := 2 * math.Pi * r.Uniform()
	sinTheta := math.Sqrt(math.Max(0, 1-mu*mu))
	return mgl64.Vec3{sinTheta * math.Cos(phi), sinTheta * math.Sin(phi), mu}
}
