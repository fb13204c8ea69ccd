package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/heliosmc/keff/rng"
)

// WattSpectrum is the emission-energy distribution for prompt fission
// neutrons, f(E) = C * exp(-E/a) * sinh(sqrt(b*E)), parameterised per
// isotope.
type WattSpectrum struct {
	A, B float64 // MeV, MeV^-1
}

// Sample draws a fission-neutron emission energy via the standard
// rejection scheme for the Watt spectrum (Forster/Leppänen form).
func (w WattSpectrum) Sample(r *rng.Stream) float64 {
	g := math.Sqrt(math.Pow(1+w.B*w.A/8, 2)-1) + (1 + w.B*w.A/8)
	m := g - 1
	for {
		x := -math.Log(r.Uniform())
		y := -math.Log(r.Uniform())
		if (y-m*(x+1))*(y-m*(x+1)) <= w.B*w.A*g*x {
			return w.A * g * x
		}
	}
}

// FissionProgeny is the (energy, direction) pair sampled for a banked
// fission secondary.
type FissionProgeny struct {
	Energy    float64
	Direction mgl64.Vec3
}

// SampleFissionSecondary evaluates the fission reaction: samples an
// emission energy from the isotope's Watt spectrum and an isotropic lab
// direction.
func (iso *Isotope) SampleFissionSecondary(r *rng.Stream) FissionProgeny {
	e := iso.Watt.Sample(r)
	mu := 2*r.Uniform() - 1
	phi := 2 * math.Pi * r.Uniform()
	sinTheta := math.Sqrt(math.Max(0, 1-mu*mu))
	dir := mgl64.Vec3{sinTheta * math.Cos(phi), sinTheta * math.Sin(phi), mu}
	return FissionProgeny{Energy: e, Direction: dir}
}
