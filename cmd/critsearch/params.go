// Package main provides a CMA-ES search over one geometric parameter for
// the fuel-sphere or reflecting-lattice scenes, targeting k-eff-trk = 1.0.
package main

import "github.com/heliosmc/keff/scene"

// Target selects which built-in scene and geometric knob the search drives.
type Target int

const (
	TargetSphereRadius Target = iota
	TargetLatticePitch
)

// ParamSpec bounds the single optimizable geometric parameter.
type ParamSpec struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
}

func specFor(t Target) ParamSpec {
	switch t {
	case TargetLatticePitch:
		return ParamSpec{Name: "pitch", Min: 0.5, Max: 5.0, Default: 1.26}
	default:
		return ParamSpec{Name: "radius", Min: 1.0, Max: 15.0, Default: 6.0}
	}
}

func buildScene(t Target, value float64) *scene.Built {
	switch t {
	case TargetLatticePitch:
		return scene.ReflectingCubeLattice(value)
	default:
		return scene.Sphere(value)
	}
}

// normalize maps a raw value in [spec.Min, spec.Max] to [0, 1].
func normalize(spec ParamSpec, raw float64) float64 {
	return (raw - spec.Min) / (spec.Max - spec.Min)
}

// denormalize maps a [0, 1] value back to [spec.Min, spec.Max].
func denormalize(spec ParamSpec, x float64) float64 {
	return spec.Min + x*(spec.Max-spec.Min)
}

func clampSpec(spec ParamSpec, raw float64) float64 {
	if raw < spec.Min {
		return spec.Min
	}
	if raw > spec.Max {
		return spec.Max
	}
	return raw
}
