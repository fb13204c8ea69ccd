package main

import "testing"

func TestNormalizeDenormalizeRoundTrip(t *testing.T) {
	spec := specFor(TargetSphereRadius)
	for _, raw := range []float64{spec.Min, spec.Default, spec.Max} {
		x := normalize(spec, raw)
		got := denormalize(spec, x)
		if diff := got - raw; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("round trip for %.4f: got %.4f", raw, got)
		}
	}
}

func TestClampSpecBoundsToRange(t *testing.T) {
	spec := specFor(TargetLatticePitch)
	if got := clampSpec(spec, spec.Min-1); got != spec.Min {
		t.Fatalf("below-range clamp: got %.4f, want %.4f", got, spec.Min)
	}
	if got := clampSpec(spec, spec.Max+1); got != spec.Max {
		t.Fatalf("above-range clamp: got %.4f, want %.4f", got, spec.Max)
	}
	if got := clampSpec(spec, spec.Default); got != spec.Default {
		t.Fatalf("in-range value changed: got %.4f, want %.4f", got, spec.Default)
	}
}

func TestBuildSceneSelectsByTarget(t *testing.T) {
	sphere := buildScene(TargetSphereRadius, 6.0)
	if len(sphere.Model.Cells) != 1 {
		t.Fatalf("sphere target should produce one cell")
	}

	lattice := buildScene(TargetLatticePitch, 1.26)
	for i, s := range lattice.Model.Surfaces {
		if !s.Reflecting {
			t.Fatalf("lattice target surface %d should reflect", i)
		}
	}
}
