package main

import (
	"testing"

	"github.com/heliosmc/keff/config"
)

func TestBuildSceneDispatchesOnGeometryScene(t *testing.T) {
	cfg := &config.Config{}
	cfg.Geometry.Scene = "lattice"
	cfg.Geometry.Pitch = 1.26
	built := buildScene(cfg)
	for i, s := range built.Model.Surfaces {
		if !s.Reflecting {
			t.Fatalf("lattice scene surface %d should reflect", i)
		}
	}

	cfg.Geometry.Scene = "sphere"
	cfg.Geometry.Radius = 6.0
	built = buildScene(cfg)
	if len(built.Model.Cells) != 1 {
		t.Fatalf("sphere scene should have exactly one cell")
	}
}
