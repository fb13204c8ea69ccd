// Package transport implements the single-neutron random walk: the
// Transport/Collide/Terminate state machine that turns a source particle
// into leakage, absorption, and fission-site progeny.
package transport

import (
	"github.com/heliosmc/keff/geom"
)

// Particle is a single tracked neutron: position, direction, energy,
// weight, and liveness.
type Particle struct {
	Position  geom.Coordinate
	Direction geom.Direction
	Energy    float64
	Weight    float64
	Alive     bool
}

// BankEntry pairs a particle with the cell it was most recently known to
// occupy, the unit the fission bank and local bank are built from.
type BankEntry struct {
	Cell     geom.CellIx
	Particle Particle
}

// NumericError reports a non-finite particle attribute discovered after a
// reaction — a fatal condition, since a silent drop would bias statistics.
type NumericError struct {
	Component string
	Cycle     uint64
	Field     string
}

func (e *NumericError) Error() string {
	return "numeric error in " + e.Component + ": non-finite " + e.Field
}
