package transport

import (
	"fmt"
	"math"

	"github.com/heliosmc/keff/geom"
	"github.com/heliosmc/keff/physics"
	"github.com/heliosmc/keff/rng"
)

// Params carries the run-wide settings a history needs that are not part
// of the geometry or physics views themselves.
type Params struct {
	EnergyFreeGasThreshold float64
	AWRFreeGasThreshold    float64
	KeffEstimate           float64 // k-eff at the start of this cycle, used to convert expected fission yield into an integer progeny count
}

// Result is everything a single history reports back to the cycle
// controller: its population contribution, banked progeny, and tally
// increments.
type Result struct {
	Population     float64
	Progeny        []BankEntry
	Leakage        float64
	Absorption     float64
	KeffTrack      float64
	KeffCollision  float64
	KeffAbsorption float64
	N2N, N3N, N4N  float64
	FissionChance  map[int]float64
}

// GeometryError reports a transport-time geometry inconsistency: a cell
// with no intersecting surface along the particle's direction. A particle
// that finds no containing cell after crossing a non-reflecting surface is
// counted as leakage, not reported as a GeometryError.
type GeometryError struct {
	Cycle       uint64
	Fingerprint string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("geometry error during transport at cycle %d: %s", e.Cycle, e.Fingerprint)
}

// Run simulates one neutron from birth to death. p must already sit inside
// a cell with a non-null material (callers resolve the source particle's
// starting cell via Model.NonVoid before calling Run).
func Run(model *geom.Model, master *physics.Grid, mats *physics.MaterialSet, cell geom.CellIx, p Particle, r *rng.Stream, params Params, cycle uint64) (Result, error) {
	result := Result{FissionChance: map[int]float64{}}
	mat := mats.Get(model.Cells[cell].MaterialIx)

transport:
	for p.Alive {
		mfp := mat.MeanFreePath(master, p.Energy)
		dc := -math.Log(r.Uniform()) * mfp

		for {
			sIx, _, ds, ok := model.Intersect(cell, p.Position, p.Direction)
			if !ok {
				return result, &GeometryError{Cycle: cycle, Fingerprint: fmt.Sprintf("cell=%d pos=%v", model.Cells[cell].ID, p.Position)}
			}

			trackLen := math.Min(dc, ds)
			if mat.IsFissile() {
				result.KeffTrack += p.Weight * trackLen * mat.NuSigmaFission(master, p.Energy)
			}

			if dc < ds {
				// Collide: advance to the collision point and sample a reaction.
				p.Position = p.Position.Add(p.Direction.Mul(dc))
				terminate, err := collide(model, master, mats, mat, &p, r, params, cycle, &result, cell)
				if err != nil {
					return result, err
				}
				if terminate {
					p.Alive = false
				}
				continue transport
			}

			// Advance to the surface and cross it.
			p.Position = p.Position.Add(p.Direction.Mul(ds))
			newCellRaw, alive := model.Cross(sIx, p.Position, &p.Direction)
			if !alive {
				result.Leakage += p.Weight
				p.Alive = false
				continue transport
			}
			p.Position = p.Position.Add(p.Direction.Mul(geom.NudgeEps))

			newCell := newCellRaw
			if newCellRaw == geom.NoCell {
				newCell = cell // reflecting surface: same cell, direction already mirrored
			}

			if model.Cells[newCell].MaterialIx < 0 {
				nc, escaped := model.NonVoid(newCell, &p.Position, &p.Direction)
				if escaped {
					result.Leakage += p.Weight
					p.Alive = false
					continue transport
				}
				newCell = nc
			}

			newMat := mats.Get(model.Cells[newCell].MaterialIx)
			cell = newCell
			if newMat != mat {
				mat = newMat
				continue transport // material changed: resample d_c with the new mean free path
			}
			dc -= ds // same material: keep the remaining collision distance and look for the next surface
		}
	}

	result.Population = progenyWeight(result.Progeny)
	return result, nil
}

func progenyWeight(progeny []BankEntry) float64 {
	total := 0.0
	for _, e := range progeny {
		total += e.Particle.Weight
	}
	return total
}
