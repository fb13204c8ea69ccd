package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/heliosmc/keff/rng"
)

// ElasticKinematics scatters a neutron of energy e traveling along dir off
// a nuclide of mass awr at temperature kT, choosing free-gas or
// target-at-rest treatment per the engine's thresholds, and returns the
// post-collision energy and direction. Scattering is isotropic in the
// center-of-mass frame (no angular distribution tables are modeled), the
// one simplification this engine makes uniformly for every isotope.
func ElasticKinematics(awr, e, kT, energyThreshold, awrThreshold float64, dir mgl64.Vec3, r *rng.Stream) (newE float64, newDir mgl64.Vec3) {
	useFreeGas := e < energyThreshold*kT && awr <= awrThreshold

	neutronV := dir.Mul(math.Sqrt(e))

	var targetV mgl64.Vec3
	if useFreeGas {
		speed, mu := sampleTargetSpeed(awr, e, kT, r)
		targetV = isotropicAbout(dir, mu, r).Mul(speed)
	}

	cmV := neutronV.Add(targetV.Mul(awr)).Mul(1 / (1 + awr))
	relV := neutronV.Sub(targetV)
	relSpeed := relV.Len()

	muCM := 2*r.Uniform() - 1
	scatteredRel := isotropicAbout(relV.Normalize(), muCM, r).Mul(relSpeed)

	newNeutronV := cmV.Add(scatteredRel.Mul(awr / (1 + awr)))

	newE = newNeutronV.Dot(newNeutronV)
	if newE <= 0 {
		return e, dir
	}
	newDir = newNeutronV.Mul(1 / math.Sqrt(newE))
	return newE, newDir
}

// sampleTargetSpeed draws a free-gas target speed and the cosine of the
// angle between the target's velocity and the neutron's direction, via the
// standard rejection scheme for Maxwellian target motion (Gelbard's
// algorithm, as used for S(alpha,beta)-free thermal elastic scattering).
func sampleTargetSpeed(awr, e, kT float64, r *rng.Stream) (speed, mu float64) {
	y := math.Sqrt(awr * e / kT)

	for {
		r1, r2, r3, r4 := r.Uniform(), r.Uniform(), r.Uniform(), r.Uniform()
		var x float64
		if r1 < 2/(2+math.Sqrt(math.Pi)*y) {
			x = math.Sqrt(-math.Log(r2 * r3))
			mu = 2*r4 - 1
		} else {
			x = math.Sqrt(-math.Log(r2) - math.Log(r3)*math.Pow(math.Cos(math.Pi/2*r4), 2))
			mu = 2*r.Uniform() - 1
		}
		rel := math.Sqrt(y*y + x*x - 2*x*y*mu)
		if r.Uniform() <= rel/(x+y) {
			speed = x * math.Sqrt(kT/awr)
			return
		}
	}
}

// isotropicAbout rotates axis by polar cosine mu about a uniformly sampled
// azimuthal angle, returning a unit vector.
func isotropicAbout(axis mgl64.Vec3, mu float64, r *rng.Stream) mgl64.Vec3 {
	sinTheta := math.Sqrt(math.Max(0, 1-mu*mu))
	phi := 2 * math.Pi * r.Uniform()

	u, v := orthonormalBasis(axis)
	return axis.Mul(mu).Add(u.Mul(sinTheta * math.Cos(phi))).Add(v.Mul(sinTheta * math.Sin(phi))).Normalize()
}

// orthonormalBasis returns two unit vectors orthogonal to axis and to each
// other.
func orthonormalBasis(axis mgl64.Vec3) (u, v mgl64.Vec3) {
	ref := mgl64.Vec3{0, 0, 1}
	if math.Abs(axis.Dot(ref)) > 0.99 {
		ref = mgl64.Vec3{0, 1, 0}
	}
	u = axis.Cross(ref).Normalize()
	v = axis.Cross(u).Normalize()
	return
}
