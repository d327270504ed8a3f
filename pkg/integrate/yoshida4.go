package integrate

import "github.com/jkkdy/april/pkg/particle"

// yoshidaW0 and yoshidaW1 are the fourth-order symplectic composition weights from
// Yoshida, H. (1990), "Construction of higher order symplectic
// integrators", Phys. Lett. A 150.
var (
	yoshidaCubeRoot = cubeRoot2
	yoshidaW0       = -yoshidaCubeRoot / (2 - yoshidaCubeRoot)
	yoshidaW1       = 1 / (2 - yoshidaCubeRoot)
)

const cubeRoot2 = 1.2599210498948732 // 2^(1/3)

// Yoshida4 composes three velocity-Verlet-like drift/kick sub-steps with
// Yoshida's weights to reach fourth-order accuracy while staying symplectic
// (the same property that makes plain Verlet preserve energy over long
// runs).
type Yoshida4[U any] struct {
	Dt float64
}

func (y Yoshida4[U]) Step(sys Steppable[U]) {
	c := [4]float64{
		yoshidaW1 / 2, (yoshidaW0 + yoshidaW1) / 2, (yoshidaW0 + yoshidaW1) / 2, yoshidaW1 / 2,
	}
	d := [3]float64{yoshidaW1, yoshidaW0, yoshidaW1}

	drift(sys, c[0]*y.Dt)
	for i := 0; i < 3; i++ {
		evaluateForces(sys)
		kick(sys, d[i]*y.Dt)
		drift(sys, c[i+1]*y.Dt)
	}

	sys.ApplyControllers()
	sys.Advance(y.Dt)
}

func drift[U any](sys Steppable[U], dt float64) {
	sys.ForEachParticle(func(_ int, a particle.Accessor[U]) {
		if !a.State().Has(particle.Movable) {
			return
		}
		a.SetOldPosition(a.Position())
		a.SetPosition(a.Position().Add(a.Velocity().Mul(dt)))
	})
	sys.RebuildStructure()
	sys.ApplyBoundaryConditions()
}

func kick[U any](sys Steppable[U], dt float64) {
	sys.ForEachParticle(func(_ int, a particle.Accessor[U]) {
		if !a.State().Has(particle.Movable) {
			return
		}
		a.SetVelocity(a.Velocity().Add(a.Force().Mul(dt / a.Mass())))
	})
}

func evaluateForces[U any](sys Steppable[U]) {
	sys.ResetForces()
	sys.ForEachInteractionBatch()
	sys.ApplyForceFields()
}
