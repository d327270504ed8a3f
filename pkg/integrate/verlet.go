// Package integrate implements the time-stepping schemes that drive a
// system forward: velocity-Verlet (2nd order, kick-drift-kick) and
// Yoshida4 (4th order symplectic composition of Verlet sub-steps). Both
// consume a per-step hook sequence rather than reaching into the
// container/force internals directly, so the spatial-interaction
// subsystem stays fully decoupled from the choice of integrator.
package integrate

import (
	"github.com/jkkdy/april/pkg/particle"
)

// Steppable is the subset of System a time-stepping scheme needs, kept
// narrow so integrators never depend on the container or storage layouts
// directly.
type Steppable[U any] interface {
	ForEachParticle(f func(i int, a particle.Accessor[U]))
	RebuildStructure()
	ApplyBoundaryConditions()
	ResetForces()
	ForEachInteractionBatch()
	ApplyForceFields()
	ApplyControllers()
	Advance(dt float64)
}

// VelocityVerlet is the standard kick-drift-kick velocity-Verlet scheme:
// second-order accurate, symplectic, and the default for short-range MD.
type VelocityVerlet[U any] struct {
	Dt float64
}

// Step advances the system by one Dt: half-kick using the previous step's
// force, drift, rebuild/boundary/force-evaluation, then the closing
// half-kick using the freshly evaluated force.
func (vv VelocityVerlet[U]) Step(sys Steppable[U]) {
	dt := vv.Dt
	halfDt := 0.5 * dt

	sys.ForEachParticle(func(_ int, a particle.Accessor[U]) {
		if !a.State().Has(particle.Movable) {
			return
		}
		accel := a.Force().Mul(halfDt / a.Mass())
		v := a.Velocity().Add(accel)
		a.SetVelocity(v)
		a.SetOldPosition(a.Position())
		a.SetPosition(a.Position().Add(v.Mul(dt)))
	})

	sys.RebuildStructure()
	sys.ApplyBoundaryConditions()
	sys.ResetForces()
	sys.ForEachInteractionBatch()
	sys.ApplyForceFields()

	sys.ForEachParticle(func(_ int, a particle.Accessor[U]) {
		if !a.State().Has(particle.Movable) {
			return
		}
		accel := a.Force().Mul(halfDt / a.Mass())
		a.SetVelocity(a.Velocity().Add(accel))
	})

	sys.ApplyControllers()
	sys.Advance(dt)
}
