package system

import (
	"github.com/jkkdy/april/pkg/boundary"
	"github.com/jkkdy/april/pkg/container"
	"github.com/jkkdy/april/pkg/engine"
	"github.com/jkkdy/april/pkg/force"
	"github.com/jkkdy/april/pkg/mddomain"
	"github.com/jkkdy/april/pkg/particle"
)

// Field is an external, non-pairwise contribution to force (a constant
// gravity field, an electric field, a drag term), applied once per step to
// every particle after pairwise batches have been evaluated.
type Field[U any] func(a particle.Accessor[U])

// Controller runs once per step after integration, and can read or perturb
// anything in the System (a thermostat rescaling velocities, a barostat
// adjusting the domain).
type Controller[U any] func(sys *System[U])

// System is a fully built simulation: a container holding particles, a
// force table, and a boundary set, all scoped to one resolved domain. It
// owns every resource the build step allocated and exposes the control
// points an integrator drives once per step.
type System[U any] struct {
	container container.Container[U]
	table     *force.Table[U]
	boundary  *boundary.Set[U]
	box       mddomain.Box

	fields      []Field[U]
	controllers []Controller[U]

	t    float64
	step uint64
}

// AddField registers an external force field, applied every step.
func (s *System[U]) AddField(f Field[U]) { s.fields = append(s.fields, f) }

// AddController registers a post-integration controller, run every step.
func (s *System[U]) AddController(c Controller[U]) { s.controllers = append(s.controllers, c) }

// Box returns the resolved simulation domain.
func (s *System[U]) Box() mddomain.Box { return s.box }

// Time returns the accumulated simulation time.
func (s *System[U]) Time() float64 { return s.t }

// Advance moves the simulation clock forward by dt and increments the step
// counter; called by the integrator once per step after it has finished
// updating positions and velocities.
func (s *System[U]) Advance(dt float64) {
	s.t += dt
	s.step++
}

// Step returns the number of completed integrator steps.
func (s *System[U]) Step() uint64 { return s.step }

// Size reports how many particles currently match the given state filter.
func (s *System[U]) Size(filter particle.State) int {
	n := 0
	layout := s.container.Layout()
	for i := 0; i < layout.Len(); i++ {
		if layout.At(i).State().Has(filter) {
			n++
		}
	}
	return n
}

// ForEachParticle visits every particle's Accessor in current physical
// order.
func (s *System[U]) ForEachParticle(f func(i int, a particle.Accessor[U])) {
	s.container.Layout().ForEach(f)
}

// ForEachParticleInState visits only the particles whose state matches
// filter (e.g. particle.Movable for an integrator's drift pass,
// particle.Exerting for a field evaluation).
func (s *System[U]) ForEachParticleInState(filter particle.State, f func(i int, a particle.Accessor[U])) {
	s.container.Layout().ForEach(func(i int, a particle.Accessor[U]) {
		if a.State().Has(filter) {
			f(i, a)
		}
	})
}

// RebuildStructure asks the container to re-bin/re-sort particles; call
// after positions have moved (every step, for LinkedCells; a no-op cost for
// DirectSum).
func (s *System[U]) RebuildStructure() { s.container.RebuildStructure() }

// ApplyBoundaryConditions runs every face's condition over every particle
// that is not Dead.
func (s *System[U]) ApplyBoundaryConditions() {
	layout := s.container.Layout()
	for i := 0; i < layout.Len(); i++ {
		a := layout.At(i)
		if a.State().Has(particle.Dead) {
			continue
		}
		stored := snapshotToStored(a)
		s.boundary.Apply(&stored, s.box)
		writeBackFromStored(a, stored)
	}
}

// ResetForces zeroes every particle's Force, keeping OldForce as the
// previous step's accumulated value for integrators that need it.
func (s *System[U]) ResetForces() {
	layout := s.container.Layout()
	for i := 0; i < layout.Len(); i++ {
		a := layout.At(i)
		a.SetOldForce(a.Force())
		a.SetForce(particle.Vec3{})
	}
}

// ApplyForceFields runs every registered external field once per particle.
func (s *System[U]) ApplyForceFields() {
	layout := s.container.Layout()
	for i := 0; i < layout.Len(); i++ {
		a := layout.At(i)
		if a.State().Has(particle.Dead) {
			continue
		}
		for _, f := range s.fields {
			f(a)
		}
	}
}

// ApplyControllers runs every registered controller once per step.
func (s *System[U]) ApplyControllers() {
	for _, c := range s.controllers {
		c(s)
	}
}

// ForEachInteractionBatch evaluates every pairwise interaction batch the
// container produces through the force table, writing reaction forces back
// via RestrictedRef.AddForce.
func (s *System[U]) ForEachInteractionBatch() {
	exec := &engine.Executor[U]{Layout: s.container.Layout(), Table: s.table}
	s.container.ForEachInteractionBatch(container.SinkFuncs{
		OnSymmetric:  exec.RunSymmetric,
		OnAsymmetric: exec.RunAsymmetric,
		OnCompound:   exec.RunCompound,
	})
}

// CollectIndicesInRegion returns the current physical indices of every
// live particle inside region.
func (s *System[U]) CollectIndicesInRegion(region mddomain.Box) []int {
	return s.container.CollectIndicesInRegion(region)
}

// IDToIndex maps a stable particle id to its current physical index, or -1
// if the id is unknown.
func (s *System[U]) IDToIndex(id particle.ID) int { return s.container.IDToIndex(id) }

// ParticleCount returns the number of particles the container currently
// holds. Dead particles keep their slots as tombstones and are counted.
func (s *System[U]) ParticleCount() int { return s.container.ParticleCount() }

func snapshotToStored[U any](a particle.Accessor[U]) particle.Stored[U] {
	return particle.Stored[U]{
		ID: a.ID(), Type: a.Type(), State: a.State(),
		Position: a.Position(), Velocity: a.Velocity(),
		OldPosition: a.OldPosition(), Force: a.Force(), OldForce: a.OldForce(),
		Mass: a.Mass(), UserData: a.UserData(),
	}
}

func writeBackFromStored[U any](a particle.Accessor[U], s particle.Stored[U]) {
	a.SetPosition(s.Position)
	a.SetVelocity(s.Velocity)
	a.SetForce(s.Force)
	a.SetState(s.State)
}
