package integrate_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkkdy/april/pkg/force"
	"github.com/jkkdy/april/pkg/integrate"
	"github.com/jkkdy/april/pkg/mdvec3"
	"github.com/jkkdy/april/pkg/particle"
	"github.com/jkkdy/april/pkg/system"
)

// twoBodyOrbit builds the worked two-body orbit scenario: a heavy M=1
// stationary anchor at the origin and a near-massless tracer circling it at
// radius 1 with the circular-orbit speed v=sqrt(GM/R)=1.
func twoBodyOrbit(t *testing.T) *system.System[struct{}] {
	t.Helper()
	env := system.Environment[struct{}]{
		Particles: []particle.Record[struct{}]{
			particle.Record[struct{}]{}.WithMass(1).WithState(particle.Stationary),
			particle.Record[struct{}]{}.At(mdvec3.New(0, 1, 0)).WithVelocity(mdvec3.New(1, 0, 0)).WithMass(1e-10),
		},
		TypeForces: []force.TypeInteraction[struct{}]{
			{T1: 0, T2: 0, Force: force.NewGravity[struct{}](1)},
		},
	}
	sys, err := system.Build(env, system.DefaultConfig())
	require.NoError(t, err)
	return sys
}

// tracerState returns the position and velocity of the particle at physical
// index 1 (the tracer; index 0 is the stationary anchor and neither
// DirectSum's Build sort nor RebuildStructure reorders a two-particle,
// single-type system).
func tracerState(sys *system.System[struct{}]) (pos, vel mdvec3.Vec3) {
	sys.ForEachParticle(func(i int, a particle.Accessor[struct{}]) {
		if i == 1 {
			pos, vel = a.Position(), a.Velocity()
		}
	})
	return
}

func TestVelocityVerlet_Orbit_StaysBoundedOverOneRevolution(t *testing.T) {
	sys := twoBodyOrbit(t)
	dt := 1e-3
	scheme := integrate.VelocityVerlet[struct{}]{Dt: dt}

	steps := int(2 * math.Pi / dt)
	for i := 0; i < steps; i++ {
		scheme.Step(sys)
	}

	pos, vel := tracerState(sys)
	r := mdvec3.Norm(pos)
	speed := mdvec3.Norm(vel)
	assert.InDelta(t, 1.0, r, 5e-2)
	assert.InDelta(t, 1.0, speed, 5e-2)
}

func TestVelocityVerlet_NewtonsThirdLaw_HoldsEachStep(t *testing.T) {
	sys := twoBodyOrbit(t)
	scheme := integrate.VelocityVerlet[struct{}]{Dt: 1e-3}
	scheme.Step(sys)

	var sum mdvec3.Vec3
	sys.ForEachParticle(func(_ int, a particle.Accessor[struct{}]) {
		sum = sum.Add(a.Force())
	})
	assert.InDelta(t, 0, sum[0], 1e-6)
	assert.InDelta(t, 0, sum[1], 1e-6)
}

func TestYoshida4_Orbit_StaysBoundedOverOneRevolution(t *testing.T) {
	sys := twoBodyOrbit(t)
	dt := 1e-3
	scheme := integrate.Yoshida4[struct{}]{Dt: dt}

	steps := int(2 * math.Pi / dt)
	for i := 0; i < steps; i++ {
		scheme.Step(sys)
	}

	pos, _ := tracerState(sys)
	r := mdvec3.Norm(pos)
	assert.InDelta(t, 1.0, r, 5e-2)
}

func TestVelocityVerlet_StationaryAnchorDoesNotMove(t *testing.T) {
	sys := twoBodyOrbit(t)
	scheme := integrate.VelocityVerlet[struct{}]{Dt: 1e-3}
	for i := 0; i < 100; i++ {
		scheme.Step(sys)
	}
	var anchorPos mdvec3.Vec3
	sys.ForEachParticle(func(i int, a particle.Accessor[struct{}]) {
		if i == 0 {
			anchorPos = a.Position()
		}
	})
	assert.Equal(t, mdvec3.Zero, anchorPos)
}
