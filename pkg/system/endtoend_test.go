package system_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkkdy/april/pkg/boundary"
	"github.com/jkkdy/april/pkg/force"
	"github.com/jkkdy/april/pkg/generate"
	"github.com/jkkdy/april/pkg/integrate"
	"github.com/jkkdy/april/pkg/mddomain"
	"github.com/jkkdy/april/pkg/mdvec3"
	"github.com/jkkdy/april/pkg/particle"
	"github.com/jkkdy/april/pkg/system"
)

func ljLatticeEnv(t *testing.T, n int, epsilon, sigma float64) system.Environment[struct{}] {
	t.Helper()
	spacing := 1.1225 * sigma
	records, err := generate.ParticleCuboid[struct{}]{}.
		Count(n, n, n).
		Spacing(spacing).
		Mass(1).
		ToParticles()
	require.NoError(t, err)

	walls := make(map[boundary.Face]boundary.Condition[struct{}], len(boundary.Faces))
	for _, f := range boundary.Faces {
		walls[f] = boundary.Reflective[struct{}]{}
	}
	return system.Environment[struct{}]{
		Particles: records,
		TypeForces: []force.TypeInteraction[struct{}]{
			{T1: 0, T2: 0, Force: force.NewLennardJones[struct{}](epsilon, sigma).WithCutoff(3 * sigma)},
		},
		Boundaries: walls,
		Margin:     mddomain.Margin{Absolute: spacing},
	}
}

func centerOfMass(sys *system.System[struct{}]) mdvec3.Vec3 {
	var com mdvec3.Vec3
	n := 0
	sys.ForEachParticle(func(_ int, a particle.Accessor[struct{}]) {
		com = com.Add(a.Position())
		n++
	})
	return com.Mul(1 / float64(n))
}

func kineticEnergy(sys *system.System[struct{}]) float64 {
	ke := 0.0
	sys.ForEachParticle(func(_ int, a particle.Accessor[struct{}]) {
		v := a.Velocity()
		ke += 0.5 * a.Mass() * v.Dot(v)
	})
	return ke
}

// A cold lattice at near-equilibrium spacing inside reflective walls must
// stay cold: no explosion in kinetic energy, and the lattice's symmetry
// keeps the center of mass pinned.
func TestLJCuboid_ColdLatticeStaysBounded(t *testing.T) {
	const n = 6
	const epsilon = 3.0
	env := ljLatticeEnv(t, n, epsilon, 1)

	cfg := system.DefaultConfig()
	cfg.Container = system.LinkedCellsContainer
	sys, err := system.Build(env, cfg)
	require.NoError(t, err)

	com0 := centerOfMass(sys)
	scheme := integrate.VelocityVerlet[struct{}]{Dt: 2e-4}
	for i := 0; i < 100; i++ {
		scheme.Step(sys)
	}

	nParticles := float64(n * n * n)
	assert.Less(t, kineticEnergy(sys), 0.1*epsilon*nParticles, "lattice exploded")

	com1 := centerOfMass(sys)
	drift := com1.Sub(com0)
	assert.InDelta(t, 0, drift[0], 1e-9)
	assert.InDelta(t, 0, drift[1], 1e-9)
	assert.InDelta(t, 0, drift[2], 1e-9)

	assert.Equal(t, n*n*n, sys.ParticleCount())
}

func forcesByID(sys *system.System[struct{}]) map[particle.ID]mdvec3.Vec3 {
	out := make(map[particle.ID]mdvec3.Vec3)
	sys.ForEachParticle(func(_ int, a particle.Accessor[struct{}]) {
		out[a.ID()] = a.Force()
	})
	return out
}

// Two runs with the same inputs, layout, ordering function and block size
// must produce bit-identical per-step force arrays.
func TestRun_IsDeterministic(t *testing.T) {
	build := func() *system.System[struct{}] {
		cfg := system.DefaultConfig()
		cfg.Container = system.LinkedCellsContainer
		cfg.CellOrder = mdvec3.Morton
		sys, err := system.Build(ljLatticeEnv(t, 4, 1, 1), cfg)
		require.NoError(t, err)
		return sys
	}
	sysA, sysB := build(), build()

	scheme := integrate.VelocityVerlet[struct{}]{Dt: 1e-3}
	for i := 0; i < 10; i++ {
		scheme.Step(sysA)
		scheme.Step(sysB)
		fa, fb := forcesByID(sysA), forcesByID(sysB)
		require.Equal(t, fa, fb, "forces diverged at step %d", i)
	}
}

// LinkedCells must agree with the all-pairs oracle on the evaluated forces,
// for every storage layout.
func TestLinkedCells_MatchesDirectSumOracle(t *testing.T) {
	layouts := map[string]system.LayoutKind{
		"aos":   system.AoS,
		"soa":   system.SoA,
		"aosoa": system.AoSoA,
	}
	for name, layout := range layouts {
		t.Run(name, func(t *testing.T) {
			env := ljLatticeEnv(t, 4, 1, 1)

			oracleCfg := system.DefaultConfig()
			oracle, err := system.Build(env, oracleCfg)
			require.NoError(t, err)

			cfg := system.DefaultConfig()
			cfg.Layout = layout
			cfg.ChunkWidth = 4
			cfg.Container = system.LinkedCellsContainer
			sys, err := system.Build(env, cfg)
			require.NoError(t, err)

			oracle.ResetForces()
			oracle.ForEachInteractionBatch()
			sys.ResetForces()
			sys.ForEachInteractionBatch()

			want := forcesByID(oracle)
			got := forcesByID(sys)
			require.Len(t, got, len(want))
			for id, w := range want {
				g := got[id]
				assert.InDelta(t, w[0], g[0], 1e-9, "particle %d x", id)
				assert.InDelta(t, w[1], g[1], 1e-9, "particle %d y", id)
				assert.InDelta(t, w[2], g[2], 1e-9, "particle %d z", id)
			}
		})
	}
}
