package force_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkkdy/april/pkg/force"
	"github.com/jkkdy/april/pkg/mdvec3"
	"github.com/jkkdy/april/pkg/particle"
	"github.com/jkkdy/april/pkg/storage"
)

type payload struct{ charge float64 }

func (p payload) Charge() float64 { return p.charge }

// pair builds a two-particle AoS layout and returns accessors for both.
func pair[U any](p1, p2 particle.Stored[U]) (particle.Accessor[U], particle.Accessor[U]) {
	p1.ID, p2.ID = 0, 1
	layout := storage.NewAoS[U]()
	layout.Build([]particle.Stored[U]{p1, p2})
	return layout.At(0), layout.At(1)
}

func TestCoulomb_TwoBodyWorkedExample(t *testing.T) {
	a1, a2 := pair[payload](
		particle.Stored[payload]{Position: mdvec3.New(0, 0, 0), UserData: payload{1}},
		particle.Stored[payload]{Position: mdvec3.New(2, 0, 0), UserData: payload{-2}},
	)
	c := force.NewCoulomb[payload](1)
	r := a2.Position().Sub(a1.Position())
	out := c.Eval(particle.NewView[payload](a1), particle.NewView[payload](a2), r)
	assert.InDelta(t, -0.5, out[0], 1e-9)
	assert.InDelta(t, 0, out[1], 1e-9)
	assert.InDelta(t, 0, out[2], 1e-9)
}

func TestLennardJones_TwoBodyWorkedExample(t *testing.T) {
	a1, a2 := pair[struct{}](
		particle.Stored[struct{}]{Position: mdvec3.New(0, 0, 0)},
		particle.Stored[struct{}]{Position: mdvec3.New(2, 0, 0)},
	)
	lj := force.NewLennardJones[struct{}](1, 2)
	r := a2.Position().Sub(a1.Position())
	out := lj.Eval(particle.NewView[struct{}](a1), particle.NewView[struct{}](a2), r)
	assert.InDelta(t, -12.0, out[0], 1e-9)
	assert.InDelta(t, 0, out[1], 1e-9)
	assert.InDelta(t, 0, out[2], 1e-9)
}

func TestGravity_TwoBodyWorkedExample(t *testing.T) {
	a1, a2 := pair[struct{}](
		particle.Stored[struct{}]{Position: mdvec3.New(0, 0, 0), Mass: 10},
		particle.Stored[struct{}]{Position: mdvec3.New(2, 0, 0), Mass: 20},
	)
	g := force.NewGravity[struct{}](1)
	r := a2.Position().Sub(a1.Position())
	out := g.Eval(particle.NewView[struct{}](a1), particle.NewView[struct{}](a2), r)
	assert.InDelta(t, 50.0, out[0], 1e-9)
	assert.InDelta(t, 0, out[1], 1e-9)
	assert.InDelta(t, 0, out[2], 1e-9)
}

func TestLennardJones_Mix(t *testing.T) {
	a := force.NewLennardJones[struct{}](1, 2).WithCutoff(2)
	b := force.NewLennardJones[struct{}](4, 4).WithCutoff(8)
	mixed, err := a.Mix(b)
	require.NoError(t, err)
	assert.InDelta(t, 4, mixed.Cutoff(), 1e-9) // sqrt(2*8)
}

func TestCoulomb_Mix_RefusesDifferingConstants(t *testing.T) {
	a := force.NewCoulomb[payload](1)
	b := force.NewCoulomb[payload](2)
	_, err := a.Mix(b)
	require.Error(t, err)
}

func TestCoulomb_Mix_AcceptsEqualConstants(t *testing.T) {
	a := force.NewCoulomb[payload](1).WithCutoff(5)
	b := force.NewCoulomb[payload](1).WithCutoff(9)
	mixed, err := a.Mix(b)
	require.NoError(t, err)
	assert.InDelta(t, 9, mixed.Cutoff(), 1e-9)
}

func TestHarmonic_MixAveragesParameters(t *testing.T) {
	a := force.NewHarmonic[struct{}](2, 1).WithCutoff(5)
	b := force.NewHarmonic[struct{}](6, 3).WithCutoff(9)
	mixed, err := a.Mix(b)
	require.NoError(t, err)
	h := mixed.(force.Harmonic[struct{}])
	assert.InDelta(t, 4, h.K, 1e-9)
	assert.InDelta(t, 2, h.R0, 1e-9)
	assert.InDelta(t, 9, h.Cutoff(), 1e-9)
}

func TestNoForce_Eval_IsZero(t *testing.T) {
	a1, a2 := pair[struct{}](
		particle.Stored[struct{}]{Position: mdvec3.New(0, 0, 0)},
		particle.Stored[struct{}]{Position: mdvec3.New(1, 0, 0)},
	)
	var nf force.NoForce[struct{}]
	r := a2.Position().Sub(a1.Position())
	out := nf.Eval(particle.NewView[struct{}](a1), particle.NewView[struct{}](a2), r)
	assert.Equal(t, mdvec3.Zero, out)
}

func TestTable_MissingSelfInteractionFails(t *testing.T) {
	present := map[particle.Type]bool{0: true, 1: true}
	entries := []force.TypeInteraction[struct{}]{
		{T1: 0, T2: 0, Force: force.NewLennardJones[struct{}](1, 1)},
	}
	_, err := force.Build[struct{}](2, present, entries, nil)
	require.Error(t, err)
}

func TestTable_SynthesizesMixedCrossType(t *testing.T) {
	present := map[particle.Type]bool{0: true, 1: true}
	entries := []force.TypeInteraction[struct{}]{
		{T1: 0, T2: 0, Force: force.NewLennardJones[struct{}](1, 1)},
		{T1: 1, T2: 1, Force: force.NewLennardJones[struct{}](4, 2)},
	}
	tbl, err := force.Build[struct{}](2, present, entries, nil)
	require.NoError(t, err)
	f := tbl.Lookup(0, 1, 0, 1)
	assert.Equal(t, "lennard_jones", f.Kind())
	// Mixed cutoff is the geometric mean of the self cutoffs (3 and 6).
	assert.InDelta(t, math.Sqrt(18), tbl.TypeCutoff(0, 1), 1e-9)
}

func TestTable_MaxCutoffSpansIDOverrides(t *testing.T) {
	present := map[particle.Type]bool{0: true}
	typeEntries := []force.TypeInteraction[struct{}]{
		{T1: 0, T2: 0, Force: force.NewLennardJones[struct{}](1, 1)}, // cutoff 3
	}
	idEntries := []force.IDInteraction[struct{}]{
		{ID1: 0, ID2: 1, Force: force.NewHarmonic[struct{}](1, 1).WithCutoff(7)},
	}
	tbl, err := force.Build[struct{}](1, present, typeEntries, idEntries)
	require.NoError(t, err)
	assert.InDelta(t, 7, tbl.MaxCutoff(), 1e-9)
}

func TestTable_MaxCutoffIsInfiniteForUncappedForce(t *testing.T) {
	present := map[particle.Type]bool{0: true}
	entries := []force.TypeInteraction[struct{}]{
		{T1: 0, T2: 0, Force: force.NewGravity[struct{}](1)},
	}
	tbl, err := force.Build[struct{}](1, present, entries, nil)
	require.NoError(t, err)
	assert.True(t, math.IsInf(tbl.MaxCutoff(), 1))
}

func TestTable_IDPairOverridesTypePair(t *testing.T) {
	present := map[particle.Type]bool{0: true}
	typeEntries := []force.TypeInteraction[struct{}]{
		{T1: 0, T2: 0, Force: force.NewLennardJones[struct{}](1, 1)},
	}
	idEntries := []force.IDInteraction[struct{}]{
		{ID1: 0, ID2: 1, Force: force.NewHarmonic[struct{}](1, 1)},
	}
	tbl, err := force.Build[struct{}](1, present, typeEntries, idEntries)
	require.NoError(t, err)
	assert.Equal(t, "harmonic", tbl.Lookup(0, 1, 0, 0).Kind())
	assert.Equal(t, "lennard_jones", tbl.Lookup(0, 2, 0, 0).Kind())
}

func TestTable_UnresolvedPairFallsBackToNoForce(t *testing.T) {
	tbl, err := force.Build[struct{}](1, map[particle.Type]bool{}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "no_force", tbl.Lookup(0, 1, 0, 0).Kind())
}
