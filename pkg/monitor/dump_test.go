package monitor_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkkdy/april/pkg/aerr"
	"github.com/jkkdy/april/pkg/force"
	"github.com/jkkdy/april/pkg/mdvec3"
	"github.com/jkkdy/april/pkg/monitor"
	"github.com/jkkdy/april/pkg/particle"
	"github.com/jkkdy/april/pkg/system"
)

func dumpSystem(t *testing.T) *system.System[struct{}] {
	t.Helper()
	env := system.Environment[struct{}]{
		Particles: []particle.Record[struct{}]{
			particle.Record[struct{}]{}.At(mdvec3.New(0.25, 1.5, -3)).WithMass(1),
			particle.Record[struct{}]{}.At(mdvec3.New(2, 0, 0)).WithMass(1).AsType(1),
			particle.Record[struct{}]{}.At(mdvec3.New(4, 4, 4)).WithMass(1).WithState(particle.Dead),
		},
		TypeForces: []force.TypeInteraction[struct{}]{
			{T1: 0, T2: 0, Force: force.NewLennardJones[struct{}](1, 1)},
			{T1: 1, T2: 1, Force: force.NewLennardJones[struct{}](1, 1)},
		},
	}
	sys, err := system.Build(env, system.DefaultConfig())
	require.NoError(t, err)
	return sys
}

func TestDumpWriter_RoundTrip(t *testing.T) {
	sys := dumpSystem(t)
	dir := t.TempDir()
	w := monitor.NewDumpWriter[struct{}](dir, "test")
	require.NoError(t, w.OnStep(sys))

	frame, err := monitor.ReadDump(filepath.Join(dir, "test_0000000000.part"))
	require.NoError(t, err)
	assert.Equal(t, sys.Step(), frame.Step)
	require.Len(t, frame.Records, 3)

	// Dead particles stay in the dump: the count is the full storage size.
	byID := make(map[particle.ID]monitor.DumpRecord, len(frame.Records))
	for _, rec := range frame.Records {
		byID[rec.ID] = rec
	}
	sys.ForEachParticle(func(_ int, a particle.Accessor[struct{}]) {
		rec, ok := byID[a.ID()]
		require.True(t, ok, "particle %d missing from dump", a.ID())
		pos := a.Position()
		assert.Equal(t, float32(pos[0]), rec.Position[0])
		assert.Equal(t, float32(pos[1]), rec.Position[1])
		assert.Equal(t, float32(pos[2]), rec.Position[2])
		assert.Equal(t, a.Type(), rec.Type)
		assert.Equal(t, a.State(), rec.State)
	})
}

func TestDumpWriter_MissingDirReportsIOError(t *testing.T) {
	sys := dumpSystem(t)
	w := monitor.NewDumpWriter[struct{}](filepath.Join(t.TempDir(), "no-such-dir"), "test")
	err := w.OnStep(sys)
	require.Error(t, err)
	assert.True(t, aerr.Is(err, aerr.IOError))
}

func TestReadDump_RejectsNonPartFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.part")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a PART header"), 0o644))
	_, err := monitor.ReadDump(path)
	require.Error(t, err)
	assert.True(t, aerr.Is(err, aerr.IOError))
}

func TestBenchmark_OnStepCollectsWithoutError(t *testing.T) {
	sys := dumpSystem(t)
	b := monitor.NewBenchmark[struct{}]("test-run")
	require.NoError(t, b.OnStep(sys))
	require.NoError(t, b.OnStep(sys))
	assert.NotNil(t, b.Handler())
}
