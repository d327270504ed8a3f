package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkkdy/april/pkg/container"
	"github.com/jkkdy/april/pkg/engine"
	"github.com/jkkdy/april/pkg/mddomain"
	"github.com/jkkdy/april/pkg/mdvec3"
	"github.com/jkkdy/april/pkg/particle"
	"github.com/jkkdy/april/pkg/storage"
)

func collectPairs(t *testing.T, c container.Container[struct{}]) ([]engine.SymmetricBatch, []engine.AsymmetricBatch) {
	t.Helper()
	var sym []engine.SymmetricBatch
	var asym []engine.AsymmetricBatch
	c.ForEachInteractionBatch(container.SinkFuncs{
		OnSymmetric:  func(b engine.SymmetricBatch, _ engine.BCP) { sym = append(sym, b) },
		OnAsymmetric: func(b engine.AsymmetricBatch, _ engine.BCP) { asym = append(asym, b) },
	})
	return sym, asym
}

func TestDirectSum_BatchesCoverEveryPairOnce(t *testing.T) {
	layout := storage.NewAoS[struct{}]()
	ds := container.NewDirectSum[struct{}](layout, container.Flags{})
	box := mddomain.Box{Min: mdvec3.New(0, 0, 0), Extent: mdvec3.New(10, 10, 10)}
	require.NoError(t, ds.Build([]particle.Stored[struct{}]{
		{ID: 0, Type: 0, Position: mdvec3.New(1, 0, 0)},
		{ID: 1, Type: 0, Position: mdvec3.New(2, 0, 0)},
		{ID: 2, Type: 1, Position: mdvec3.New(3, 0, 0)},
	}, box))

	sym, asym := collectPairs(t, ds)
	require.Len(t, sym, 2) // one per type: type 0 (2 particles), type 1 (1 particle)
	require.Len(t, asym, 1)
	assert.Equal(t, 3, ds.ParticleCount())
}

func TestDirectSum_CollectIndicesInRegion(t *testing.T) {
	layout := storage.NewAoS[struct{}]()
	ds := container.NewDirectSum[struct{}](layout, container.Flags{})
	box := mddomain.Box{Min: mdvec3.New(0, 0, 0), Extent: mdvec3.New(10, 10, 10)}
	require.NoError(t, ds.Build([]particle.Stored[struct{}]{
		{ID: 0, Position: mdvec3.New(1, 1, 1)},
		{ID: 1, Position: mdvec3.New(9, 9, 9)},
	}, box))

	region := mddomain.Box{Min: mdvec3.New(0, 0, 0), Extent: mdvec3.New(2, 2, 2)}
	idx := ds.CollectIndicesInRegion(region)
	require.Len(t, idx, 1)
	assert.Equal(t, particle.ID(0), layout.At(idx[0]).ID())
}

func TestLinkedCells_PeriodicMinImageWrap(t *testing.T) {
	layout := storage.NewAoS[struct{}]()
	flags := container.Flags{PeriodicX: true, PeriodicY: true, PeriodicZ: true}
	lc := container.NewLinkedCells[struct{}](layout, flags, container.Absolute(2), nil, 2, [3]int{2, 2, 2})
	box := mddomain.Box{Min: mdvec3.New(0, 0, 0), Extent: mdvec3.New(10, 10, 10)}
	require.NoError(t, lc.Build([]particle.Stored[struct{}]{
		{ID: 0, Type: 0, Position: mdvec3.New(0.5, 0, 0)},
		{ID: 1, Type: 0, Position: mdvec3.New(9.5, 0, 0)},
	}, box))

	var found bool
	var gotR mdvec3.Vec3
	lc.ForEachInteractionBatch(container.SinkFuncs{
		OnAsymmetric: func(b engine.AsymmetricBatch, bcp engine.BCP) {
			if found || b.Range1.Len() != 1 || b.Range2.Len() != 1 {
				return
			}
			a := layout.At(b.Range1.Start)
			c := layout.At(b.Range2.Start)
			r := c.Position().Sub(a.Position())
			if b.BCP != nil {
				r = b.BCP(r)
			} else if bcp != nil {
				r = bcp(r)
			}
			found = true
			gotR = r
		},
	})

	require.True(t, found, "expected the wrapped periodic pair to be visited")
	assert.InDelta(t, 1.0, abs(gotR[0]), 1e-9)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func TestLinkedCells_RebuildStructure_ReassignsMovedParticle(t *testing.T) {
	layout := storage.NewAoS[struct{}]()
	flags := container.Flags{}
	lc := container.NewLinkedCells[struct{}](layout, flags, container.ExactCutoff(), nil, 2, [3]int{2, 2, 2})
	box := mddomain.Box{Min: mdvec3.New(0, 0, 0), Extent: mdvec3.New(10, 10, 10)}
	require.NoError(t, lc.Build([]particle.Stored[struct{}]{
		{ID: 0, Position: mdvec3.New(0.5, 0.5, 0.5)},
		{ID: 1, Position: mdvec3.New(8.5, 8.5, 8.5)},
	}, box))

	idx := lc.IDToIndex(0)
	layout.At(idx).SetPosition(mdvec3.New(8.6, 8.6, 8.6))
	lc.RebuildStructure()

	assert.Equal(t, 2, lc.ParticleCount())
	assert.GreaterOrEqual(t, lc.IDToIndex(0), 0)
}

func TestLinkedCells_EmitsCompoundBatchPerBlock(t *testing.T) {
	layout := storage.NewAoS[struct{}]()
	lc := container.NewLinkedCells[struct{}](layout, container.Flags{}, container.ExactCutoff(), nil, 2, [3]int{2, 2, 2})
	box := mddomain.Box{Min: mdvec3.New(0, 0, 0), Extent: mdvec3.New(8, 8, 8)}
	require.NoError(t, lc.Build([]particle.Stored[struct{}]{
		{ID: 0, Position: mdvec3.New(0.5, 0.5, 0.5)},
		{ID: 1, Position: mdvec3.New(1.5, 0.5, 0.5)},
		{ID: 2, Position: mdvec3.New(7.5, 7.5, 7.5)},
	}, box))

	var compounds int
	var batches int
	lc.ForEachInteractionBatch(container.SinkFuncs{
		OnCompound: func(b engine.CompoundBatch, _ engine.BCP) {
			compounds++
			batches += b.Len()
		},
	})
	// The two occupied corners sit in different 2x2x2 blocks, so at least
	// two compound dispatches happen; each carries the whole block's batches.
	assert.GreaterOrEqual(t, compounds, 2)
	assert.GreaterOrEqual(t, batches, 2)
}

func TestLinkedCells_HandlesNonContiguousTypeIndices(t *testing.T) {
	layout := storage.NewAoS[struct{}]()
	lc := container.NewLinkedCells[struct{}](layout, container.Flags{}, container.ExactCutoff(), nil, 2, [3]int{2, 2, 2})
	box := mddomain.Box{Min: mdvec3.New(0, 0, 0), Extent: mdvec3.New(10, 10, 10)}
	require.NoError(t, lc.Build([]particle.Stored[struct{}]{
		{ID: 0, Type: 0, Position: mdvec3.New(1, 1, 1)},
		{ID: 1, Type: 5, Position: mdvec3.New(1.5, 1, 1)},
	}, box))

	var visited int
	lc.ForEachInteractionBatch(container.SinkFuncs{
		OnAsymmetric: func(b engine.AsymmetricBatch, _ engine.BCP) {
			if !b.Range1.Empty() && !b.Range2.Empty() {
				visited++
			}
		},
	})
	assert.Equal(t, 1, visited, "the (0,5) cross-type pair must be emitted exactly once")
}

func TestLinkedCells_RejectsInfiniteDomain(t *testing.T) {
	layout := storage.NewAoS[struct{}]()
	lc := container.NewLinkedCells[struct{}](layout, container.Flags{InfiniteDomain: true}, container.ExactCutoff(), nil, 2, [3]int{2, 2, 2})
	box := mddomain.Box{Min: mdvec3.New(0, 0, 0), Extent: mdvec3.New(10, 10, 10)}
	err := lc.Build(nil, box)
	require.Error(t, err)
}
