// Package container implements the neighbor-search structures particles are
// stored and iterated through: DirectSum (all-pairs) and LinkedCells
// (uniform grid with half-stencil neighbor search). Both satisfy the same
// Container contract so the engine and system layers are written once.
package container

import (
	"github.com/jkkdy/april/pkg/engine"
	"github.com/jkkdy/april/pkg/mddomain"
	"github.com/jkkdy/april/pkg/particle"
	"github.com/jkkdy/april/pkg/storage"
)

// Flags are the per-axis/container-wide properties the build step derives
// from the boundary configuration, consumed by the engine's BCP selection
// and by callers deciding whether region queries or particle add/remove are
// even meaningful.
type Flags struct {
	PeriodicX, PeriodicY, PeriodicZ bool
	InfiniteDomain                  bool
	ParticleAddable                 bool
	ParticleDeletable               bool
}

// BatchSink receives every batch a container emits for one
// for_each_interaction_batch pass. Go has no sum type to unify the three
// batch shapes, so the container calls back through three typed methods
// instead of a single variant parameter.
type BatchSink interface {
	Symmetric(b engine.SymmetricBatch, bcp engine.BCP)
	Asymmetric(b engine.AsymmetricBatch, bcp engine.BCP)
	Compound(b engine.CompoundBatch, bcp engine.BCP)
}

// SinkFuncs adapts plain functions to BatchSink. A nil OnCompound unpacks
// compound batches into the symmetric/asymmetric handlers, so sinks that
// only care about individual pairs need not know about block tiling.
type SinkFuncs struct {
	OnSymmetric  func(engine.SymmetricBatch, engine.BCP)
	OnAsymmetric func(engine.AsymmetricBatch, engine.BCP)
	OnCompound   func(engine.CompoundBatch, engine.BCP)
}

func (s SinkFuncs) Symmetric(b engine.SymmetricBatch, bcp engine.BCP) {
	if s.OnSymmetric != nil {
		s.OnSymmetric(b, bcp)
	}
}

func (s SinkFuncs) Asymmetric(b engine.AsymmetricBatch, bcp engine.BCP) {
	if s.OnAsymmetric != nil {
		s.OnAsymmetric(b, bcp)
	}
}

func (s SinkFuncs) Compound(b engine.CompoundBatch, bcp engine.BCP) {
	if s.OnCompound != nil {
		s.OnCompound(b, bcp)
		return
	}
	for _, sb := range b.Sym {
		s.Symmetric(sb, bcp)
	}
	for _, ab := range b.Asym {
		s.Asymmetric(ab, bcp)
	}
}

// Container is the contract DirectSum and LinkedCells both satisfy.
type Container[U any] interface {
	Build(particles []particle.Stored[U], box mddomain.Box) error
	RebuildStructure()
	ForEachInteractionBatch(sink BatchSink)
	CollectIndicesInRegion(region mddomain.Box) []int

	Contains(id particle.ID) bool
	ParticleCount() int
	MinID() particle.ID
	MaxID() particle.ID
	IDToIndex(id particle.ID) int

	Layout() storage.Layout[U]
	Flags() Flags
}

// NotifyMoved is implemented by containers whose structure depends on
// particle position and must be told when positions changed outside of a
// full RebuildStructure (optional: LinkedCells satisfies it; DirectSum's
// rebuild is a no-op either way since it holds no spatial index).
type NotifyMoved interface {
	NotifyParticleMoved(index int)
}
