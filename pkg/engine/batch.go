// Package engine executes interaction batches: it walks the pairs a
// container produces, applies the boundary-correction predicate to each
// pair's difference vector, evaluates the resolved force and writes the
// Newton's-third-law reaction back through the storage layout.
package engine

import (
	"github.com/jkkdy/april/pkg/mdvec3"
	"github.com/jkkdy/april/pkg/particle"
)

// Range is a half-open index range [Start, End) into a storage layout's
// current physical order.
type Range struct {
	Start, End int
}

func (r Range) Len() int { return r.End - r.Start }
func (r Range) Empty() bool { return r.Start >= r.End }

// BCP (boundary-correction predicate) corrects a pair difference vector for
// periodicity before cutoff/force evaluation: minimum-image wrap for
// DirectSum, or a precomputed shift add for LinkedCells' wrapped cell pairs.
type BCP func(mdvec3.Vec3) mdvec3.Vec3

// Identity is the BCP for non-periodic batches.
func Identity(r mdvec3.Vec3) mdvec3.Vec3 { return r }

// Batch is the common surface the executor needs: which two type indices
// the batch's force lookup should use.
type Batch interface {
	Types() (particle.Type, particle.Type)
}

// SymmetricBatch iterates pairs (i,j), i<j, within a single index range:
// every particle interacts with every other particle once.
type SymmetricBatch struct {
	Type  particle.Type
	Range Range
}

func (b SymmetricBatch) Types() (particle.Type, particle.Type) { return b.Type, b.Type }

// AsymmetricBatch iterates the cross product of two disjoint index ranges.
type AsymmetricBatch struct {
	Type1, Type2   particle.Type
	Range1, Range2 Range
	BCP            BCP // nil means Identity; wrapped cell pairs set a shift BCP
}

func (b AsymmetricBatch) Types() (particle.Type, particle.Type) { return b.Type1, b.Type2 }

// CompoundBatch aggregates every batch of one cell-grid block so the whole
// block is dispatched through a single callback invocation, amortizing
// per-batch dispatch overhead across the block's cells.
type CompoundBatch struct {
	Sym  []SymmetricBatch
	Asym []AsymmetricBatch
}

func (b CompoundBatch) Len() int { return len(b.Sym) + len(b.Asym) }
