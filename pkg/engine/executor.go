package engine

import (
	"github.com/jkkdy/april/pkg/force"
	"github.com/jkkdy/april/pkg/mddomain"
	"github.com/jkkdy/april/pkg/mdvec3"
	"github.com/jkkdy/april/pkg/particle"
	"github.com/jkkdy/april/pkg/storage"
)

// Executor evaluates batches produced by a container against a force table,
// writing results through a storage layout.
type Executor[U any] struct {
	Layout storage.Layout[U]
	Table  *force.Table[U]
}

// RunSymmetric evaluates every i<j pair within one index range.
func (e *Executor[U]) RunSymmetric(b SymmetricBatch, bcp BCP) {
	if bcp == nil {
		bcp = Identity
	}
	if b.Range.Empty() {
		return
	}
	if ch, ok := e.Layout.(storage.Chunked[U]); ok {
		e.runSymmetricChunked(ch, b, bcp)
		return
	}
	for i := b.Range.Start; i < b.Range.End-1; i++ {
		a1 := e.Layout.At(i)
		if a1.State().Has(particle.Dead) {
			continue
		}
		for j := i + 1; j < b.Range.End; j++ {
			a2 := e.Layout.At(j)
			if a2.State().Has(particle.Dead) {
				continue
			}
			e.evalPair(a1, a2, bcp)
		}
	}
}

// RunAsymmetric evaluates every pair in Range1 x Range2. b.BCP, when set,
// overrides the container-wide bcp (used for LinkedCells' wrapped cell
// pairs, which add a precomputed periodic shift instead of minimum-image).
func (e *Executor[U]) RunAsymmetric(b AsymmetricBatch, bcp BCP) {
	active := bcp
	if b.BCP != nil {
		active = b.BCP
	}
	if active == nil {
		active = Identity
	}
	if b.Range1.Empty() || b.Range2.Empty() {
		return
	}
	if ch, ok := e.Layout.(storage.Chunked[U]); ok {
		e.runAsymmetricChunked(ch, b, active)
		return
	}
	for i := b.Range1.Start; i < b.Range1.End; i++ {
		a1 := e.Layout.At(i)
		if a1.State().Has(particle.Dead) {
			continue
		}
		for j := b.Range2.Start; j < b.Range2.End; j++ {
			a2 := e.Layout.At(j)
			if a2.State().Has(particle.Dead) {
				continue
			}
			e.evalPair(a1, a2, active)
		}
	}
}

// RunCompound evaluates one block's aggregated batches in a single
// dispatch.
func (e *Executor[U]) RunCompound(b CompoundBatch, bcp BCP) {
	for _, sb := range b.Sym {
		e.RunSymmetric(sb, bcp)
	}
	for _, ab := range b.Asym {
		e.RunAsymmetric(ab, bcp)
	}
}

func (e *Executor[U]) evalPair(a1, a2 particle.Accessor[U], bcp BCP) {
	f := e.Table.Lookup(a1.ID(), a2.ID(), a1.Type(), a2.Type())
	r := bcp(a2.Position().Sub(a1.Position()))

	if force.HasCutoff(f) {
		if r.Dot(r) > f.Cutoff2() {
			return
		}
	}

	v1 := particle.NewView[U](a1)
	v2 := particle.NewView[U](a2)
	out := f.Eval(v1, v2, r)

	particle.NewRestrictedRef[U](a1).AddForce(out)
	particle.NewRestrictedRef[U](a2).AddForce(out.Mul(-1))
}

// MinImageBCP builds a BCP that applies domain minimum-image wrapping on
// the given periodic axes; this is DirectSum's jump-table entry.
func MinImageBCP(extent mdvec3.Vec3, px, py, pz bool) BCP {
	return func(r mdvec3.Vec3) mdvec3.Vec3 {
		return mddomain.MinImage(r, extent, px, py, pz)
	}
}

// ShiftBCP builds a BCP that adds a precomputed shift vector, used for
// LinkedCells' wrapped neighbor-cell pairs.
func ShiftBCP(shift mdvec3.Vec3) BCP {
	return func(r mdvec3.Vec3) mdvec3.Vec3 { return r.Add(shift) }
}
