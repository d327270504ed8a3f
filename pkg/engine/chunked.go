package engine

import (
	"github.com/jkkdy/april/pkg/force"
	"github.com/jkkdy/april/pkg/mdvec3"
	"github.com/jkkdy/april/pkg/particle"
	"github.com/jkkdy/april/pkg/storage"
)

// chunkSeg is the sub-range of one chunk covered by a batch index range:
// lanes [lo,hi) of chunk, whose lane 0 sits at physical index base.
type chunkSeg struct {
	chunk int
	lo    int
	hi    int
	base  int
}

func chunkSegments(r Range, width int) []chunkSeg {
	var segs []chunkSeg
	for i := r.Start; i < r.End; {
		c := i / width
		lo := i - c*width
		hi := width
		if end := r.End - c*width; end < hi {
			hi = end
		}
		segs = append(segs, chunkSeg{chunk: c, lo: lo, hi: hi, base: c * width})
		i = c*width + hi
	}
	return segs
}

// runSymmetricChunked is the AoSoA shape of RunSymmetric: the inner lane
// loop runs over whole chunks, unrolled by two with independent
// accumulator sets to break the force-reduction latency chain; the
// accumulated force lands on the outer particle once per outer lane.
func (e *Executor[U]) runSymmetricChunked(ch storage.Chunked[U], b SymmetricBatch, bcp BCP) {
	segs := chunkSegments(b.Range, ch.ChunkWidth())
	for si, s1 := range segs {
		l1 := ch.ChunkLanes(s1.chunk)
		for i := s1.lo; i < s1.hi; i++ {
			if l1.State[i].Has(particle.Dead) {
				continue
			}
			var acc0, acc1 mdvec3.Vec3
			// Tail of the outer segment first, then every following segment.
			acc0, acc1 = e.sweepLanes(ch, l1, i, s1.base+i, chunkSeg{chunk: s1.chunk, lo: i + 1, hi: s1.hi, base: s1.base}, bcp, acc0, acc1)
			for _, s2 := range segs[si+1:] {
				acc0, acc1 = e.sweepLanes(ch, l1, i, s1.base+i, s2, bcp, acc0, acc1)
			}
			l1.Force[i] = l1.Force[i].Add(acc0).Add(acc1)
		}
	}
}

// runAsymmetricChunked is the AoSoA shape of RunAsymmetric.
func (e *Executor[U]) runAsymmetricChunked(ch storage.Chunked[U], b AsymmetricBatch, bcp BCP) {
	segs1 := chunkSegments(b.Range1, ch.ChunkWidth())
	segs2 := chunkSegments(b.Range2, ch.ChunkWidth())
	for _, s1 := range segs1 {
		l1 := ch.ChunkLanes(s1.chunk)
		for i := s1.lo; i < s1.hi; i++ {
			if l1.State[i].Has(particle.Dead) {
				continue
			}
			var acc0, acc1 mdvec3.Vec3
			for _, s2 := range segs2 {
				acc0, acc1 = e.sweepLanes(ch, l1, i, s1.base+i, s2, bcp, acc0, acc1)
			}
			l1.Force[i] = l1.Force[i].Add(acc0).Add(acc1)
		}
	}
}

// sweepLanes accumulates the force on outer lane (l1,i) from every live
// lane of seg, writing the reaction into seg's force array as it goes. The
// lane loop advances two at a time, feeding the two accumulators
// alternately; the odd remainder lands on acc0.
func (e *Executor[U]) sweepLanes(ch storage.Chunked[U], l1 storage.Lanes[U], i, phys1 int, seg chunkSeg, bcp BCP, acc0, acc1 mdvec3.Vec3) (mdvec3.Vec3, mdvec3.Vec3) {
	l2 := ch.ChunkLanes(seg.chunk)
	j := seg.lo
	for ; j+1 < seg.hi; j += 2 {
		if out, ok := e.laneForce(l1, i, phys1, l2, j, seg.base+j, bcp); ok {
			acc0 = acc0.Add(out)
			l2.Force[j] = l2.Force[j].Sub(out)
		}
		if out, ok := e.laneForce(l1, i, phys1, l2, j+1, seg.base+j+1, bcp); ok {
			acc1 = acc1.Add(out)
			l2.Force[j+1] = l2.Force[j+1].Sub(out)
		}
	}
	if j < seg.hi {
		if out, ok := e.laneForce(l1, i, phys1, l2, j, seg.base+j, bcp); ok {
			acc0 = acc0.Add(out)
			l2.Force[j] = l2.Force[j].Sub(out)
		}
	}
	return acc0, acc1
}

// laneForce evaluates the force on lane (l1,i) exerted by lane (l2,j),
// returning false for dead partners, pairs past the cutoff, and no-force
// pairs.
func (e *Executor[U]) laneForce(l1 storage.Lanes[U], i, phys1 int, l2 storage.Lanes[U], j, phys2 int, bcp BCP) (mdvec3.Vec3, bool) {
	if l2.State[j].Has(particle.Dead) {
		return mdvec3.Zero, false
	}
	f := e.Table.Lookup(l1.ID[i], l2.ID[j], l1.Type[i], l2.Type[j])
	r := bcp(l2.Position[j].Sub(l1.Position[i]))
	if force.HasCutoff(f) && r.Dot(r) > f.Cutoff2() {
		return mdvec3.Zero, false
	}
	v1 := e.Layout.View(phys1)
	v2 := e.Layout.View(phys2)
	return f.Eval(v1, v2, r), true
}
