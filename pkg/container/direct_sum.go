package container

import (
	"sort"

	"github.com/jkkdy/april/pkg/engine"
	"github.com/jkkdy/april/pkg/mddomain"
	"github.com/jkkdy/april/pkg/particle"
	"github.com/jkkdy/april/pkg/storage"
)

// DirectSum is the O(N^2) all-pairs container: every particle interacts
// with every other one, batched per type (symmetric) and per type-pair
// (asymmetric). The engine still looks up the force table once per pair.
type DirectSum[U any] struct {
	layout storage.Layout[U]
	flags  Flags
	box    mddomain.Box

	symBatches  []engine.SymmetricBatch
	asymBatches []engine.AsymmetricBatch
}

// NewDirectSum builds an (unbuilt) DirectSum container over the given
// layout. flags.InfiniteDomain is permitted here, unlike LinkedCells, since
// DirectSum needs no spatial grid.
func NewDirectSum[U any](layout storage.Layout[U], flags Flags) *DirectSum[U] {
	return &DirectSum[U]{layout: layout, flags: flags}
}

func (d *DirectSum[U]) Build(particles []particle.Stored[U], box mddomain.Box) error {
	d.box = box
	sorted := append([]particle.Stored[U](nil), particles...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Type < sorted[j].Type })
	d.layout.Build(sorted)
	d.buildBatches()
	return nil
}

func (d *DirectSum[U]) buildBatches() {
	d.symBatches = d.symBatches[:0]
	d.asymBatches = d.asymBatches[:0]

	n := d.layout.Len()
	if n == 0 {
		return
	}

	type typeRange struct {
		typ        particle.Type
		start, end int
	}
	var ranges []typeRange
	start := 0
	current := d.layout.At(0).Type()
	for i := 1; i < n; i++ {
		t := d.layout.At(i).Type()
		if t != current {
			ranges = append(ranges, typeRange{current, start, i})
			start = i
			current = t
		}
	}
	ranges = append(ranges, typeRange{current, start, n})

	for _, tr := range ranges {
		d.symBatches = append(d.symBatches, engine.SymmetricBatch{
			Type:  tr.typ,
			Range: engine.Range{Start: tr.start, End: tr.end},
		})
	}
	for i := 0; i < len(ranges); i++ {
		for j := i + 1; j < len(ranges); j++ {
			d.asymBatches = append(d.asymBatches, engine.AsymmetricBatch{
				Type1:  ranges[i].typ,
				Type2:  ranges[j].typ,
				Range1: engine.Range{Start: ranges[i].start, End: ranges[i].end},
				Range2: engine.Range{Start: ranges[j].start, End: ranges[j].end},
			})
		}
	}
}

// RebuildStructure is a no-op: DirectSum holds no spatial index, only the
// per-type batch ranges computed from a type-sorted particle order, which
// does not change as positions move (only Build re-sorts).
func (d *DirectSum[U]) RebuildStructure() {}

func (d *DirectSum[U]) ForEachInteractionBatch(sink BatchSink) {
	bcp := engine.MinImageBCP(d.box.Extent, d.flags.PeriodicX, d.flags.PeriodicY, d.flags.PeriodicZ)
	for _, b := range d.symBatches {
		sink.Symmetric(b, bcp)
	}
	for _, b := range d.asymBatches {
		sink.Asymmetric(b, bcp)
	}
}

func (d *DirectSum[U]) CollectIndicesInRegion(region mddomain.Box) []int {
	n := d.layout.Len()
	var ret []int
	domainVol := d.box.Volume()
	if domainVol > 1e-9 {
		ratio := region.Volume() / domainVol
		est := int(float64(n) * ratio * 1.1)
		if est > n {
			est = n
		}
		if est > 0 {
			ret = make([]int, 0, est)
		}
	}
	for i := 0; i < n; i++ {
		a := d.layout.At(i)
		if a.State().Has(particle.Dead) {
			continue
		}
		if region.Contains(a.Position()) {
			ret = append(ret, i)
		}
	}
	return ret
}

func (d *DirectSum[U]) Contains(id particle.ID) bool { return d.layout.IDToIndex(id) >= 0 }
func (d *DirectSum[U]) ParticleCount() int           { return d.layout.Len() }
func (d *DirectSum[U]) MinID() particle.ID           { return d.layout.MinID() }
func (d *DirectSum[U]) MaxID() particle.ID           { return d.layout.MaxID() }
func (d *DirectSum[U]) IDToIndex(id particle.ID) int { return d.layout.IDToIndex(id) }
func (d *DirectSum[U]) Layout() storage.Layout[U]    { return d.layout }
func (d *DirectSum[U]) Flags() Flags                 { return d.flags }
