// Package mddomain holds the axis-aligned simulation box and the margin
// policy used to derive it from user input plus the initial particle
// bounding box.
package mddomain

import (
	"math"

	"github.com/jkkdy/april/pkg/aerr"
	"github.com/jkkdy/april/pkg/mdvec3"
)

type Vec3 = mdvec3.Vec3

// Box is a half-open axis-aligned region [Min, Min+Extent).
type Box struct {
	Min    Vec3
	Extent Vec3
}

// Max returns Min+Extent.
func (b Box) Max() Vec3 {
	return Vec3{b.Min[0] + b.Extent[0], b.Min[1] + b.Extent[1], b.Min[2] + b.Extent[2]}
}

// Contains reports whether p lies within [Min, Max).
func (b Box) Contains(p Vec3) bool {
	max := b.Max()
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] >= max[i] {
			return false
		}
	}
	return true
}

// Volume returns the box's volume.
func (b Box) Volume() float64 { return b.Extent[0] * b.Extent[1] * b.Extent[2] }

// Intersects reports whether b and o overlap.
func (b Box) Intersects(o Box) bool {
	bMax, oMax := b.Max(), o.Max()
	for i := 0; i < 3; i++ {
		if b.Min[i] >= oMax[i] || o.Min[i] >= bMax[i] {
			return false
		}
	}
	return true
}

// Margin pads the particle bounding box when no domain is specified; an
// explicit domain is never changed by it. Either Absolute units are added
// on every side, or the box is grown by a Fraction of its own extent,
// whichever is set. Fraction takes precedence when both are non-zero.
type Margin struct {
	Absolute float64
	Fraction float64
}

func (m Margin) apply(boundsMin, boundsExtent Vec3) (Vec3, Vec3) {
	if m.Fraction > 0 {
		pad := Vec3{boundsExtent[0] * m.Fraction, boundsExtent[1] * m.Fraction, boundsExtent[2] * m.Fraction}
		return Vec3{boundsMin[0] - pad[0], boundsMin[1] - pad[1], boundsMin[2] - pad[2]},
			Vec3{boundsExtent[0] + 2*pad[0], boundsExtent[1] + 2*pad[1], boundsExtent[2] + 2*pad[2]}
	}
	pad := Vec3{m.Absolute, m.Absolute, m.Absolute}
	return Vec3{boundsMin[0] - pad[0], boundsMin[1] - pad[1], boundsMin[2] - pad[2]},
		Vec3{boundsExtent[0] + 2*pad[0], boundsExtent[1] + 2*pad[1], boundsExtent[2] + 2*pad[2]}
}

// BoundingBox returns the smallest Box enclosing every position in ps.
func BoundingBox(ps []Vec3) Box {
	if len(ps) == 0 {
		return Box{}
	}
	min := ps[0]
	max := ps[0]
	for _, p := range ps[1:] {
		min = mdvec3.Min(min, p)
		max = mdvec3.Max(max, p)
	}
	return Box{Min: min, Extent: Vec3{max[0] - min[0], max[1] - min[1], max[2] - min[2]}}
}

// Resolve computes the domain to use for a build: if explicit is non-nil it
// is used verbatim (after validating, when explicitlySet is true, that it
// encloses the particle bounding box); otherwise the particle bounding box
// is grown by margin. Resolve does not report whether the domain is
// unbounded; that flag is derived by the caller.
func Resolve(explicit *Box, margin Margin, particlePositions []Vec3, explicitlySet bool) (Box, error) {
	bounds := BoundingBox(particlePositions)

	if explicit != nil {
		if explicitlySet && !encloses(*explicit, bounds) {
			return Box{}, aerr.New(aerr.InvalidConfig, "domain",
				"user-specified domain %v does not enclose particle bounding box %v", *explicit, bounds)
		}
		return *explicit, nil
	}

	min, extent := margin.apply(bounds.Min, bounds.Extent)
	return Box{Min: min, Extent: extent}, nil
}

func encloses(outer, inner Box) bool {
	outerMax := outer.Max()
	innerMax := inner.Max()
	for i := 0; i < 3; i++ {
		if inner.Min[i] < outer.Min[i]-1e-12 || innerMax[i] > outerMax[i]+1e-12 {
			return false
		}
	}
	return true
}

// MinImage returns the minimum-image difference of r along axes flagged in
// wrap, given the domain extent. Used as the default boundary-correction
// predicate for periodic axes on DirectSum (LinkedCells instead produces
// wrapped neighbor pairs with a precomputed shift, which is cheaper).
func MinImage(r Vec3, extent Vec3, wrapX, wrapY, wrapZ bool) Vec3 {
	if wrapX {
		r[0] = wrapComponent(r[0], extent[0])
	}
	if wrapY {
		r[1] = wrapComponent(r[1], extent[1])
	}
	if wrapZ {
		r[2] = wrapComponent(r[2], extent[2])
	}
	return r
}

func wrapComponent(x, extent float64) float64 {
	half := extent * 0.5
	for x > half {
		x -= extent
	}
	for x < -half {
		x += extent
	}
	return x
}

// MinImageFast is the single-correction variant used when |r| is already
// known to be within one period of the box (true for any pair drawn from
// within the domain), avoiding the loop in wrapComponent.
func MinImageFast(r Vec3, extent Vec3, wrapX, wrapY, wrapZ bool) Vec3 {
	if wrapX {
		r[0] = fastWrap(r[0], extent[0])
	}
	if wrapY {
		r[1] = fastWrap(r[1], extent[1])
	}
	if wrapZ {
		r[2] = fastWrap(r[2], extent[2])
	}
	return r
}

func fastWrap(x, extent float64) float64 {
	half := extent * 0.5
	if x > half {
		return x - extent
	}
	if x < -half {
		return x + extent
	}
	return x
}

// Finite reports whether a box has no infinite (+Inf or -Inf) components.
func Finite(b Box) bool {
	max := b.Max()
	for i := 0; i < 3; i++ {
		if math.IsInf(b.Min[i], 0) || math.IsInf(max[i], 0) {
			return false
		}
	}
	return true
}
