// Package force implements the pairwise force descriptors and the force
// table that maps (type,type) and (id,id) pairs to them.
//
// Go has no closed sum type, so a force kind is a concrete value type
// satisfying the Force[U] interface, with NoForce as the "nothing acts on
// this pair" arm of the set rather than a nil sentinel.
package force

import (
	"math"

	"github.com/jkkdy/april/pkg/mdvec3"
	"github.com/jkkdy/april/pkg/particle"
)

// NoCutoff is the sentinel cutoff value meaning "no cutoff" (+infinity).
var NoCutoff = math.Inf(1)

// Force is satisfied by every pairwise force kind. U is the user-data
// payload type carried by particles; forces that need it (Coulomb needs a
// charge) constrain U accordingly.
type Force[U any] interface {
	// Cutoff returns the force's cutoff radius, or NoCutoff.
	Cutoff() float64
	// Cutoff2 returns Cutoff()*Cutoff(), precomputed to avoid a
	// multiplication on the hot path.
	Cutoff2() float64
	// RequiredFields declares which particle fields Eval reads.
	RequiredFields() particle.Field
	// Eval returns the force exerted on p1 by p2, given r = p2.Position -
	// p1.Position already corrected by the boundary-correction predicate.
	// By construction Eval(p1,p2,r) == -Eval(p2,p1,-r).
	Eval(p1, p2 particle.View[U], r mdvec3.Vec3) mdvec3.Vec3
	// Mix derives a cross-type force from two self-interactions. It must
	// reject mixing with a different concrete force kind.
	Mix(other Force[U]) (Force[U], error)
	// Kind names the force for diagnostics and mixing-kind checks.
	Kind() string
}

// HasCutoff reports whether f's cutoff is finite.
func HasCutoff[U any](f Force[U]) bool { return !math.IsInf(f.Cutoff(), 1) }

// cutoff2 computes the cached squared cutoff for a finite cutoff value, or
// +Inf if cutoff is NoCutoff.
func cutoff2(cutoff float64) float64 {
	if math.IsInf(cutoff, 1) {
		return math.Inf(1)
	}
	return cutoff * cutoff
}
