package force

import (
	"fmt"

	"github.com/jkkdy/april/pkg/mdvec3"
	"github.com/jkkdy/april/pkg/particle"
)

// Gravity is Newton's law of gravitation: F = G*m1*m2/r^2, directed along r
// (p2 - p1). It requires the Mass field.
type Gravity[U any] struct {
	G      float64
	cutoff float64
}

// NewGravity builds a Gravity force with the given constant and no cutoff.
func NewGravity[U any](g float64) Gravity[U] {
	return Gravity[U]{G: g, cutoff: NoCutoff}
}

// WithCutoff overrides the default (no cutoff).
func (g Gravity[U]) WithCutoff(cutoff float64) Gravity[U] {
	g.cutoff = cutoff
	return g
}

func (g Gravity[U]) Cutoff() float64  { return g.cutoff }
func (g Gravity[U]) Cutoff2() float64 { return cutoff2(g.cutoff) }
func (g Gravity[U]) Kind() string     { return "gravity" }

func (g Gravity[U]) RequiredFields() particle.Field { return particle.FieldMass }

func (g Gravity[U]) Eval(p1, p2 particle.View[U], r mdvec3.Vec3) mdvec3.Vec3 {
	invR := mdvec3.InvNorm(r)
	mag := g.G * p1.Mass() * p2.Mass() * invR * invR
	return r.Mul(mag * invR)
}

// Mix arithmetically averages the gravitational constant and cutoff.
func (g Gravity[U]) Mix(other Force[U]) (Force[U], error) {
	o, ok := other.(Gravity[U])
	if !ok {
		return nil, fmt.Errorf("force: cannot mix gravity with %s", other.Kind())
	}
	return Gravity[U]{
		G:      0.5 * (g.G + o.G),
		cutoff: 0.5 * (g.cutoff + o.cutoff),
	}, nil
}
