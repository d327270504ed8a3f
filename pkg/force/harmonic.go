package force

import (
	"fmt"
	"math"

	"github.com/jkkdy/april/pkg/mdvec3"
	"github.com/jkkdy/april/pkg/particle"
)

// Harmonic is Hooke's-law spring force: F = k*(|r|-r0)*(r/|r|). K is the
// spring constant, R0 the equilibrium distance.
type Harmonic[U any] struct {
	K, R0  float64
	cutoff float64
}

// NewHarmonic builds a Harmonic force with no cutoff.
func NewHarmonic[U any](k, r0 float64) Harmonic[U] {
	return Harmonic[U]{K: k, R0: r0, cutoff: NoCutoff}
}

// WithCutoff overrides the default (no cutoff).
func (h Harmonic[U]) WithCutoff(cutoff float64) Harmonic[U] {
	h.cutoff = cutoff
	return h
}

func (h Harmonic[U]) Cutoff() float64  { return h.cutoff }
func (h Harmonic[U]) Cutoff2() float64 { return cutoff2(h.cutoff) }
func (h Harmonic[U]) Kind() string     { return "harmonic" }

func (h Harmonic[U]) RequiredFields() particle.Field { return particle.FieldNone }

func (h Harmonic[U]) Eval(_, _ particle.View[U], r mdvec3.Vec3) mdvec3.Vec3 {
	dist := mdvec3.Norm(r)
	magnitude := h.K * (dist - h.R0) / dist
	return r.Mul(magnitude)
}

// Mix averages K and R0 arithmetically; cutoff is the max of the two.
func (h Harmonic[U]) Mix(other Force[U]) (Force[U], error) {
	o, ok := other.(Harmonic[U])
	if !ok {
		return nil, fmt.Errorf("force: cannot mix harmonic with %s", other.Kind())
	}
	cutoff := math.Max(h.cutoff, o.cutoff)
	return Harmonic[U]{
		K:      0.5 * (h.K + o.K),
		R0:     0.5 * (h.R0 + o.R0),
		cutoff: cutoff,
	}, nil
}
