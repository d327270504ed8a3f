package force

import (
	"fmt"
	"math"

	"github.com/jkkdy/april/pkg/mdvec3"
	"github.com/jkkdy/april/pkg/particle"
)

// LennardJones is the 12-6 Lennard-Jones potential. Epsilon is the well
// depth, Sigma the zero-crossing distance. The default cutoff (when none is
// set) is 3*Sigma.
type LennardJones[U any] struct {
	epsilon, sigma, cutoff float64
	c6, c12                float64
}

// NewLennardJones builds a LennardJones force with the conventional
// default cutoff of 3*sigma.
func NewLennardJones[U any](epsilon, sigma float64) LennardJones[U] {
	lj := LennardJones[U]{epsilon: epsilon, sigma: sigma, cutoff: 3 * sigma}
	lj.recompute()
	return lj
}

// WithCutoff overrides the default cutoff.
func (lj LennardJones[U]) WithCutoff(cutoff float64) LennardJones[U] {
	lj.cutoff = cutoff
	return lj
}

func (lj *LennardJones[U]) recompute() {
	s2 := lj.sigma * lj.sigma
	s6 := s2 * s2 * s2
	s12 := s6 * s6
	lj.c6 = 24.0 * lj.epsilon * s6
	lj.c12 = 48.0 * lj.epsilon * s12
}

func (lj LennardJones[U]) Cutoff() float64  { return lj.cutoff }
func (lj LennardJones[U]) Cutoff2() float64 { return cutoff2(lj.cutoff) }
func (lj LennardJones[U]) Kind() string     { return "lennard_jones" }

func (lj LennardJones[U]) RequiredFields() particle.Field { return particle.FieldNone }

func (lj LennardJones[U]) Eval(_, _ particle.View[U], r mdvec3.Vec3) mdvec3.Vec3 {
	invR2 := 1.0 / r.Dot(r)
	invR6 := invR2 * invR2 * invR2
	magnitude := (lj.c12*invR6 - lj.c6) * invR6 * invR2
	return r.Mul(-magnitude)
}

// Mix applies the Lorentz-Berthelot mixing rules: geometric mean of
// epsilon, arithmetic mean of sigma, geometric mean of cutoff.
func (lj LennardJones[U]) Mix(other Force[U]) (Force[U], error) {
	o, ok := other.(LennardJones[U])
	if !ok {
		return nil, fmt.Errorf("force: cannot mix lennard_jones with %s", other.Kind())
	}
	mixed := LennardJones[U]{
		epsilon: math.Sqrt(lj.epsilon * o.epsilon),
		sigma:   0.5 * (lj.sigma + o.sigma),
		cutoff:  math.Sqrt(lj.cutoff * o.cutoff),
	}
	mixed.recompute()
	return mixed, nil
}
