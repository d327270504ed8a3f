package force

import (
	"math"

	"github.com/jkkdy/april/pkg/aerr"
	"github.com/jkkdy/april/pkg/mdvec3"
	"github.com/jkkdy/april/pkg/particle"
)

// Charged is the constraint Coulomb places on the user-data payload: it
// must expose a scalar Charge.
type Charged interface {
	Charge() float64
}

// Coulomb is Coulomb's law: F = k*q1*q2/r^2, directed along r (p2 - p1). It
// requires the UserData field and a payload type satisfying Charged.
type Coulomb[U Charged] struct {
	K      float64
	cutoff float64
}

// NewCoulomb builds a Coulomb force with the given constant and no cutoff.
func NewCoulomb[U Charged](k float64) Coulomb[U] {
	return Coulomb[U]{K: k, cutoff: NoCutoff}
}

// WithCutoff overrides the default (no cutoff).
func (c Coulomb[U]) WithCutoff(cutoff float64) Coulomb[U] {
	c.cutoff = cutoff
	return c
}

func (c Coulomb[U]) Cutoff() float64  { return c.cutoff }
func (c Coulomb[U]) Cutoff2() float64 { return cutoff2(c.cutoff) }
func (c Coulomb[U]) Kind() string     { return "coulomb" }

func (c Coulomb[U]) RequiredFields() particle.Field { return particle.FieldUserData }

func (c Coulomb[U]) Eval(p1, p2 particle.View[U], r mdvec3.Vec3) mdvec3.Vec3 {
	invR := mdvec3.InvNorm(r)
	mag := c.K * p1.UserData().Charge() * p2.UserData().Charge() * invR * invR
	return r.Mul(mag * invR)
}

// Mix refuses Coulomb constants that differ beyond floating-point noise:
// averaging unrelated dielectric media would silently produce a physically
// meaningless mixed constant, so the mismatch surfaces at build time
// instead.
func (c Coulomb[U]) Mix(other Force[U]) (Force[U], error) {
	o, ok := other.(Coulomb[U])
	if !ok {
		return nil, aerr.New(aerr.InvalidConfig, "coulomb", "cannot mix coulomb with %s", other.Kind())
	}
	if math.Abs(c.K-o.K) > 1e-9 {
		return nil, aerr.New(aerr.InvalidConfig, "coulomb",
			"cannot mix differing Coulomb constants %g and %g", c.K, o.K)
	}
	cutoff := c.cutoff
	if o.cutoff > cutoff {
		cutoff = o.cutoff
	}
	return Coulomb[U]{K: c.K, cutoff: cutoff}, nil
}
