// Package boundary implements the per-face boundary conditions that run
// over particles once they have left or approached the edge of the
// simulation domain: absorbing, periodic, reflective, repulsive and
// outflow (no-op) faces.
package boundary

import (
	"github.com/jkkdy/april/pkg/mddomain"
	"github.com/jkkdy/april/pkg/particle"
)

// Face names one of the six domain faces.
type Face uint8

const (
	XMinus Face = iota
	XPlus
	YMinus
	YPlus
	ZMinus
	ZPlus
)

var Faces = [6]Face{XMinus, XPlus, YMinus, YPlus, ZMinus, ZPlus}

func (f Face) String() string {
	switch f {
	case XMinus:
		return "x-"
	case XPlus:
		return "x+"
	case YMinus:
		return "y-"
	case YPlus:
		return "y+"
	case ZMinus:
		return "z-"
	case ZPlus:
		return "z+"
	default:
		return "unknown"
	}
}

// Axis returns 0, 1 or 2 for the component the face lies along.
func (f Face) Axis() int { return int(f) / 2 }

// Positive reports whether this is the "+" face on its axis.
func (f Face) Positive() bool { return int(f)%2 == 1 }

// Topology describes how a boundary condition on one face affects both
// particle dynamics and container iteration behaviour.
type Topology struct {
	// Thickness of the boundary region adjacent to the face. Positive
	// means the region lies inside the domain (repulsive); negative means
	// outside (absorbing, outflow); reflective and periodic faces use 0.
	Thickness float64

	// CouplesAxis requires the opposite face to carry a matching
	// condition (periodic boundaries must agree on both sides of an axis).
	CouplesAxis bool

	// ForceWrap tells the container this axis needs minimum-image
	// wrapping / wrapped neighbor pairs (periodic only).
	ForceWrap bool
}

// Condition is a single face's boundary behavior. Apply runs once per
// particle per step against the resolved simulation domain and mutates the
// particle's kinematic state in place. Most conditions only touch Position
// and Velocity, leaving Force to the interaction engine; Repulsive is the
// one exception, since a wall force needs to flow through the same
// integration step as every pairwise force rather than jump the particle's
// velocity directly.
type Condition[U any] interface {
	Topology() Topology
	Kind() string
	Apply(p *particle.Stored[U], face Face, box mddomain.Box)
}
