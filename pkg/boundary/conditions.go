package boundary

import (
	"math"

	"github.com/jkkdy/april/pkg/mddomain"
	"github.com/jkkdy/april/pkg/particle"
)

// Outflow is a no-op boundary: particles cross it freely, the container
// neither wraps nor removes them. Useful as an explicit "open" face.
type Outflow[U any] struct{}

func (Outflow[U]) Topology() Topology { return Topology{Thickness: -1} }
func (Outflow[U]) Kind() string       { return "outflow" }
func (Outflow[U]) Apply(*particle.Stored[U], Face, mddomain.Box) {}

// Absorb transitions a particle that has left the domain through this face
// to the Dead state; dead particles are excluded from subsequent batches.
type Absorb[U any] struct{}

func (Absorb[U]) Topology() Topology { return Topology{Thickness: -1} }
func (Absorb[U]) Kind() string       { return "absorb" }

func (Absorb[U]) Apply(p *particle.Stored[U], face Face, box mddomain.Box) {
	if crossed(p.Position, face, box) {
		p.State = particle.Dead
	}
}

// Periodic wraps a particle's position back into the domain when it exits
// through this face. Topology reports CouplesAxis and ForceWrap so the
// container builds wrapped neighbor pairs and applies minimum-image
// corrections on this axis.
type Periodic[U any] struct{}

func (Periodic[U]) Topology() Topology {
	return Topology{Thickness: 0, CouplesAxis: true, ForceWrap: true}
}
func (Periodic[U]) Kind() string { return "periodic" }

func (Periodic[U]) Apply(p *particle.Stored[U], face Face, box mddomain.Box) {
	axis := face.Axis()
	extent := box.Extent[axis]
	if extent <= 0 {
		return
	}
	min := box.Min[axis]
	x := p.Position[axis] - min
	x = math.Mod(x, extent)
	if x < 0 {
		x += extent
	}
	p.Position[axis] = min + x
}

// Reflective flips the velocity component along the face normal and clamps
// the position back onto the boundary plane once a particle crosses it.
type Reflective[U any] struct{}

func (Reflective[U]) Topology() Topology { return Topology{Thickness: 0} }
func (Reflective[U]) Kind() string       { return "reflective" }

func (Reflective[U]) Apply(p *particle.Stored[U], face Face, box mddomain.Box) {
	axis := face.Axis()
	plane := box.Min[axis]
	if face.Positive() {
		plane = box.Max()[axis]
	}
	if !crossed(p.Position, face, box) {
		return
	}
	p.Position[axis] = plane
	p.Velocity[axis] = -p.Velocity[axis]
}

// Repulsive adds a short-range inverse-power push away from the face, active
// only within the boundary's thickness band, to Force directly rather than
// going through the pairwise force table, which has no notion of a wall.
type Repulsive[U any] struct {
	Thickness float64
	Prefactor float64
	Exponent  float64
}

// NewRepulsive builds a Repulsive boundary with an inverse-square push
// (exponent 2).
func NewRepulsive[U any](thickness, prefactor float64) Repulsive[U] {
	return Repulsive[U]{Thickness: thickness, Prefactor: prefactor, Exponent: 2}
}

func (r Repulsive[U]) Topology() Topology { return Topology{Thickness: r.Thickness} }
func (Repulsive[U]) Kind() string         { return "repulsive" }

func (r Repulsive[U]) Apply(p *particle.Stored[U], face Face, box mddomain.Box) {
	axis := face.Axis()
	var dist float64
	var dir float64
	if face.Positive() {
		dist = box.Max()[axis] - p.Position[axis]
		dir = -1
	} else {
		dist = p.Position[axis] - box.Min[axis]
		dir = 1
	}
	if dist <= 0 || dist >= r.Thickness {
		return
	}
	mag := r.Prefactor / math.Pow(dist, r.Exponent)
	p.Force[axis] += dir * mag
}

func crossed(pos Vec3, face Face, box mddomain.Box) bool {
	axis := face.Axis()
	if face.Positive() {
		return pos[axis] >= box.Max()[axis]
	}
	return pos[axis] < box.Min[axis]
}

type Vec3 = mddomain.Vec3
