package generate

import (
	"math"

	"github.com/jkkdy/april/pkg/aerr"
	"github.com/jkkdy/april/pkg/particle"
)

// ParticleSphere builds a particle lattice packed into an ellipsoid (a
// uniform Radius produces a sphere; Radius.Z == 0 collapses it to a 2-D
// disc in the XY plane).
type ParticleSphere[U any] struct {
	center  particle.Vec3
	vel     particle.Vec3
	radii   particle.Vec3
	spacing float64
	mass    float64
	typ     particle.Type
	state   particle.State
	data    U
	thermal ThermalVelocity
}

func (s ParticleSphere[U]) At(v particle.Vec3) ParticleSphere[U]           { s.center = v; return s }
func (s ParticleSphere[U]) WithVelocity(v particle.Vec3) ParticleSphere[U] { s.vel = v; return s }

// Radius sets a uniform radius on all three axes (a true sphere).
func (s ParticleSphere[U]) Radius(r float64) ParticleSphere[U] {
	s.radii = particle.Vec3{r, r, r}
	return s
}

// RadiusXYZ sets independent per-axis radii (an ellipsoid). A zero radius
// on an axis restricts the lattice to the plane through the center on that
// axis.
func (s ParticleSphere[U]) RadiusXYZ(rx, ry, rz float64) ParticleSphere[U] {
	s.radii = particle.Vec3{rx, ry, rz}
	return s
}

func (s ParticleSphere[U]) Spacing(d float64) ParticleSphere[U]     { s.spacing = d; return s }
func (s ParticleSphere[U]) Mass(m float64) ParticleSphere[U]        { s.mass = m; return s }
func (s ParticleSphere[U]) AsType(t particle.Type) ParticleSphere[U] { s.typ = t; return s }
func (s ParticleSphere[U]) WithState(st particle.State) ParticleSphere[U] { s.state = st; return s }
func (s ParticleSphere[U]) WithData(d U) ParticleSphere[U]          { s.data = d; return s }
func (s ParticleSphere[U]) WithThermalVelocity(f ThermalVelocity) ParticleSphere[U] {
	s.thermal = f
	return s
}

// ToParticles packs a lattice of spacing s.spacing into the ellipsoid
// defined by s.radii, centered at s.center. An axis whose radius is 0 is
// flattened to the single lattice plane through the center on that axis.
func (s ParticleSphere[U]) ToParticles() ([]particle.Record[U], error) {
	if s.spacing <= 0 {
		return nil, aerr.New(aerr.InvalidConfig, "particle_sphere", "spacing must be positive, got %g", s.spacing)
	}
	if s.radii[0] <= 0 && s.radii[1] <= 0 && s.radii[2] <= 0 {
		return nil, aerr.New(aerr.InvalidConfig, "particle_sphere", "at least one radius must be positive")
	}

	var steps [3]int
	for a := 0; a < 3; a++ {
		r := s.radii[a]
		if r <= 0 {
			steps[a] = 0
			continue
		}
		eff := math.Max(r, s.spacing)
		steps[a] = int(math.Ceil(eff / s.spacing))
	}

	var out []particle.Record[U]
	for iz := -steps[2]; iz <= steps[2]; iz++ {
		for iy := -steps[1]; iy <= steps[1]; iy++ {
			for ix := -steps[0]; ix <= steps[0]; ix++ {
				offset := particle.Vec3{
					float64(ix) * s.spacing,
					float64(iy) * s.spacing,
					float64(iz) * s.spacing,
				}
				if !s.insideEllipsoid(offset) {
					continue
				}
				vel := s.vel
				if s.thermal != nil {
					vel = vel.Add(s.thermal())
				}
				out = append(out, particle.Record[U]{
					Type:     s.typ,
					Position: s.center.Add(offset),
					Velocity: vel,
					Mass:     s.mass,
					State:    s.state,
					UserData: s.data,
				})
			}
		}
	}
	return out, nil
}

func (s ParticleSphere[U]) insideEllipsoid(offset particle.Vec3) bool {
	sum := 0.0
	for a := 0; a < 3; a++ {
		r := s.radii[a]
		if r <= 0 {
			if offset[a] != 0 {
				return false
			}
			continue
		}
		t := offset[a] / r
		sum += t * t
	}
	return sum < 1
}
