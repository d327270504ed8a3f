// Package generate builds particle records in regular lattice shapes:
// cuboids and (optionally ellipsoidal) spheres, with an optional
// thermal-velocity callback layered on top of a uniform base velocity.
package generate

import (
	"github.com/jkkdy/april/pkg/aerr"
	"github.com/jkkdy/april/pkg/particle"
)

// ThermalVelocity is called once per generated particle to add a random
// velocity component on top of the generator's uniform base velocity
// (e.g. sampling a Maxwell-Boltzmann distribution at a target temperature).
type ThermalVelocity func() particle.Vec3

// ParticleCuboid builds a particle lattice filling a box: Count.X * Count.Y
// * Count.Z particles spaced Spacing apart, starting at Origin.
type ParticleCuboid[U any] struct {
	origin  particle.Vec3
	vel     particle.Vec3
	count   [3]int
	spacing float64
	mass    float64
	typ     particle.Type
	state   particle.State
	data    U
	thermal ThermalVelocity
}

func (c ParticleCuboid[U]) At(v particle.Vec3) ParticleCuboid[U]       { c.origin = v; return c }
func (c ParticleCuboid[U]) WithVelocity(v particle.Vec3) ParticleCuboid[U] { c.vel = v; return c }
func (c ParticleCuboid[U]) Count(nx, ny, nz int) ParticleCuboid[U] {
	c.count = [3]int{nx, ny, nz}
	return c
}
func (c ParticleCuboid[U]) Spacing(s float64) ParticleCuboid[U] { c.spacing = s; return c }
func (c ParticleCuboid[U]) Mass(m float64) ParticleCuboid[U]    { c.mass = m; return c }
func (c ParticleCuboid[U]) AsType(t particle.Type) ParticleCuboid[U] { c.typ = t; return c }
func (c ParticleCuboid[U]) WithState(s particle.State) ParticleCuboid[U] { c.state = s; return c }
func (c ParticleCuboid[U]) WithData(d U) ParticleCuboid[U]      { c.data = d; return c }
func (c ParticleCuboid[U]) WithThermalVelocity(f ThermalVelocity) ParticleCuboid[U] {
	c.thermal = f
	return c
}

// ToParticles materializes the lattice as a slice of unresolved Records
// (no id assigned; the environment build step allocates those).
func (c ParticleCuboid[U]) ToParticles() ([]particle.Record[U], error) {
	if c.spacing <= 0 {
		return nil, aerr.New(aerr.InvalidConfig, "particle_cuboid", "spacing must be positive, got %g", c.spacing)
	}
	nx, ny, nz := c.count[0], c.count[1], c.count[2]
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, aerr.New(aerr.InvalidConfig, "particle_cuboid", "count must be positive on every axis, got %v", c.count)
	}

	out := make([]particle.Record[U], 0, nx*ny*nz)
	for iz := 0; iz < nz; iz++ {
		for iy := 0; iy < ny; iy++ {
			for ix := 0; ix < nx; ix++ {
				pos := particle.Vec3{
					c.origin[0] + float64(ix)*c.spacing,
					c.origin[1] + float64(iy)*c.spacing,
					c.origin[2] + float64(iz)*c.spacing,
				}
				vel := c.vel
				if c.thermal != nil {
					vel = vel.Add(c.thermal())
				}
				out = append(out, particle.Record[U]{
					Type:     c.typ,
					Position: pos,
					Velocity: vel,
					Mass:     c.mass,
					State:    c.state,
					UserData: c.data,
				})
			}
		}
	}
	return out, nil
}
