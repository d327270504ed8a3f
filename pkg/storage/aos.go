// Package storage implements the three particle storage layouts the
// container core can be built over: array-of-structs (AoS), struct-of-arrays
// (SoA) and array-of-struct-of-arrays with a fixed chunk width (AoSoA). All
// three expose the same build/reorder/iterate contract so a container
// algorithm (DirectSum, LinkedCells) is written once and works unmodified
// against any layout.
package storage

import (
	"github.com/jkkdy/april/pkg/particle"
)

// Layout is the contract every storage implementation satisfies. Index i
// always refers to the particle's current physical slot, which changes
// across a Reorder call; callers needing stability across reorders must go
// through IDToIndex.
type Layout[U any] interface {
	Build(particles []particle.Stored[U])
	Reorder(bins [][]int)

	Len() int
	IDToIndex(id particle.ID) int
	MinID() particle.ID
	MaxID() particle.ID

	At(i int) particle.Accessor[U]
	View(i int) particle.View[U]
	RestrictedAt(i int) particle.RestrictedRef[U]

	ForEach(f func(i int, a particle.Accessor[U]))
}

// AoS stores particles contiguously as one slice of fully-resolved records.
// At returns a pointer directly into that slice, so Accessor calls are
// simple field reads/writes with no indirection beyond the pointer itself.
type AoS[U any] struct {
	particles []particle.Stored[U]
	tmp       []particle.Stored[U]
	idToIndex []int32
}

func NewAoS[U any]() *AoS[U] { return &AoS[U]{} }

func (s *AoS[U]) Build(particles []particle.Stored[U]) {
	s.particles = append([]particle.Stored[U](nil), particles...)
	s.tmp = make([]particle.Stored[U], len(particles))
	s.rebuildIndex()
}

func (s *AoS[U]) rebuildIndex() {
	maxID := particle.ID(0)
	for _, p := range s.particles {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	s.idToIndex = make([]int32, int(maxID)+1)
	for i := range s.idToIndex {
		s.idToIndex[i] = -1
	}
	for i, p := range s.particles {
		s.idToIndex[p.ID] = int32(i)
	}
}

// Reorder scatters particles into the given bins (each a list of current
// physical indices), overwriting physical order with bin order. Used by the
// container to bucket-sort particles by cell and/or type between rebuilds.
func (s *AoS[U]) Reorder(bins [][]int) {
	cur := 0
	for _, bin := range bins {
		for _, oldIdx := range bin {
			s.tmp[cur] = s.particles[oldIdx]
			cur++
		}
	}
	s.particles, s.tmp = s.tmp, s.particles
	s.rebuildIndex()
}

func (s *AoS[U]) Len() int { return len(s.particles) }

func (s *AoS[U]) IDToIndex(id particle.ID) int {
	if int(id) >= len(s.idToIndex) {
		return -1
	}
	return int(s.idToIndex[id])
}

func (s *AoS[U]) MinID() particle.ID {
	if len(s.particles) == 0 {
		return 0
	}
	min := s.particles[0].ID
	for _, p := range s.particles[1:] {
		if p.ID < min {
			min = p.ID
		}
	}
	return min
}

func (s *AoS[U]) MaxID() particle.ID {
	if len(s.particles) == 0 {
		return 0
	}
	max := s.particles[0].ID
	for _, p := range s.particles[1:] {
		if p.ID > max {
			max = p.ID
		}
	}
	return max
}

func (s *AoS[U]) At(i int) particle.Accessor[U] { return &aosRef[U]{p: &s.particles[i]} }

func (s *AoS[U]) View(i int) particle.View[U] { return particle.NewView[U](s.At(i)) }

func (s *AoS[U]) RestrictedAt(i int) particle.RestrictedRef[U] {
	return particle.NewRestrictedRef[U](s.At(i))
}

func (s *AoS[U]) ForEach(f func(i int, a particle.Accessor[U])) {
	for i := range s.particles {
		f(i, s.At(i))
	}
}

// aosRef is a thin pointer-based Accessor into one AoS slot.
type aosRef[U any] struct {
	p *particle.Stored[U]
}

func (r *aosRef[U]) ID() particle.ID     { return r.p.ID }
func (r *aosRef[U]) Type() particle.Type { return r.p.Type }

func (r *aosRef[U]) Position() particle.Vec3    { return r.p.Position }
func (r *aosRef[U]) SetPosition(v particle.Vec3) { r.p.Position = v }

func (r *aosRef[U]) Velocity() particle.Vec3    { return r.p.Velocity }
func (r *aosRef[U]) SetVelocity(v particle.Vec3) { r.p.Velocity = v }

func (r *aosRef[U]) OldPosition() particle.Vec3    { return r.p.OldPosition }
func (r *aosRef[U]) SetOldPosition(v particle.Vec3) { r.p.OldPosition = v }

func (r *aosRef[U]) Force() particle.Vec3     { return r.p.Force }
func (r *aosRef[U]) SetForce(v particle.Vec3) { r.p.Force = v }
func (r *aosRef[U]) AddForce(v particle.Vec3) { r.p.Force = r.p.Force.Add(v) }

func (r *aosRef[U]) OldForce() particle.Vec3     { return r.p.OldForce }
func (r *aosRef[U]) SetOldForce(v particle.Vec3) { r.p.OldForce = v }

func (r *aosRef[U]) Mass() float64     { return r.p.Mass }
func (r *aosRef[U]) SetMass(m float64) { r.p.Mass = m }

func (r *aosRef[U]) State() particle.State     { return r.p.State }
func (r *aosRef[U]) SetState(s particle.State) { r.p.State = s }

func (r *aosRef[U]) UserData() U     { return r.p.UserData }
func (r *aosRef[U]) SetUserData(u U) { r.p.UserData = u }
