package storage

import "github.com/jkkdy/april/pkg/particle"

// SoA stores each particle field in its own parallel slice. This is the
// layout that lets a vectorizing compiler pull, say, every position's X
// component through a tight loop without striding over unrelated fields.
type SoA[U any] struct {
	id          []particle.ID
	typ         []particle.Type
	position    []particle.Vec3
	velocity    []particle.Vec3
	oldPosition []particle.Vec3
	force       []particle.Vec3
	oldForce    []particle.Vec3
	mass        []float64
	state       []particle.State
	userData    []U

	idToIndex []int32
}

func NewSoA[U any]() *SoA[U] { return &SoA[U]{} }

func (s *SoA[U]) Build(particles []particle.Stored[U]) {
	n := len(particles)
	s.id = make([]particle.ID, n)
	s.typ = make([]particle.Type, n)
	s.position = make([]particle.Vec3, n)
	s.velocity = make([]particle.Vec3, n)
	s.oldPosition = make([]particle.Vec3, n)
	s.force = make([]particle.Vec3, n)
	s.oldForce = make([]particle.Vec3, n)
	s.mass = make([]float64, n)
	s.state = make([]particle.State, n)
	s.userData = make([]U, n)

	for i, p := range particles {
		s.id[i] = p.ID
		s.typ[i] = p.Type
		s.position[i] = p.Position
		s.velocity[i] = p.Velocity
		s.oldPosition[i] = p.OldPosition
		s.force[i] = p.Force
		s.oldForce[i] = p.OldForce
		s.mass[i] = p.Mass
		s.state[i] = p.State
		s.userData[i] = p.UserData
	}
	s.rebuildIndex()
}

func (s *SoA[U]) rebuildIndex() {
	maxID := particle.ID(0)
	for _, id := range s.id {
		if id > maxID {
			maxID = id
		}
	}
	s.idToIndex = make([]int32, int(maxID)+1)
	for i := range s.idToIndex {
		s.idToIndex[i] = -1
	}
	for i, id := range s.id {
		s.idToIndex[id] = int32(i)
	}
}

func (s *SoA[U]) Reorder(bins [][]int) {
	n := len(s.id)
	id := make([]particle.ID, n)
	typ := make([]particle.Type, n)
	position := make([]particle.Vec3, n)
	velocity := make([]particle.Vec3, n)
	oldPosition := make([]particle.Vec3, n)
	force := make([]particle.Vec3, n)
	oldForce := make([]particle.Vec3, n)
	mass := make([]float64, n)
	state := make([]particle.State, n)
	userData := make([]U, n)

	cur := 0
	for _, bin := range bins {
		for _, old := range bin {
			id[cur] = s.id[old]
			typ[cur] = s.typ[old]
			position[cur] = s.position[old]
			velocity[cur] = s.velocity[old]
			oldPosition[cur] = s.oldPosition[old]
			force[cur] = s.force[old]
			oldForce[cur] = s.oldForce[old]
			mass[cur] = s.mass[old]
			state[cur] = s.state[old]
			userData[cur] = s.userData[old]
			cur++
		}
	}
	s.id, s.typ, s.position, s.velocity = id, typ, position, velocity
	s.oldPosition, s.force, s.oldForce = oldPosition, force, oldForce
	s.mass, s.state, s.userData = mass, state, userData
	s.rebuildIndex()
}

func (s *SoA[U]) Len() int { return len(s.id) }

func (s *SoA[U]) IDToIndex(id particle.ID) int {
	if int(id) >= len(s.idToIndex) {
		return -1
	}
	return int(s.idToIndex[id])
}

func (s *SoA[U]) MinID() particle.ID {
	if len(s.id) == 0 {
		return 0
	}
	min := s.id[0]
	for _, id := range s.id[1:] {
		if id < min {
			min = id
		}
	}
	return min
}

func (s *SoA[U]) MaxID() particle.ID {
	if len(s.id) == 0 {
		return 0
	}
	max := s.id[0]
	for _, id := range s.id[1:] {
		if id > max {
			max = id
		}
	}
	return max
}

func (s *SoA[U]) At(i int) particle.Accessor[U] { return &soaRef[U]{s: s, i: i} }
func (s *SoA[U]) View(i int) particle.View[U]   { return particle.NewView[U](s.At(i)) }
func (s *SoA[U]) RestrictedAt(i int) particle.RestrictedRef[U] {
	return particle.NewRestrictedRef[U](s.At(i))
}

func (s *SoA[U]) ForEach(f func(i int, a particle.Accessor[U])) {
	for i := range s.id {
		f(i, s.At(i))
	}
}

// soaRef is a proxy Accessor addressing one lane across every field slice.
type soaRef[U any] struct {
	s *SoA[U]
	i int
}

func (r *soaRef[U]) ID() particle.ID     { return r.s.id[r.i] }
func (r *soaRef[U]) Type() particle.Type { return r.s.typ[r.i] }

func (r *soaRef[U]) Position() particle.Vec3     { return r.s.position[r.i] }
func (r *soaRef[U]) SetPosition(v particle.Vec3) { r.s.position[r.i] = v }

func (r *soaRef[U]) Velocity() particle.Vec3     { return r.s.velocity[r.i] }
func (r *soaRef[U]) SetVelocity(v particle.Vec3) { r.s.velocity[r.i] = v }

func (r *soaRef[U]) OldPosition() particle.Vec3     { return r.s.oldPosition[r.i] }
func (r *soaRef[U]) SetOldPosition(v particle.Vec3) { r.s.oldPosition[r.i] = v }

func (r *soaRef[U]) Force() particle.Vec3     { return r.s.force[r.i] }
func (r *soaRef[U]) SetForce(v particle.Vec3) { r.s.force[r.i] = v }
func (r *soaRef[U]) AddForce(v particle.Vec3) { r.s.force[r.i] = r.s.force[r.i].Add(v) }

func (r *soaRef[U]) OldForce() particle.Vec3     { return r.s.oldForce[r.i] }
func (r *soaRef[U]) SetOldForce(v particle.Vec3) { r.s.oldForce[r.i] = v }

func (r *soaRef[U]) Mass() float64     { return r.s.mass[r.i] }
func (r *soaRef[U]) SetMass(m float64) { r.s.mass[r.i] = m }

func (r *soaRef[U]) State() particle.State     { return r.s.state[r.i] }
func (r *soaRef[U]) SetState(v particle.State) { r.s.state[r.i] = v }

func (r *soaRef[U]) UserData() U     { return r.s.userData[r.i] }
func (r *soaRef[U]) SetUserData(u U) { r.s.userData[r.i] = u }
