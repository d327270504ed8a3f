package storage

import "github.com/jkkdy/april/pkg/particle"

// chunk is one fixed-width bundle of field arrays. Width is shared across
// every chunk in a layout (see AoSoA.width), and must be a power of two so
// (chunk, lane) = (i>>shift, i&mask) addressing stays branch-free.
type chunk[U any] struct {
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
}

func newChunk[U any](width int) *chunk[U] {
	return &chunk[U]{
		id:          make([]particle.ID, width),
		typ:         make([]particle.Type, width),
		position:    make([]particle.Vec3, width),
		velocity:    make([]particle.Vec3, width),
		oldPosition: make([]particle.Vec3, width),
		force:       make([]particle.Vec3, width),
		oldForce:    make([]particle.Vec3, width),
		mass:        make([]float64, width),
		state:       make([]particle.State, width),
		userData:    make([]U, width),
	}
}

// AoSoA stores particles as a sequence of fixed-width SoA chunks (array of
// struct of arrays). Width must be a power of two; the last chunk may be a
// partial tail, with count - (len(chunks)-1)*width valid lanes.
type AoSoA[U any] struct {
	width     int
	shift     uint
	mask      int
	chunks    []*chunk[U]
	count     int
	idToIndex []int32
}

// NewAoSoA builds an AoSoA layout with the given chunk width (must be a
// power of two, e.g. 4/8/16 to match a SIMD lane count).
func NewAoSoA[U any](width int) *AoSoA[U] {
	shift := uint(0)
	for (1 << shift) < width {
		shift++
	}
	return &AoSoA[U]{width: width, shift: shift, mask: width - 1}
}

func (s *AoSoA[U]) Build(particles []particle.Stored[U]) {
	s.count = len(particles)
	nChunks := (s.count + s.width - 1) / s.width
	s.chunks = make([]*chunk[U], nChunks)
	for c := range s.chunks {
		s.chunks[c] = newChunk[U](s.width)
	}

	for i, p := range particles {
		c, lane := s.addr(i)
		ch := s.chunks[c]
		ch.id[lane] = p.ID
		ch.typ[lane] = p.Type
		ch.position[lane] = p.Position
		ch.velocity[lane] = p.Velocity
		ch.oldPosition[lane] = p.OldPosition
		ch.force[lane] = p.Force
		ch.oldForce[lane] = p.OldForce
		ch.mass[lane] = p.Mass
		ch.state[lane] = p.State
		ch.userData[lane] = p.UserData
	}
	s.rebuildIndex()
}

func (s *AoSoA[U]) addr(i int) (int, int) {
	return i >> s.shift, i & s.mask
}

func (s *AoSoA[U]) rebuildIndex() {
	maxID := particle.ID(0)
	for i := 0; i < s.count; i++ {
		c, l := s.addr(i)
		if id := s.chunks[c].id[l]; id > maxID {
			maxID = id
		}
	}
	s.idToIndex = make([]int32, int(maxID)+1)
	for i := range s.idToIndex {
		s.idToIndex[i] = -1
	}
	for i := 0; i < s.count; i++ {
		c, l := s.addr(i)
		s.idToIndex[s.chunks[c].id[l]] = int32(i)
	}
}

// Reorder scatters particles into bins of current physical indices,
// rewriting chunk contents in bin order. Chunk boundaries do not need to
// align with bin boundaries: a bin may span the tail of one chunk and the
// head of the next.
func (s *AoSoA[U]) Reorder(bins [][]int) {
	newChunks := make([]*chunk[U], len(s.chunks))
	for c := range newChunks {
		newChunks[c] = newChunk[U](s.width)
	}
	cur := 0
	for _, bin := range bins {
		for _, old := range bin {
			oc, ol := s.addr(old)
			nc, nl := s.addr(cur)
			src := s.chunks[oc]
			dst := newChunks[nc]
			dst.id[nl] = src.id[ol]
			dst.typ[nl] = src.typ[ol]
			dst.position[nl] = src.position[ol]
			dst.velocity[nl] = src.velocity[ol]
			dst.oldPosition[nl] = src.oldPosition[ol]
			dst.force[nl] = src.force[ol]
			dst.oldForce[nl] = src.oldForce[ol]
			dst.mass[nl] = src.mass[ol]
			dst.state[nl] = src.state[ol]
			dst.userData[nl] = src.userData[ol]
			cur++
		}
	}
	s.chunks = newChunks
	s.rebuildIndex()
}

func (s *AoSoA[U]) Len() int { return s.count }

func (s *AoSoA[U]) IDToIndex(id particle.ID) int {
	if int(id) >= len(s.idToIndex) {
		return -1
	}
	return int(s.idToIndex[id])
}

func (s *AoSoA[U]) MinID() particle.ID {
	min := particle.ID(0)
	first := true
	for i := 0; i < s.count; i++ {
		c, l := s.addr(i)
		id := s.chunks[c].id[l]
		if first || id < min {
			min = id
			first = false
		}
	}
	return min
}

func (s *AoSoA[U]) MaxID() particle.ID {
	var max particle.ID
	for i := 0; i < s.count; i++ {
		c, l := s.addr(i)
		id := s.chunks[c].id[l]
		if id > max {
			max = id
		}
	}
	return max
}

func (s *AoSoA[U]) At(i int) particle.Accessor[U] {
	c, l := s.addr(i)
	return &aosoaRef[U]{ch: s.chunks[c], lane: l}
}
func (s *AoSoA[U]) View(i int) particle.View[U] { return particle.NewView[U](s.At(i)) }
func (s *AoSoA[U]) RestrictedAt(i int) particle.RestrictedRef[U] {
	return particle.NewRestrictedRef[U](s.At(i))
}

func (s *AoSoA[U]) ForEach(f func(i int, a particle.Accessor[U])) {
	for i := 0; i < s.count; i++ {
		f(i, s.At(i))
	}
}

// aosoaRef is a proxy Accessor addressing one lane within one chunk.
type aosoaRef[U any] struct {
	ch   *chunk[U]
	lane int
}

func (r *aosoaRef[U]) ID() particle.ID     { return r.ch.id[r.lane] }
func (r *aosoaRef[U]) Type() particle.Type { return r.ch.typ[r.lane] }

func (r *aosoaRef[U]) Position() particle.Vec3     { return r.ch.position[r.lane] }
func (r *aosoaRef[U]) SetPosition(v particle.Vec3) { r.ch.position[r.lane] = v }

func (r *aosoaRef[U]) Velocity() particle.Vec3     { return r.ch.velocity[r.lane] }
func (r *aosoaRef[U]) SetVelocity(v particle.Vec3) { r.ch.velocity[r.lane] = v }

func (r *aosoaRef[U]) OldPosition() particle.Vec3     { return r.ch.oldPosition[r.lane] }
func (r *aosoaRef[U]) SetOldPosition(v particle.Vec3) { r.ch.oldPosition[r.lane] = v }

func (r *aosoaRef[U]) Force() particle.Vec3     { return r.ch.force[r.lane] }
func (r *aosoaRef[U]) SetForce(v particle.Vec3) { r.ch.force[r.lane] = v }
func (r *aosoaRef[U]) AddForce(v particle.Vec3) { r.ch.force[r.lane] = r.ch.force[r.lane].Add(v) }

func (r *aosoaRef[U]) OldForce() particle.Vec3     { return r.ch.oldForce[r.lane] }
func (r *aosoaRef[U]) SetOldForce(v particle.Vec3) { r.ch.oldForce[r.lane] = v }

func (r *aosoaRef[U]) Mass() float64     { return r.ch.mass[r.lane] }
func (r *aosoaRef[U]) SetMass(m float64) { r.ch.mass[r.lane] = m }

func (r *aosoaRef[U]) State() particle.State     { return r.ch.state[r.lane] }
func (r *aosoaRef[U]) SetState(v particle.State) { r.ch.state[r.lane] = v }

func (r *aosoaRef[U]) UserData() U     { return r.ch.userData[r.lane] }
func (r *aosoaRef[U]) SetUserData(u U) { r.ch.userData[r.lane] = u }
