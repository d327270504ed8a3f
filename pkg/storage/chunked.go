package storage

import "github.com/jkkdy/april/pkg/particle"

// Lanes exposes one chunk's backing arrays directly. The interaction
// engine's chunked inner loops read positions and write forces through
// these slices instead of going lane-by-lane through proxy accessors, so
// the compiler sees contiguous same-field streams it can keep in registers.
type Lanes[U any] struct {
	ID       []particle.ID
	Type     []particle.Type
	State    []particle.State
	Position []particle.Vec3
	Force    []particle.Vec3
}

// Chunked is satisfied by layouts that store particles in fixed-width
// chunks (AoSoA). Engines that detect it switch from the scalar pair loop
// to the chunk-tiled one.
type Chunked[U any] interface {
	ChunkWidth() int
	ChunkLanes(chunk int) Lanes[U]
}

// ChunkWidth returns the fixed lane count per chunk.
func (s *AoSoA[U]) ChunkWidth() int { return s.width }

// ChunkLanes returns the backing arrays of one chunk.
func (s *AoSoA[U]) ChunkLanes(c int) Lanes[U] {
	ch := s.chunks[c]
	return Lanes[U]{
		ID:       ch.id,
		Type:     ch.typ,
		State:    ch.state,
		Position: ch.position,
		Force:    ch.force,
	}
}
