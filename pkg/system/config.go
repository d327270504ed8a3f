package system

import (
	"github.com/jkkdy/april/pkg/container"
	"github.com/jkkdy/april/pkg/mdvec3"
)

// LayoutKind selects a particle storage layout.
type LayoutKind int

const (
	AoS LayoutKind = iota
	SoA
	AoSoA
)

// ContainerKind selects the neighbor-search structure.
type ContainerKind int

const (
	DirectSumContainer ContainerKind = iota
	LinkedCellsContainer
)

// Config carries every build-time choice that does not change the
// semantics of a run, only its performance characteristics: storage
// layout, container algorithm, cell-size policy, cell visitation order and
// the LinkedCells block-tiling size.
type Config struct {
	Layout     LayoutKind
	ChunkWidth int // AoSoA only; must be a power of two, default 8

	Container      ContainerKind
	CellSizePolicy container.CellSizePolicy // LinkedCells only
	CellOrder      mdvec3.CellOrdering      // LinkedCells only; nil = lexicographic
	Block          [3]int                   // LinkedCells only; {0,0,0} = default 2x2x2
}

// DefaultConfig is DirectSum over AoS: the simplest, always-correct
// combination, suitable for small systems and as a cross-check oracle for
// LinkedCells.
func DefaultConfig() Config {
	return Config{
		Layout:         AoS,
		Container:      DirectSumContainer,
		CellSizePolicy: container.ExactCutoff(),
	}
}
