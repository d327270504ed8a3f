package system

import (
	"math"

	"github.com/jkkdy/april/pkg/aerr"
	"github.com/jkkdy/april/pkg/boundary"
	"github.com/jkkdy/april/pkg/container"
	"github.com/jkkdy/april/pkg/force"
	"github.com/jkkdy/april/pkg/mddomain"
	"github.com/jkkdy/april/pkg/particle"
	"github.com/jkkdy/april/pkg/storage"
)

// Build validates env against config and constructs a System ready to step.
// Construction-time misuse (unknown type, negative mass, missing
// self-interaction, bad mix, domain too small) fails atomically with a
// typed error; no partial System is ever returned.
func Build[U any](env Environment[U], cfg Config) (*System[U], error) {
	stored, err := resolveParticles(env.Particles)
	if err != nil {
		return nil, err
	}

	presentTypes := make(map[particle.Type]bool)
	for _, p := range stored {
		if p.Mass <= 0 {
			return nil, aerr.New(aerr.InvalidConfig, "particle", "particle %d has non-positive mass %g", p.ID, p.Mass)
		}
		presentTypes[p.Type] = true
	}

	nTypes := 0
	for t := range presentTypes {
		if int(t)+1 > nTypes {
			nTypes = int(t) + 1
		}
	}

	table, err := force.Build[U](nTypes, presentTypes, env.TypeForces, env.IDForces)
	if err != nil {
		return nil, err
	}

	boundaries := env.Boundaries
	if boundaries == nil {
		boundaries = map[boundary.Face]boundary.Condition[U]{}
	}
	for _, f := range boundary.Faces {
		if _, ok := boundaries[f]; !ok {
			boundaries[f] = boundary.Outflow[U]{}
		}
	}
	bset, err := boundary.NewSet(boundaries)
	if err != nil {
		return nil, err
	}

	positions := make([]mddomain.Vec3, len(stored))
	for i, p := range stored {
		positions[i] = p.Position
	}
	box, err := mddomain.Resolve(env.Domain, env.Margin, positions, env.Domain != nil)
	if err != nil {
		return nil, err
	}

	px, py, pz := bset.Periodic()
	flags := container.Flags{
		PeriodicX:          px,
		PeriodicY:          py,
		PeriodicZ:          pz,
		InfiniteDomain:     env.Domain == nil && len(stored) == 0,
		ParticleAddable:    true,
		ParticleDeletable:  true,
	}

	layout := newLayout[U](cfg)

	var cont container.Container[U]
	switch cfg.Container {
	case LinkedCellsContainer:
		maxCutoff := table.MaxCutoff()
		if math.IsInf(maxCutoff, 1) {
			return nil, aerr.New(aerr.Unsupported, "linked_cells", "LinkedCells requires every active force to carry a finite cutoff")
		}
		cont = container.NewLinkedCells[U](layout, flags, cfg.CellSizePolicy, cfg.CellOrder, maxCutoff, cfg.Block)
	default:
		cont = container.NewDirectSum[U](layout, flags)
	}

	if err := cont.Build(stored, box); err != nil {
		return nil, err
	}

	return &System[U]{
		container: cont,
		table:     table,
		boundary:  bset,
		box:       box,
	}, nil
}

func newLayout[U any](cfg Config) storage.Layout[U] {
	switch cfg.Layout {
	case SoA:
		return storage.NewSoA[U]()
	case AoSoA:
		w := cfg.ChunkWidth
		if w <= 0 {
			w = 8
		}
		return storage.NewAoSoA[U](w)
	default:
		return storage.NewAoS[U]()
	}
}
