// Package system builds and drives a complete simulation: it wires a
// particle environment, a force table, a boundary set and a container
// together into a System that the integrators and monitors drive one step
// at a time.
package system

import (
	"github.com/jkkdy/april/pkg/boundary"
	"github.com/jkkdy/april/pkg/force"
	"github.com/jkkdy/april/pkg/mddomain"
	"github.com/jkkdy/april/pkg/particle"
)

// Environment describes everything a build needs to know about the
// particles, forces and boundaries before any container or layout choice
// is made.
type Environment[U any] struct {
	Particles []particle.Record[U]

	TypeForces []force.TypeInteraction[U]
	IDForces   []force.IDInteraction[U]

	Boundaries map[boundary.Face]boundary.Condition[U]

	// Domain is the explicit simulation box; nil lets it be derived from
	// the particle bounding box plus Margin.
	Domain *mddomain.Box
	Margin mddomain.Margin
}

// resolveParticles assigns ids to every record (respecting user-pinned
// ones, filling the smallest free id for the rest) and resolves each into a
// Stored particle.
func resolveParticles[U any](records []particle.Record[U]) ([]particle.Stored[U], error) {
	taken := make(map[particle.ID]bool)
	for _, r := range records {
		if r.ID != nil {
			taken[*r.ID] = true
		}
	}

	next := particle.ID(0)
	nextFree := func() particle.ID {
		for taken[next] {
			next++
		}
		id := next
		taken[id] = true
		next++
		return id
	}

	out := make([]particle.Stored[U], len(records))
	for i, r := range records {
		var id particle.ID
		if r.ID != nil {
			id = *r.ID
		} else {
			id = nextFree()
		}
		out[i] = particle.Resolve(r, id)
	}
	return out, nil
}
