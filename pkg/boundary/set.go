package boundary

import (
	"github.com/jkkdy/april/pkg/aerr"
	"github.com/jkkdy/april/pkg/mddomain"
	"github.com/jkkdy/april/pkg/particle"
)

// Set holds one condition per face and the derived per-axis container
// flags (periodic_x/y/z) the build step needs.
type Set[U any] struct {
	byFace [6]Condition[U]
}

// NewSet validates and assembles a Set from an explicit per-face mapping.
// Every face must be present; faces flagged CouplesAxis must agree with
// their opposite face on Kind.
func NewSet[U any](faces map[Face]Condition[U]) (*Set[U], error) {
	s := &Set[U]{}
	for _, f := range Faces {
		c, ok := faces[f]
		if !ok {
			return nil, aerr.New(aerr.InvalidConfig, f.String(), "no boundary condition configured for face")
		}
		s.byFace[f] = c
	}

	axisFace := [3][2]Face{
		{XMinus, XPlus},
		{YMinus, YPlus},
		{ZMinus, ZPlus},
	}
	for _, pair := range axisFace {
		a, b := s.byFace[pair[0]], s.byFace[pair[1]]
		if a.Topology().CouplesAxis || b.Topology().CouplesAxis {
			if a.Kind() != b.Kind() {
				return nil, aerr.New(aerr.InvalidConfig, pair[0].String(),
					"axis-coupled boundary %q on %s must match opposite face %s, got %q",
					a.Kind(), pair[0], pair[1], b.Kind())
			}
		}
	}
	return s, nil
}

// At returns the condition configured for a face.
func (s *Set[U]) At(f Face) Condition[U] { return s.byFace[f] }

// Periodic reports, per axis, whether both faces carry ForceWrap.
func (s *Set[U]) Periodic() (x, y, z bool) {
	x = s.byFace[XMinus].Topology().ForceWrap && s.byFace[XPlus].Topology().ForceWrap
	y = s.byFace[YMinus].Topology().ForceWrap && s.byFace[YPlus].Topology().ForceWrap
	z = s.byFace[ZMinus].Topology().ForceWrap && s.byFace[ZPlus].Topology().ForceWrap
	return
}

// Apply runs every face's condition over one particle against the resolved
// domain. Faces are visited in the fixed order of Faces (x-, x+, y-, y+,
// z-, z+); a particle that crossed faces on several axes gets each of
// those corrections in the same call.
func (s *Set[U]) Apply(p *particle.Stored[U], box mddomain.Box) {
	for _, f := range Faces {
		s.byFace[f].Apply(p, f, box)
	}
}
