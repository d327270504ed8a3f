package force

import (
	"fmt"

	"github.com/jkkdy/april/pkg/mdvec3"
	"github.com/jkkdy/april/pkg/particle"
)

// NoForce is the internal sentinel variant meaning "no force acts on this
// pair". It is what Table.Lookup returns when neither an id-pair nor a
// type-pair entry exists; evaluating it is a zero-cost no-op, not an
// error.
type NoForce[U any] struct{}

func (NoForce[U]) Cutoff() float64                    { return 0 }
func (NoForce[U]) Cutoff2() float64                   { return 0 }
func (NoForce[U]) RequiredFields() particle.Field     { return particle.FieldNone }
func (NoForce[U]) Kind() string                       { return "no_force" }

func (NoForce[U]) Eval(_, _ particle.View[U], _ mdvec3.Vec3) mdvec3.Vec3 {
	return mdvec3.Zero
}

func (n NoForce[U]) Mix(other Force[U]) (Force[U], error) {
	if _, ok := other.(NoForce[U]); !ok {
		return nil, fmt.Errorf("force: cannot mix no_force with %s", other.Kind())
	}
	return NoForce[U]{}, nil
}
