package particle

// State is an 8-bit bitset over the particle lifecycle states.
type State uint8

const (
	Alive      State = 1 << 0
	Dead       State = 1 << 1
	Passive    State = 1 << 2
	Stationary State = 1 << 3

	// Exerting selects particles that contribute forces to others: alive
	// ones, plus stationary anchors (which push but never move).
	Exerting = Alive | Stationary
	// Movable selects particles the integrator should advance: alive ones,
	// plus passive tracers that move under forces without exerting any.
	Movable = Alive | Passive

	// All matches every state; used as the default for_each_particle filter.
	All State = Alive | Dead | Passive | Stationary
)

// Has reports whether s shares at least one bit with filter, so a union
// filter such as Movable matches a particle in any of its states.
func (s State) Has(filter State) bool { return s&filter != 0 }
