// Package monitor implements the engine's read-only observers: a binary
// particle-dump writer, a Prometheus-backed benchmark collector, and a
// bubbletea progress display. They consume a System through SystemView,
// the same narrow-interface pattern the integrate package uses for
// Steppable. SystemView has no stepping or configuration methods, but its
// ForEachParticle hands out full mutable particle.Accessors; the monitors
// in this package only read through them.
package monitor

import (
	"github.com/jkkdy/april/pkg/mddomain"
	"github.com/jkkdy/april/pkg/particle"
)

// SystemView is the surface a monitor is allowed to touch. Particle access
// goes through mutable Accessors, so it does not enforce read-only use. A
// *system.System satisfies it implicitly.
type SystemView[U any] interface {
	Box() mddomain.Box
	Time() float64
	Step() uint64
	Size(filter particle.State) int
	ParticleCount() int
	ForEachParticle(f func(i int, a particle.Accessor[U]))
}

// Monitor is run once per step, after the integrator has finished. Per-step
// monitor failures are logged by the caller and never abort the run. A
// monitor is an opaque collaborator with its own I/O, so its errors stay
// local.
type Monitor[U any] interface {
	OnStep(sys SystemView[U]) error
}
