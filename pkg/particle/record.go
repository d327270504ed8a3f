package particle

import "github.com/jkkdy/april/pkg/mdvec3"

// Type indexes into the force table's type-pair matrix.
type Type uint16

// ID is the particle's stable, container-reorder-independent identifier.
type ID uint32

// Record is the user-facing particle declaration used when building an
// environment: optional fields default to their zero value, and ID is a
// pointer so a caller can leave id allocation to system.Build (it fills
// the smallest free id). The fluent With* setters mirror the builder style
// of the cuboid/sphere generators in pkg/generate.
type Record[U any] struct {
	ID   *ID
	Type Type

	Position Vec3
	Velocity Vec3

	Mass  float64
	State State

	OldPosition *Vec3
	OldForce    *Vec3
	Force       *Vec3

	UserData U
}

// Vec3 re-exported for readability in this package's public surface.
type Vec3 = mdvec3.Vec3

// WithID pins the particle to an explicit id.
func (p Record[U]) WithID(id ID) Record[U] { p.ID = &id; return p }

// AsType sets the particle's type index.
func (p Record[U]) AsType(t Type) Record[U] { p.Type = t; return p }

// At sets the particle's position.
func (p Record[U]) At(v Vec3) Record[U] { p.Position = v; return p }

// WithVelocity sets the particle's velocity.
func (p Record[U]) WithVelocity(v Vec3) Record[U] { p.Velocity = v; return p }

// WithMass sets the particle's scalar mass.
func (p Record[U]) WithMass(m float64) Record[U] { p.Mass = m; return p }

// WithState sets the particle's lifecycle state.
func (p Record[U]) WithState(s State) Record[U] { p.State = s; return p }

// WithOldPosition seeds the previous-step position, useful when restoring
// from a snapshot.
func (p Record[U]) WithOldPosition(v Vec3) Record[U] { p.OldPosition = &v; return p }

// WithOldForce seeds the previous-step force.
func (p Record[U]) WithOldForce(v Vec3) Record[U] { p.OldForce = &v; return p }

// WithForce seeds the current force.
func (p Record[U]) WithForce(v Vec3) Record[U] { p.Force = &v; return p }

// WithData attaches the user payload.
func (p Record[U]) WithData(u U) Record[U] { p.UserData = u; return p }

// Stored is the container-internal, fully-resolved particle: every field
// has a concrete zero value and ID is no longer optional. Storage layouts
// hold slices/arrays of Stored (AoS) or one stream per field (SoA/AoSoA).
type Stored[U any] struct {
	ID    ID
	Type  Type
	State State

	Position    Vec3
	Velocity    Vec3
	OldPosition Vec3
	Force       Vec3
	OldForce    Vec3

	Mass float64

	UserData U
}

// Resolve turns a user-facing Record into a Stored particle, given the id
// that was allocated for it (either the user's own or an auto-assigned
// one).
func Resolve[U any](r Record[U], id ID) Stored[U] {
	s := Stored[U]{
		ID:       id,
		Type:     r.Type,
		State:    r.State,
		Position: r.Position,
		Velocity: r.Velocity,
		Mass:     r.Mass,
		UserData: r.UserData,
	}
	if s.State == 0 {
		s.State = Alive
	}
	if r.OldPosition != nil {
		s.OldPosition = *r.OldPosition
	} else {
		s.OldPosition = r.Position
	}
	if r.OldForce != nil {
		s.OldForce = *r.OldForce
	}
	if r.Force != nil {
		s.Force = *r.Force
	}
	return s
}
