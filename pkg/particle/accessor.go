package particle

// Accessor is the full mutable projection of a particle. Storage layouts
// produce one per index/lane: AoS hands back a pointer into its record
// slice directly; SoA and AoSoA hand back a small proxy bundling pointers
// into each field's backing array (the unexported soaRef / aosoaRef types
// in pkg/storage). Because Accessor reaches every field it doubles
// as the container's full-mutable `Ref` projection.
//
// Restricting to a narrower mask is done by wrapping an Accessor in View or
// RestrictedRef below rather than by erasing fields at compile time; see
// DESIGN.md for why.
type Accessor[U any] interface {
	ID() ID
	Type() Type

	Position() Vec3
	SetPosition(Vec3)

	Velocity() Vec3
	SetVelocity(Vec3)

	OldPosition() Vec3
	SetOldPosition(Vec3)

	Force() Vec3
	SetForce(Vec3)
	AddForce(Vec3)

	OldForce() Vec3
	SetOldForce(Vec3)

	Mass() float64
	SetMass(float64)

	State() State
	SetState(State)

	UserData() U
	SetUserData(U)
}

// View is the read-only projection handed to force evaluation. It never exposes a mutator, so a force implementation cannot
// accidentally write through it.
type View[U any] struct {
	a Accessor[U]
}

// NewView wraps an Accessor as a read-only View.
func NewView[U any](a Accessor[U]) View[U] { return View[U]{a: a} }

func (v View[U]) ID() ID                 { return v.a.ID() }
func (v View[U]) Type() Type             { return v.a.Type() }
func (v View[U]) Position() Vec3         { return v.a.Position() }
func (v View[U]) Velocity() Vec3         { return v.a.Velocity() }
func (v View[U]) OldPosition() Vec3      { return v.a.OldPosition() }
func (v View[U]) Force() Vec3            { return v.a.Force() }
func (v View[U]) OldForce() Vec3         { return v.a.OldForce() }
func (v View[U]) Mass() float64          { return v.a.Mass() }
func (v View[U]) State() State           { return v.a.State() }
func (v View[U]) UserData() U            { return v.a.UserData() }

// RestrictedRef is the projection handed to the interaction engine's inner
// loop: it can read every field (a force needs position, mass, user data)
// but can only ever mutate Force, via AddForce; it cannot rebind position,
// velocity, type or id.
type RestrictedRef[U any] struct {
	a Accessor[U]
}

// NewRestrictedRef wraps an Accessor as a force-writable projection.
func NewRestrictedRef[U any](a Accessor[U]) RestrictedRef[U] { return RestrictedRef[U]{a: a} }

func (r RestrictedRef[U]) ID() ID            { return r.a.ID() }
func (r RestrictedRef[U]) Type() Type        { return r.a.Type() }
func (r RestrictedRef[U]) Position() Vec3    { return r.a.Position() }
func (r RestrictedRef[U]) Velocity() Vec3    { return r.a.Velocity() }
func (r RestrictedRef[U]) OldPosition() Vec3 { return r.a.OldPosition() }
func (r RestrictedRef[U]) Force() Vec3       { return r.a.Force() }
func (r RestrictedRef[U]) OldForce() Vec3    { return r.a.OldForce() }
func (r RestrictedRef[U]) Mass() float64     { return r.a.Mass() }
func (r RestrictedRef[U]) State() State      { return r.a.State() }
func (r RestrictedRef[U]) UserData() U       { return r.a.UserData() }

// AddForce is the sole mutator: it accumulates into the backing Force
// field, implementing Newton's-third-law reaction writes from the
// interaction engine.
func (r RestrictedRef[U]) AddForce(f Vec3) { r.a.AddForce(f) }
