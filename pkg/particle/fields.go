package particle

// Field is a bit-per-attribute mask over the particle record. Force
// descriptors declare the fields they read through RequiredFields; the
// mask is a declaration only, and no build step checks it.
//
// Go cannot erase struct fields per call site, so Field is a descriptive
// mask rather than a compile-time projection; see DESIGN.md for the
// tradeoff.
type Field uint32

const (
	FieldNone        Field = 0
	FieldPosition    Field = 1 << 0
	FieldVelocity    Field = 1 << 1
	FieldForce       Field = 1 << 2
	FieldOldPosition Field = 1 << 3
	FieldOldForce    Field = 1 << 4
	FieldState       Field = 1 << 5
	FieldMass        Field = 1 << 6
	FieldType        Field = 1 << 7
	FieldID          Field = 1 << 8
	FieldUserData    Field = 1 << 9
	FieldAll         Field = ^Field(0)
)

// Has reports whether the receiver mask contains all bits of f.
func (m Field) Has(f Field) bool { return m&f == f }

// Contains reports whether required is fully covered by available.
func Contains(available, required Field) bool { return available&required == required }
