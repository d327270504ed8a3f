// Package mdvec3 provides the 3-D vector value type shared by every
// spatial-interaction component, plus space-filling-curve key helpers used
// by LinkedCells to permute cell visitation order.
package mdvec3

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a thin alias over mgl64.Vec3 so the rest of the module can stay
// free of the mathgl import while still getting its matrix/quaternion
// interop for free where it is needed (e.g. rigid boundary frames).
type Vec3 = mgl64.Vec3

// New builds a Vec3 from components.
func New(x, y, z float64) Vec3 { return Vec3{x, y, z} }

// Zero is the additive identity.
var Zero = Vec3{0, 0, 0}

// NormSq returns the squared Euclidean norm; preferred over Norm for cutoff
// comparisons since it avoids a sqrt.
func NormSq(v Vec3) float64 { return v.Dot(v) }

// Norm returns the Euclidean norm.
func Norm(v Vec3) float64 { return math.Sqrt(NormSq(v)) }

// InvNorm returns 1/|v|, used on the hot path instead of dividing twice.
func InvNorm(v Vec3) float64 { return 1.0 / Norm(v) }

// Min returns the component-wise minimum of a and b.
func Min(a, b Vec3) Vec3 {
	return Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])}
}

// Max returns the component-wise maximum of a and b.
func Max(a, b Vec3) Vec3 {
	return Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])}
}

// UVec3 is an unsigned triple used for cell/axis counts and SFC coordinates.
type UVec3 struct {
	X, Y, Z uint32
}

// IVec3 is a signed triple used for cell offsets that may wrap negative.
type IVec3 struct {
	X, Y, Z int32
}

func (v IVec3) Add(o IVec3) IVec3 { return IVec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
