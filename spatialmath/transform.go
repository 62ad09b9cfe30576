// Package spatialmath defines spatial mathematical operations on homogeneous rigid transforms.
//
// Transforms are 4x4 homogeneous matrices (mgl64.Mat4, column-major) mapping points expressed in a
// child frame into its parent frame. Points and axes cross package boundaries as r3.Vector.
package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"github.com/RomanBuckle/dart/utils"
)

// NewTransformFromPoint returns a pure translation by the given point.
func NewTransformFromPoint(pt r3.Vector) mgl64.Mat4 {
	return mgl64.Translate3D(pt.X, pt.Y, pt.Z)
}

// NewTransformFromRPY returns the rotation Rz(yaw) * Ry(pitch) * Rx(roll), angles in radians.
func NewTransformFromRPY(roll, pitch, yaw float64) mgl64.Mat4 {
	return mgl64.HomogRotate3DZ(yaw).Mul4(mgl64.HomogRotate3DY(pitch).Mul4(mgl64.HomogRotate3DX(roll)))
}

// NewTransformFromAxisAngle returns the rotation of theta radians about axis. The axis need not be
// normalized but must be non-zero.
func NewTransformFromAxisAngle(axis r3.Vector, theta float64) mgl64.Mat4 {
	return mgl64.HomogRotate3D(theta, R3ToVec3(axis.Normalize()))
}

// AxisAngleDerivative returns d/dtheta of NewTransformFromAxisAngle(axis, theta). With K the skew matrix
// of the unit axis this is K * R(theta), embedded with a zero translation column and a zero bottom row.
func AxisAngleDerivative(axis r3.Vector, theta float64) mgl64.Mat4 {
	k := Skew(axis.Normalize())
	r := NewTransformFromAxisAngle(axis, theta).Mat3()
	return embedRotationBlock(k.Mul3(r))
}

// TranslationDerivative returns d/dq of NewTransformFromPoint(axis * q) for a unit axis.
func TranslationDerivative(axis r3.Vector) mgl64.Mat4 {
	u := axis.Normalize()
	var m mgl64.Mat4
	m.SetCol(3, mgl64.Vec4{u.X, u.Y, u.Z, 0})
	return m
}

func embedRotationBlock(r mgl64.Mat3) mgl64.Mat4 {
	var m mgl64.Mat4
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			m.Set(row, col, r.At(row, col))
		}
	}
	return m
}

// RotationBlock returns the upper-left 3x3 block of a homogeneous matrix.
func RotationBlock(m mgl64.Mat4) mgl64.Mat3 {
	return m.Mat3()
}

// TranslationPart returns the translation column of a homogeneous matrix.
func TranslationPart(m mgl64.Mat4) r3.Vector {
	return Vec3ToR3(m.Col(3).Vec3())
}

// TransformPoint applies m to the homogeneous point (pt, 1).
func TransformPoint(m mgl64.Mat4, pt r3.Vector) r3.Vector {
	return Vec3ToR3(m.Mul4x1(R3ToVec3(pt).Vec4(1)).Vec3())
}

// Skew returns the cross-product matrix of v, so that Skew(v) * w == v x w.
func Skew(v r3.Vector) mgl64.Mat3 {
	return mgl64.Mat3FromRows(
		mgl64.Vec3{0, -v.Z, v.Y},
		mgl64.Vec3{v.Z, 0, -v.X},
		mgl64.Vec3{-v.Y, v.X, 0},
	)
}

// Vee extracts the vector of a skew-symmetric matrix; the inverse of Skew. Only the lower entries
// below the diagonal are read, matching S(2,1), S(0,2), S(1,0).
func Vee(s mgl64.Mat3) r3.Vector {
	return r3.Vector{X: s.At(2, 1), Y: s.At(0, 2), Z: s.At(1, 0)}
}

// ConjugateInertia expresses a body-frame inertia tensor in the frame reached by rotation r: r * i * rᵀ.
func ConjugateInertia(r, i mgl64.Mat3) mgl64.Mat3 {
	return r.Mul3(i).Mul3(r.Transpose())
}

// IsRigid returns whether m is a proper rigid transform (orthonormal rotation with determinant one and a
// [0 0 0 1] bottom row) within epsilon.
func IsRigid(m mgl64.Mat4, epsilon float64) bool {
	within := func(a, b float64) bool { return utils.Float64AlmostEqual(a, b, epsilon) }
	if !(mgl64.Vec4{0, 0, 0, 1}).ApproxFuncEqual(m.Row(3), within) {
		return false
	}
	r := m.Mat3()
	if !r.Mul3(r.Transpose()).ApproxFuncEqual(mgl64.Ident3(), within) {
		return false
	}
	return within(r.Det(), 1)
}

// Mat4AlmostEqual compares two homogeneous matrices element-wise.
func Mat4AlmostEqual(a, b mgl64.Mat4, epsilon float64) bool {
	for i := range a {
		if !utils.Float64AlmostEqual(a[i], b[i], epsilon) {
			return false
		}
	}
	return true
}

// Mat4IsZero reports whether every element of m is exactly zero.
func Mat4IsZero(m mgl64.Mat4) bool {
	return m == mgl64.Mat4{}
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon && math.Abs(a.Z-b.Z) < epsilon
}

// R3ToVec3 converts an r3.Vector into an mgl64.Vec3.
func R3ToVec3(v r3.Vector) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// Vec3ToR3 converts an mgl64.Vec3 into an r3.Vector.
func Vec3ToR3(v mgl64.Vec3) r3.Vector {
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}
