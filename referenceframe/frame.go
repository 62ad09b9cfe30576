// Package referenceframe defines the joint side of an articulated body: generalized coordinates (dofs), the
// elementary transformations a joint is composed of, and the joint itself, which supplies a local transform and
// its partial derivatives with respect to each dof it owns.
package referenceframe

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"github.com/RomanBuckle/dart/spatialmath"
)

const rigidEpsilon = 1e-6

// Transformation is one elementary factor of a joint's local transform. A joint's local transform is the
// product, in order, of its transformations.
type Transformation interface {
	// Name returns the name of the transformation.
	Name() string

	// Dofs returns the dofs that parametrize this transformation, empty for fixed ones.
	Dofs() []*DOF

	// Transform returns the matrix for the current dof values.
	Transform() mgl64.Mat4

	// Derivative returns the partial derivative of Transform with respect to dof, which must be one of Dofs.
	// The zero matrix is returned for any other dof.
	Derivative(dof *DOF) mgl64.Mat4
}

// a staticTransformation encodes a fixed translation and rotation.
type staticTransformation struct {
	name      string
	transform mgl64.Mat4
}

// NewStaticTransformation creates a transformation that never changes. The matrix must be rigid.
func NewStaticTransformation(name string, transform mgl64.Mat4) (Transformation, error) {
	if !spatialmath.IsRigid(transform, rigidEpsilon) {
		return nil, NewNonRigidTransformError(name)
	}
	return &staticTransformation{name: name, transform: transform}, nil
}

func (st *staticTransformation) Name() string {
	return st.name
}

func (st *staticTransformation) Dofs() []*DOF {
	return nil
}

func (st *staticTransformation) Transform() mgl64.Mat4 {
	return st.transform
}

func (st *staticTransformation) Derivative(*DOF) mgl64.Mat4 {
	return mgl64.Mat4{}
}

// a rotationalTransformation rotates about a fixed axis by the value of its dof.
type rotationalTransformation struct {
	name    string
	rotAxis r3.Vector
	dof     *DOF
}

// NewRotationalTransformation creates a rotation about axis parametrized by dof, in radians.
func NewRotationalTransformation(name string, axis r3.Vector, dof *DOF) (Transformation, error) {
	if dof == nil {
		return nil, ErrNilDOF
	}
	if spatialmath.R3VectorAlmostEqual(r3.Vector{}, axis, 1e-8) {
		return nil, ErrZeroAxis
	}
	return &rotationalTransformation{name: name, rotAxis: axis.Normalize(), dof: dof}, nil
}

func (rt *rotationalTransformation) Name() string {
	return rt.name
}

func (rt *rotationalTransformation) Dofs() []*DOF {
	return []*DOF{rt.dof}
}

func (rt *rotationalTransformation) Transform() mgl64.Mat4 {
	return spatialmath.NewTransformFromAxisAngle(rt.rotAxis, rt.dof.value)
}

func (rt *rotationalTransformation) Derivative(dof *DOF) mgl64.Mat4 {
	if dof != rt.dof {
		return mgl64.Mat4{}
	}
	return spatialmath.AxisAngleDerivative(rt.rotAxis, rt.dof.value)
}

// a translationalTransformation translates along a fixed axis by the value of its dof.
type translationalTransformation struct {
	name      string
	transAxis r3.Vector
	dof       *DOF
}

// NewTranslationalTransformation creates a translation along axis parametrized by dof.
func NewTranslationalTransformation(name string, axis r3.Vector, dof *DOF) (Transformation, error) {
	if dof == nil {
		return nil, ErrNilDOF
	}
	if spatialmath.R3VectorAlmostEqual(r3.Vector{}, axis, 1e-8) {
		return nil, ErrZeroAxis
	}
	return &translationalTransformation{name: name, transAxis: axis.Normalize(), dof: dof}, nil
}

func (tt *translationalTransformation) Name() string {
	return tt.name
}

func (tt *translationalTransformation) Dofs() []*DOF {
	return []*DOF{tt.dof}
}

func (tt *translationalTransformation) Transform() mgl64.Mat4 {
	return spatialmath.NewTransformFromPoint(tt.transAxis.Mul(tt.dof.value))
}

func (tt *translationalTransformation) Derivative(dof *DOF) mgl64.Mat4 {
	if dof != tt.dof {
		return mgl64.Mat4{}
	}
	return spatialmath.TranslationDerivative(tt.transAxis)
}
