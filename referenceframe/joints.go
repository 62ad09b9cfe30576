package referenceframe

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

var (
	xAxis = r3.Vector{X: 1}
	yAxis = r3.Vector{Y: 1}
	zAxis = r3.Vector{Z: 1}
)

// offsetTransformations returns the fixed factor placed in front of a joint's motion, or nothing for identity.
func offsetTransformations(name string, offset mgl64.Mat4) ([]Transformation, error) {
	if offset == mgl64.Ident4() {
		return nil, nil
	}
	st, err := NewStaticTransformation(name+"_offset", offset)
	if err != nil {
		return nil, err
	}
	return []Transformation{st}, nil
}

func expandLimits(limits []Limit, n int) ([]Limit, error) {
	switch len(limits) {
	case 0:
		out := make([]Limit, n)
		for i := range out {
			out[i] = Unlimited
		}
		return out, nil
	case n:
		return limits, nil
	default:
		return nil, NewIncorrectDoFError(len(limits), n)
	}
}

// NewFixedJoint creates a joint with no dofs that holds its child at offset.
func NewFixedJoint(name string, offset mgl64.Mat4) (*Joint, error) {
	st, err := NewStaticTransformation(name+"_offset", offset)
	if err != nil {
		return nil, err
	}
	return NewJoint(name, st)
}

// NewRevoluteJoint creates a one dof joint rotating about axis after the fixed offset. The dof takes the joint's name.
func NewRevoluteJoint(name string, offset mgl64.Mat4, axis r3.Vector, limit Limit) (*Joint, error) {
	tfs, err := offsetTransformations(name, offset)
	if err != nil {
		return nil, err
	}
	rot, err := NewRotationalTransformation(name, axis, NewDOF(name, 0, limit))
	if err != nil {
		return nil, err
	}
	return NewJoint(name, append(tfs, rot)...)
}

// NewPrismaticJoint creates a one dof joint sliding along axis after the fixed offset. The dof takes the joint's name.
func NewPrismaticJoint(name string, offset mgl64.Mat4, axis r3.Vector, limit Limit) (*Joint, error) {
	tfs, err := offsetTransformations(name, offset)
	if err != nil {
		return nil, err
	}
	trans, err := NewTranslationalTransformation(name, axis, NewDOF(name, 0, limit))
	if err != nil {
		return nil, err
	}
	return NewJoint(name, append(tfs, trans)...)
}

// NewBallJoint creates a three dof joint parametrized by XYZ euler angles, named name_rx, name_ry and name_rz.
// Limits are either empty (unlimited) or one per dof.
func NewBallJoint(name string, offset mgl64.Mat4, limits ...Limit) (*Joint, error) {
	tfs, err := offsetTransformations(name, offset)
	if err != nil {
		return nil, err
	}
	rots, err := eulerTransformations(name, limits)
	if err != nil {
		return nil, err
	}
	return NewJoint(name, append(tfs, rots...)...)
}

// NewTranslationalJoint creates a three dof joint translating along x, y and z, named name_tx, name_ty and name_tz.
func NewTranslationalJoint(name string, offset mgl64.Mat4, limits ...Limit) (*Joint, error) {
	tfs, err := offsetTransformations(name, offset)
	if err != nil {
		return nil, err
	}
	trans, err := translationTransformations(name, limits)
	if err != nil {
		return nil, err
	}
	return NewJoint(name, append(tfs, trans...)...)
}

// NewFreeJoint creates a six dof joint: a translation along x, y and z followed by XYZ euler angles.
// Limits are either empty or six long, translations first.
func NewFreeJoint(name string, offset mgl64.Mat4, limits ...Limit) (*Joint, error) {
	lims, err := expandLimits(limits, 6)
	if err != nil {
		return nil, err
	}
	tfs, err := offsetTransformations(name, offset)
	if err != nil {
		return nil, err
	}
	trans, err := translationTransformations(name, lims[:3])
	if err != nil {
		return nil, err
	}
	rots, err := eulerTransformations(name, lims[3:])
	if err != nil {
		return nil, err
	}
	tfs = append(tfs, trans...)
	return NewJoint(name, append(tfs, rots...)...)
}

func eulerTransformations(name string, limits []Limit) ([]Transformation, error) {
	lims, err := expandLimits(limits, 3)
	if err != nil {
		return nil, err
	}
	suffixes := []string{"_rx", "_ry", "_rz"}
	axes := []r3.Vector{xAxis, yAxis, zAxis}
	tfs := make([]Transformation, 0, 3)
	for i, axis := range axes {
		rot, err := NewRotationalTransformation(name+suffixes[i], axis, NewDOF(name+suffixes[i], 0, lims[i]))
		if err != nil {
			return nil, err
		}
		tfs = append(tfs, rot)
	}
	return tfs, nil
}

func translationTransformations(name string, limits []Limit) ([]Transformation, error) {
	lims, err := expandLimits(limits, 3)
	if err != nil {
		return nil, err
	}
	suffixes := []string{"_tx", "_ty", "_tz"}
	axes := []r3.Vector{xAxis, yAxis, zAxis}
	tfs := make([]Transformation, 0, 3)
	for i, axis := range axes {
		trans, err := NewTranslationalTransformation(name+suffixes[i], axis, NewDOF(name+suffixes[i], 0, lims[i]))
		if err != nil {
			return nil, err
		}
		tfs = append(tfs, trans)
	}
	return tfs, nil
}
