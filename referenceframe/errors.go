package referenceframe

import (
	"github.com/pkg/errors"
)

// ErrZeroAxis is returned when a moving transformation is given a zero-length axis.
var ErrZeroAxis = errors.New("cannot use zero vector as a transformation axis")

// ErrNilDOF is returned when a moving transformation is given no dof.
var ErrNilDOF = errors.New("moving transformation needs a dof")

// ErrEmptyJoint is returned when a joint is built without any transformations.
var ErrEmptyJoint = errors.New("joint needs at least one transformation")

// NewIncorrectDoFError is returned when a joint is given the wrong number of positions.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Errorf("number of dof in input %d is not equal to expected %d", actual, expected)
}

// NewDOFNotOwnedError is returned when a derivative is requested for a dof the joint does not own.
func NewDOFNotOwnedError(dof, joint string) error {
	return errors.Errorf("dof %q is not owned by joint %q", dof, joint)
}

// NewDuplicateDOFError is returned when the same dof would be owned twice.
func NewDuplicateDOFError(dof string) error {
	return errors.Errorf("dof %q is already owned by a joint", dof)
}

// NewNonRigidTransformError is returned when a static transformation is not a proper rigid transform.
func NewNonRigidTransformError(name string) error {
	return errors.Errorf("static transformation %q is not a rigid transform", name)
}
