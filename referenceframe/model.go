package referenceframe

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/multierr"
)

// WorldIndex is the node index a joint reports when it attaches to the world rather than to a body.
const WorldIndex = -1

// World is the name of the frame root joints attach to.
const World = "world"

// Joint connects a parent body to a child body. Its local transform, from the child's frame into the parent's,
// is the ordered product of its transformations; every dof of those transformations is owned by the joint.
//
// Parent and child are recorded as node indices into the owning skeleton, never as pointers, so a joint holds
// no ownership over either body.
type Joint struct {
	name string
	// ordTransforms is the list of transformations ordered from the parent side to the child side
	ordTransforms []Transformation
	dofs          []*DOF
	parentIndex   int
	childIndex    int
}

// NewJoint builds a joint from its transformations and takes ownership of their dofs.
func NewJoint(name string, transforms ...Transformation) (*Joint, error) {
	if len(transforms) == 0 {
		return nil, ErrEmptyJoint
	}
	j := &Joint{
		name:          name,
		ordTransforms: transforms,
		parentIndex:   WorldIndex,
		childIndex:    WorldIndex,
	}
	var err error
	seen := map[*DOF]bool{}
	for _, tf := range transforms {
		for _, dof := range tf.Dofs() {
			if seen[dof] || dof.joint != nil {
				multierr.AppendInto(&err, NewDuplicateDOFError(dof.name))
				continue
			}
			seen[dof] = true
			j.dofs = append(j.dofs, dof)
		}
	}
	if err != nil {
		return nil, err
	}
	for _, dof := range j.dofs {
		dof.joint = j
	}
	return j, nil
}

// Name returns the name of the joint.
func (j *Joint) Name() string {
	return j.name
}

// NumDofs returns the number of dofs owned by the joint.
func (j *Joint) NumDofs() int {
	return len(j.dofs)
}

// Dof returns the idx-th dof of the joint. idx must be below NumDofs.
func (j *Joint) Dof(idx int) *DOF {
	return j.dofs[idx]
}

// Dofs returns the dofs of the joint in transformation order.
func (j *Joint) Dofs() []*DOF {
	return j.dofs
}

// Transformations returns the ordered transformations of the joint.
func (j *Joint) Transformations() []Transformation {
	return j.ordTransforms
}

// Owns returns whether dof belongs to this joint.
func (j *Joint) Owns(dof *DOF) bool {
	return dof != nil && dof.joint == j
}

// ParentIndex returns the skeleton index of the parent body, WorldIndex for a root joint.
func (j *Joint) ParentIndex() int {
	return j.parentIndex
}

// SetParentIndex is used by the owning skeleton to attach the joint.
func (j *Joint) SetParentIndex(idx int) {
	j.parentIndex = idx
}

// ChildIndex returns the skeleton index of the child body.
func (j *Joint) ChildIndex() int {
	return j.childIndex
}

// SetChildIndex is used by the owning skeleton to attach the joint.
func (j *Joint) SetChildIndex(idx int) {
	j.childIndex = idx
}

// Positions returns the current values of the joint's dofs.
func (j *Joint) Positions() []float64 {
	pos := make([]float64, len(j.dofs))
	for i, dof := range j.dofs {
		pos[i] = dof.value
	}
	return pos
}

// SetPositions sets the values of the joint's dofs, in order.
func (j *Joint) SetPositions(pos []float64) error {
	if len(pos) != len(j.dofs) {
		return NewIncorrectDoFError(len(pos), len(j.dofs))
	}
	for i, dof := range j.dofs {
		dof.value = pos[i]
	}
	return nil
}

// WithinLimits returns whether every dof of the joint respects its limit.
func (j *Joint) WithinLimits() bool {
	for _, dof := range j.dofs {
		if !dof.WithinLimits() {
			return false
		}
	}
	return true
}

// LocalTransform composes the transformations for the current dof values, giving the transform from the child
// body's frame to the parent body's frame.
func (j *Joint) LocalTransform() mgl64.Mat4 {
	composed := mgl64.Ident4()
	for _, tf := range j.ordTransforms {
		composed = composed.Mul4(tf.Transform())
	}
	return composed
}

// LocalDerivative returns the partial derivative of LocalTransform with respect to dof. It is an error to ask
// for a dof the joint does not own.
func (j *Joint) LocalDerivative(dof *DOF) (mgl64.Mat4, error) {
	if !j.Owns(dof) {
		name := "<nil>"
		if dof != nil {
			name = dof.name
		}
		return mgl64.Mat4{}, NewDOFNotOwnedError(name, j.name)
	}
	// product rule over every factor that depends on dof
	var deriv mgl64.Mat4
	for k, tf := range j.ordTransforms {
		if !dependsOn(tf, dof) {
			continue
		}
		term := mgl64.Ident4()
		for i, other := range j.ordTransforms {
			if i == k {
				term = term.Mul4(tf.Derivative(dof))
			} else {
				term = term.Mul4(other.Transform())
			}
		}
		deriv = deriv.Add(term)
	}
	return deriv, nil
}

func dependsOn(tf Transformation, dof *DOF) bool {
	for _, d := range tf.Dofs() {
		if d == dof {
			return true
		}
	}
	return false
}

// IsRotational returns whether dof parametrizes a rotation of its joint, so that its value is an angle.
func IsRotational(dof *DOF) bool {
	if dof == nil || dof.joint == nil {
		return false
	}
	for _, tf := range dof.joint.ordTransforms {
		if _, ok := tf.(*rotationalTransformation); ok && dependsOn(tf, dof) {
			return true
		}
	}
	return false
}
