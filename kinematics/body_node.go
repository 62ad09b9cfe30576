package kinematics

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/samber/lo"
	"github.com/samber/lo/mutable"
	"gonum.org/v1/gonum/mat"

	"github.com/RomanBuckle/dart/referenceframe"
	"github.com/RomanBuckle/dart/render"
	"github.com/RomanBuckle/dart/spatialmath"
)

// BodyNode is one rigid body of a skeleton. It caches its local and world transforms, the derivatives of both
// with respect to every dof it depends on, its world inertia and its center of mass Jacobians.
//
// A node does not own its parent or its children. It reaches them through its joints, which record node
// indices into the owning skeleton.
type BodyNode struct {
	name  string
	id    int
	index int
	skel  *Skeleton

	parentJoint *referenceframe.Joint
	childJoints []*referenceframe.Joint
	primitive   Primitive
	localCOM    r3.Vector
	markers     []*Marker

	localTransform mgl64.Mat4
	worldTransform mgl64.Mat4
	worldInertia   mgl64.Mat3

	// dependentDofs holds the skeleton indices of the dofs this node depends on, root first
	dependentDofs []int
	// parentSlots[i] is the position of dependentDofs[i] in the parent's list, or -1
	parentSlots []int
	localDerivs []mgl64.Mat4
	worldDerivs []mgl64.Mat4
	jacLin      *mat.Dense
	jacAng      *mat.Dense
	initialized bool
}

// NewBodyNode returns a detached body node with no primitive, placed at the origin until it is updated.
func NewBodyNode(name string) *BodyNode {
	return &BodyNode{
		name:           name,
		index:          -1,
		localTransform: mgl64.Ident4(),
		worldTransform: mgl64.Ident4(),
		jacLin:         &mat.Dense{},
		jacAng:         &mat.Dense{},
	}
}

// Name returns the name of the node.
func (bn *BodyNode) Name() string {
	return bn.name
}

// ID returns the identifier handed out by the owning skeleton, in order of insertion.
func (bn *BodyNode) ID() int {
	return bn.id
}

// Index returns the position of the node in its skeleton, -1 while detached.
func (bn *BodyNode) Index() int {
	return bn.index
}

// SetIndex is used by the owning skeleton.
func (bn *BodyNode) SetIndex(idx int) {
	bn.index = idx
}

// Skeleton returns the owning skeleton, nil while detached.
func (bn *BodyNode) Skeleton() *Skeleton {
	return bn.skel
}

// ParentJoint returns the joint connecting this node to its parent, or to the world for a root.
func (bn *BodyNode) ParentJoint() *referenceframe.Joint {
	return bn.parentJoint
}

// SetParentJoint replaces the joint to the parent. The dependency list is stale afterwards and must be
// rebuilt with SetDependDofList.
func (bn *BodyNode) SetParentJoint(j *referenceframe.Joint) {
	bn.parentJoint = j
	bn.initialized = false
}

// AddChildJoint records a joint leading to a child node.
func (bn *BodyNode) AddChildJoint(j *referenceframe.Joint) {
	bn.childJoints = append(bn.childJoints, j)
}

// RemoveChildJoint forgets a joint leading to a child node.
func (bn *BodyNode) RemoveChildJoint(j *referenceframe.Joint) {
	bn.childJoints = lo.Without(bn.childJoints, j)
}

// NumChildJoints returns the number of joints leading to child nodes.
func (bn *BodyNode) NumChildJoints() int {
	return len(bn.childJoints)
}

// ChildJoint returns the idx-th child joint. idx must be below NumChildJoints.
func (bn *BodyNode) ChildJoint(idx int) *referenceframe.Joint {
	return bn.childJoints[idx]
}

// ChildNode returns the node at the end of the idx-th child joint.
func (bn *BodyNode) ChildNode(idx int) *BodyNode {
	return bn.skel.nodes[bn.childJoints[idx].ChildIndex()]
}

// ParentNode returns the parent node, nil for a root or a detached node.
func (bn *BodyNode) ParentNode() *BodyNode {
	if bn.parentJoint == nil || bn.skel == nil || bn.parentJoint.ParentIndex() == referenceframe.WorldIndex {
		return nil
	}
	return bn.skel.nodes[bn.parentJoint.ParentIndex()]
}

// NumLocalDofs returns the number of dofs of the parent joint.
func (bn *BodyNode) NumLocalDofs() int {
	if bn.parentJoint == nil {
		return 0
	}
	return bn.parentJoint.NumDofs()
}

// Dof returns the idx-th dof of the parent joint.
func (bn *BodyNode) Dof(idx int) *referenceframe.DOF {
	return bn.parentJoint.Dof(idx)
}

// SetPrimitive attaches the shape giving the node its mass and inertia. A nil primitive makes the node
// massless.
func (bn *BodyNode) SetPrimitive(p Primitive) {
	bn.primitive = p
}

// Primitive returns the attached shape, possibly nil.
func (bn *BodyNode) Primitive() Primitive {
	return bn.primitive
}

// Mass returns the mass of the primitive, zero without one.
func (bn *BodyNode) Mass() float64 {
	if bn.primitive == nil {
		return 0
	}
	return bn.primitive.Mass()
}

// LocalCOM returns the center of mass in the node's frame.
func (bn *BodyNode) LocalCOM() r3.Vector {
	return bn.localCOM
}

// SetLocalCOM sets the center of mass in the node's frame.
func (bn *BodyNode) SetLocalCOM(com r3.Vector) {
	bn.localCOM = com
}

// WorldCOM returns the center of mass in the world frame.
func (bn *BodyNode) WorldCOM() r3.Vector {
	return bn.WorldPosition(bn.localCOM)
}

// AddMarker attaches m to this node.
func (bn *BodyNode) AddMarker(m *Marker) {
	m.node = bn
	bn.markers = append(bn.markers, m)
}

// NumMarkers returns the number of markers attached to the node.
func (bn *BodyNode) NumMarkers() int {
	return len(bn.markers)
}

// Marker returns the idx-th marker. idx must be below NumMarkers.
func (bn *BodyNode) Marker(idx int) *Marker {
	return bn.markers[idx]
}

// SetDependDofList rebuilds the list of dofs the node depends on by walking the parent joints up to the
// root. The list is ordered root first, and Init must run again before the next derivative update.
func (bn *BodyNode) SetDependDofList() {
	deps := []int{}
	for node := bn; node != nil && node.parentJoint != nil; node = node.ParentNode() {
		for i := node.parentJoint.NumDofs() - 1; i >= 0; i-- {
			deps = append(deps, node.parentJoint.Dof(i).Index())
		}
	}
	mutable.Reverse(deps)
	bn.dependentDofs = deps
	bn.initialized = false
}

// NumDependentDofs returns the length of the dependency list.
func (bn *BodyNode) NumDependentDofs() int {
	return len(bn.dependentDofs)
}

// DependentDof returns the skeleton index of the idx-th dependent dof.
func (bn *BodyNode) DependentDof(idx int) int {
	return bn.dependentDofs[idx]
}

// DependentDofs returns a copy of the dependency list.
func (bn *BodyNode) DependentDofs() []int {
	return append([]int(nil), bn.dependentDofs...)
}

// DependsOn returns whether the dof with skeleton index dofIdx moves this node.
func (bn *BodyNode) DependsOn(dofIdx int) bool {
	return lo.Contains(bn.dependentDofs, dofIdx)
}

// IsPresent returns whether dof belongs to a joint between the root and this node.
func (bn *BodyNode) IsPresent(dof *referenceframe.DOF) bool {
	if dof == nil || bn.skel == nil || dof.Index() < 0 || dof.Index() >= len(bn.skel.dofs) {
		return false
	}
	return bn.skel.dofs[dof.Index()] == dof && bn.DependsOn(dof.Index())
}

// Init sizes the derivative and Jacobian containers for the current dependency list and maps each dependent
// dof onto its slot in the parent's list. The parent must be initialized first.
func (bn *BodyNode) Init() {
	n := len(bn.dependentDofs)
	bn.localDerivs = make([]mgl64.Mat4, n)
	bn.worldDerivs = make([]mgl64.Mat4, n)
	if n > 0 {
		bn.jacLin = mat.NewDense(3, n, nil)
		bn.jacAng = mat.NewDense(3, n, nil)
	} else {
		bn.jacLin = &mat.Dense{}
		bn.jacAng = &mat.Dense{}
	}

	parent := bn.ParentNode()
	bn.parentSlots = make([]int, n)
	for i, d := range bn.dependentDofs {
		bn.parentSlots[i] = -1
		if parent != nil {
			bn.parentSlots[i] = lo.IndexOf(parent.dependentDofs, d)
		}
	}
	bn.initialized = true
}

// Initialized returns whether the containers match the current dependency list.
func (bn *BodyNode) Initialized() bool {
	return bn.initialized
}

// UpdateTransform recomputes the local transform from the parent joint, the world transform from the
// parent's world transform, and the world inertia. The parent must have been updated first.
func (bn *BodyNode) UpdateTransform() {
	bn.localTransform = mgl64.Ident4()
	if bn.parentJoint != nil {
		bn.localTransform = bn.parentJoint.LocalTransform()
	}
	if parent := bn.ParentNode(); parent != nil {
		bn.worldTransform = parent.worldTransform.Mul4(bn.localTransform)
	} else {
		bn.worldTransform = bn.localTransform
	}
	bn.worldInertia = mgl64.Mat3{}
	if bn.primitive != nil {
		bn.worldInertia = spatialmath.ConjugateInertia(spatialmath.RotationBlock(bn.worldTransform), bn.primitive.InertiaTensor())
	}
}

// UpdateFirstDerivatives recomputes the derivatives of the local and world transforms with respect to every
// dependent dof. The transforms of this node and the derivatives of its parent must be current.
func (bn *BodyNode) UpdateFirstDerivatives() error {
	if !bn.initialized || len(bn.worldDerivs) != len(bn.dependentDofs) {
		return NewNodeNotInitializedError(bn.name)
	}
	parent := bn.ParentNode()
	if parent != nil && !parent.initialized {
		return NewNodeNotInitializedError(parent.name)
	}
	for i, d := range bn.dependentDofs {
		bn.localDerivs[i] = bn.LocalDerivative(bn.skel.dofs[d])
		if parent == nil {
			bn.worldDerivs[i] = bn.localDerivs[i]
			continue
		}
		var parentDeriv mgl64.Mat4
		if slot := bn.parentSlots[i]; slot >= 0 {
			parentDeriv = parent.worldDerivs[slot]
		}
		bn.worldDerivs[i] = parentDeriv.Mul4(bn.localTransform).Add(parent.worldTransform.Mul4(bn.localDerivs[i]))
	}
	return nil
}

// LocalDerivative returns the derivative of the local transform with respect to dof, which is zero unless the
// parent joint owns dof.
func (bn *BodyNode) LocalDerivative(dof *referenceframe.DOF) mgl64.Mat4 {
	if bn.parentJoint == nil || !bn.parentJoint.Owns(dof) {
		return mgl64.Mat4{}
	}
	deriv, err := bn.parentJoint.LocalDerivative(dof)
	if err != nil {
		return mgl64.Mat4{}
	}
	return deriv
}

// LocalDerivativeAt returns the cached derivative of the local transform for the idx-th dependent dof.
func (bn *BodyNode) LocalDerivativeAt(idx int) mgl64.Mat4 {
	return bn.localDerivs[idx]
}

// WorldDerivativeAt returns the cached derivative of the world transform for the idx-th dependent dof.
func (bn *BodyNode) WorldDerivativeAt(idx int) mgl64.Mat4 {
	return bn.worldDerivs[idx]
}

// EvalJacLin fills the linear Jacobian of the center of mass, one column per dependent dof.
func (bn *BodyNode) EvalJacLin() error {
	if !bn.initialized {
		return NewNodeNotInitializedError(bn.name)
	}
	com := spatialmath.R3ToVec3(bn.localCOM)
	for i, deriv := range bn.worldDerivs {
		col := deriv.Mat3().Mul3x1(com).Add(spatialmath.R3ToVec3(spatialmath.TranslationPart(deriv)))
		bn.jacLin.SetCol(i, col[:])
	}
	return nil
}

// EvalJacAng fills the angular Jacobian, one column per dependent dof.
func (bn *BodyNode) EvalJacAng() error {
	if !bn.initialized {
		return NewNodeNotInitializedError(bn.name)
	}
	rT := bn.worldTransform.Mat3().Transpose()
	for i, deriv := range bn.worldDerivs {
		col := spatialmath.R3ToVec3(spatialmath.Vee(deriv.Mat3().Mul3(rT)))
		bn.jacAng.SetCol(i, col[:])
	}
	return nil
}

// JacobianLinear returns the linear Jacobian filled by the last EvalJacLin. It is empty when the node depends
// on no dof.
func (bn *BodyNode) JacobianLinear() *mat.Dense {
	return bn.jacLin
}

// JacobianAngular returns the angular Jacobian filled by the last EvalJacAng. It is empty when the node
// depends on no dof.
func (bn *BodyNode) JacobianAngular() *mat.Dense {
	return bn.jacAng
}

// LocalTransform returns the cached transform from this node's frame to its parent's.
func (bn *BodyNode) LocalTransform() mgl64.Mat4 {
	return bn.localTransform
}

// LocalInvTransform returns the inverse of the local transform. It is computed on every call.
func (bn *BodyNode) LocalInvTransform() mgl64.Mat4 {
	return bn.localTransform.Inv()
}

// WorldTransform returns the cached transform from this node's frame to the world.
func (bn *BodyNode) WorldTransform() mgl64.Mat4 {
	return bn.worldTransform
}

// WorldInvTransform returns the inverse of the world transform. It is computed on every call.
func (bn *BodyNode) WorldInvTransform() mgl64.Mat4 {
	return bn.worldTransform.Inv()
}

// WorldInertia returns the inertia tensor rotated into the world frame.
func (bn *BodyNode) WorldInertia() mgl64.Mat3 {
	return bn.worldInertia
}

// WorldPosition maps a point from the node's frame to the world frame.
func (bn *BodyNode) WorldPosition(localPoint r3.Vector) r3.Vector {
	return spatialmath.TransformPoint(bn.worldTransform, localPoint)
}

// Draw draws the primitive of this node and of every node below it. The renderer's current frame must be the
// parent's. With useDefaultColor each body is colored by its depth instead of c.
func (bn *BodyNode) Draw(ri render.Renderer, c color.Color, useDefaultColor bool, depth int) {
	if ri == nil {
		return
	}
	ri.PushMatrix()
	ri.Transform(bn.localTransform)
	if bn.primitive != nil {
		if useDefaultColor {
			ri.SetPenColor(render.DepthColor(depth))
		} else {
			ri.SetPenColor(c)
		}
		bn.primitive.Draw(ri)
	}
	for i := range bn.childJoints {
		bn.ChildNode(i).Draw(ri, c, useDefaultColor, depth+1)
	}
	ri.PopMatrix()
}

// DrawHandles draws the markers of this node and of every node below it.
func (bn *BodyNode) DrawHandles(ri render.Renderer, c color.Color, useDefaultColor bool) {
	if ri == nil {
		return
	}
	ri.PushMatrix()
	ri.Transform(bn.localTransform)
	if useDefaultColor {
		ri.SetPenColor(render.HandleColor)
	} else {
		ri.SetPenColor(c)
	}
	for _, m := range bn.markers {
		ri.DrawPoint(m.localPos)
	}
	for i := range bn.childJoints {
		bn.ChildNode(i).DrawHandles(ri, c, useDefaultColor)
	}
	ri.PopMatrix()
}
