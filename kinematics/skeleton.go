// Package kinematics implements articulated rigid-body trees: body nodes connected by joints, their world
// transforms, the derivatives of those transforms with respect to every dof, and the Jacobians derived from
// them.
package kinematics

import (
	"image/color"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"
	"gonum.org/v1/gonum/mat"

	"github.com/RomanBuckle/dart/logging"
	"github.com/RomanBuckle/dart/referenceframe"
	"github.com/RomanBuckle/dart/render"
)

// Skeleton owns a forest of body nodes and the joints and dofs connecting them. Nodes are stored in insertion
// order and referenced by index; the parent-to-child topology is kept as a directed graph whose topological
// order drives both update passes.
//
// A Skeleton is not safe for concurrent use. Independent skeletons share nothing and may be updated in
// parallel.
type Skeleton struct {
	name   string
	logger logging.Logger

	tree   *simple.DirectedGraph
	nodes  []*BodyNode
	joints []*referenceframe.Joint
	dofs   []*referenceframe.DOF
	// order lists node indices parents first
	order     []int
	nextID    int
	finalized bool
}

// NewSkeleton returns an empty skeleton.
func NewSkeleton(name string, logger logging.Logger) *Skeleton {
	if logger == nil {
		logger = logging.NewBlankLogger(name)
	}
	return &Skeleton{
		name:   name,
		logger: logger,
		tree:   simple.NewDirectedGraph(),
	}
}

// Name returns the name of the skeleton.
func (s *Skeleton) Name() string {
	return s.name
}

// NextID returns the next body node identifier of this skeleton.
func (s *Skeleton) NextID() int {
	id := s.nextID
	s.nextID++
	return id
}

// AddBodyNode attaches node below parent through joint. A nil parent attaches the node to the world. The dofs
// of joint are appended to the skeleton's dofs. Finalize must run before the skeleton is updated again.
func (s *Skeleton) AddBodyNode(node, parent *BodyNode, joint *referenceframe.Joint) error {
	if node == nil || joint == nil {
		return errors.New("body node and joint must not be nil")
	}
	if node.skel != nil {
		return NewNodeAttachedError("body node", node.name)
	}
	if joint.ChildIndex() != referenceframe.WorldIndex {
		return NewNodeAttachedError("joint", joint.Name())
	}
	if parent != nil && parent.skel != s {
		return NewNodeNotFoundError(parent.name)
	}
	if s.NodeByName(node.name) != nil {
		return NewDuplicateNodeError(node.name)
	}

	node.skel = s
	node.index = len(s.nodes)
	node.id = s.NextID()
	node.parentJoint = joint
	node.initialized = false

	parentIdx := referenceframe.WorldIndex
	if parent != nil {
		parentIdx = parent.index
		parent.AddChildJoint(joint)
	}
	joint.SetParentIndex(parentIdx)
	joint.SetChildIndex(node.index)
	for _, dof := range joint.Dofs() {
		dof.SetIndex(len(s.dofs))
		s.dofs = append(s.dofs, dof)
	}
	s.joints = append(s.joints, joint)
	s.nodes = append(s.nodes, node)

	s.tree.AddNode(simple.Node(node.index))
	if parent != nil {
		s.tree.SetEdge(s.tree.NewEdge(simple.Node(parent.index), simple.Node(node.index)))
	}
	s.finalized = false
	s.logger.Debugw("added body node", "node", node.name, "joint", joint.Name(), "dofs", joint.NumDofs())
	return nil
}

// Finalize fixes the update order, builds every dependency list, sizes every node and runs both update passes
// for the current dof values.
func (s *Skeleton) Finalize() error {
	if err := s.sortNodes(); err != nil {
		return err
	}
	for _, idx := range s.order {
		s.nodes[idx].SetDependDofList()
		s.nodes[idx].Init()
	}
	s.finalized = true
	s.logger.Debugw("finalized skeleton", "name", s.name, "nodes", len(s.nodes), "dofs", len(s.dofs))
	return s.update()
}

// Finalized returns whether the skeleton can be updated.
func (s *Skeleton) Finalized() bool {
	return s.finalized
}

func (s *Skeleton) sortNodes() error {
	sorted, err := topo.SortStabilized(s.tree, nil)
	if err != nil {
		return errors.Wrap(err, "body nodes do not form a tree")
	}
	s.order = lo.Map(sorted, func(n graph.Node, _ int) int { return int(n.ID()) })
	return nil
}

// subtree returns node and all of its descendants, breadth first.
func (s *Skeleton) subtree(node *BodyNode) []*BodyNode {
	var out []*BodyNode
	bf := traverse.BreadthFirst{Visit: func(n graph.Node) {
		out = append(out, s.nodes[n.ID()])
	}}
	bf.Walk(s.tree, simple.Node(node.index), nil)
	return out
}

// Reparent moves node, with everything below it, under newParent, or under the world when newParent is nil.
// The dependency lists of the moved nodes are rebuilt and their containers resized.
func (s *Skeleton) Reparent(node, newParent *BodyNode) error {
	if node == nil {
		return NewNodeNotFoundError("<nil>")
	}
	if node.skel != s {
		return NewNodeNotFoundError(node.name)
	}
	if newParent != nil && newParent.skel != s {
		return NewNodeNotFoundError(newParent.name)
	}
	moved := s.subtree(node)
	if newParent != nil && lo.Contains(moved, newParent) {
		return NewCycleError(node.name, newParent.name)
	}

	if oldParent := node.ParentNode(); oldParent != nil {
		s.tree.RemoveEdge(int64(oldParent.index), int64(node.index))
		oldParent.RemoveChildJoint(node.parentJoint)
	}
	newIdx := referenceframe.WorldIndex
	if newParent != nil {
		newIdx = newParent.index
		newParent.AddChildJoint(node.parentJoint)
		s.tree.SetEdge(s.tree.NewEdge(simple.Node(newParent.index), simple.Node(node.index)))
	}
	node.parentJoint.SetParentIndex(newIdx)
	if err := s.sortNodes(); err != nil {
		return err
	}

	for _, n := range moved {
		n.SetDependDofList()
		n.Init()
	}
	s.logger.Debugw("reparented body node", "node", node.name, "parent", newIdx, "moved", len(moved))
	if !s.finalized {
		return nil
	}
	return s.update()
}

func (s *Skeleton) update() error {
	s.UpdateTransforms()
	return s.UpdateFirstDerivatives()
}

// UpdateTransforms runs the transform pass over every node, parents first.
func (s *Skeleton) UpdateTransforms() {
	for _, idx := range s.order {
		s.nodes[idx].UpdateTransform()
	}
}

// UpdateFirstDerivatives runs the derivative pass over every node, parents first. The transform pass must have
// completed.
func (s *Skeleton) UpdateFirstDerivatives() error {
	if !s.finalized {
		return ErrSkeletonNotFinalized
	}
	for _, idx := range s.order {
		if err := s.nodes[idx].UpdateFirstDerivatives(); err != nil {
			return err
		}
	}
	return nil
}

// SetPositions sets every dof, in skeleton order, then recomputes transforms and derivatives.
func (s *Skeleton) SetPositions(pos []float64) error {
	if !s.finalized {
		return ErrSkeletonNotFinalized
	}
	if len(pos) != len(s.dofs) {
		return referenceframe.NewIncorrectDoFError(len(pos), len(s.dofs))
	}
	for i, dof := range s.dofs {
		dof.SetValue(pos[i])
	}
	return s.update()
}

// Positions returns the value of every dof, in skeleton order.
func (s *Skeleton) Positions() []float64 {
	return lo.Map(s.dofs, func(dof *referenceframe.DOF, _ int) float64 { return dof.Value() })
}

// WithinLimits returns whether every dof respects its limit.
func (s *Skeleton) WithinLimits() bool {
	return lo.EveryBy(s.dofs, func(dof *referenceframe.DOF) bool { return dof.WithinLimits() })
}

// NumDofs returns the number of dofs of the skeleton.
func (s *Skeleton) NumDofs() int {
	return len(s.dofs)
}

// Dof returns the dof with skeleton index idx.
func (s *Skeleton) Dof(idx int) *referenceframe.DOF {
	return s.dofs[idx]
}

// Dofs returns every dof in skeleton order.
func (s *Skeleton) Dofs() []*referenceframe.DOF {
	return s.dofs
}

// DofByName returns the dof with the given name.
func (s *Skeleton) DofByName(name string) (*referenceframe.DOF, error) {
	dof, ok := lo.Find(s.dofs, func(d *referenceframe.DOF) bool { return d.Name() == name })
	if !ok {
		return nil, NewDofNotFoundError(name)
	}
	return dof, nil
}

// NumNodes returns the number of body nodes.
func (s *Skeleton) NumNodes() int {
	return len(s.nodes)
}

// Node returns the body node with index idx.
func (s *Skeleton) Node(idx int) *BodyNode {
	return s.nodes[idx]
}

// Nodes returns the body nodes in insertion order.
func (s *Skeleton) Nodes() []*BodyNode {
	return s.nodes
}

// NodeByName returns the body node with the given name, nil if there is none.
func (s *Skeleton) NodeByName(name string) *BodyNode {
	node, _ := lo.Find(s.nodes, func(n *BodyNode) bool { return n.name == name })
	return node
}

// Joints returns the joints in insertion order, the i-th joint leading to the i-th node.
func (s *Skeleton) Joints() []*referenceframe.Joint {
	return s.joints
}

// UpdateOrder returns the nodes parents first, the order both update passes use.
func (s *Skeleton) UpdateOrder() []*BodyNode {
	return lo.Map(s.order, func(idx, _ int) *BodyNode { return s.nodes[idx] })
}

// Roots returns the nodes attached to the world.
func (s *Skeleton) Roots() []*BodyNode {
	return lo.Filter(s.nodes, func(n *BodyNode, _ int) bool { return n.ParentNode() == nil })
}

// Root returns the first node attached to the world, nil for an empty skeleton.
func (s *Skeleton) Root() *BodyNode {
	roots := s.Roots()
	if len(roots) == 0 {
		return nil
	}
	return roots[0]
}

func (s *Skeleton) checkNode(node *BodyNode) error {
	if node == nil {
		return NewNodeNotFoundError("<nil>")
	}
	if node.skel != s {
		return NewNodeNotFoundError(node.name)
	}
	if !s.finalized {
		return ErrSkeletonNotFinalized
	}
	return nil
}

// embed spreads the columns of a node Jacobian over the skeleton's dofs. Columns of dofs the node does not
// depend on are zero.
func (s *Skeleton) embed(node *BodyNode, local *mat.Dense) *mat.Dense {
	if len(s.dofs) == 0 {
		return &mat.Dense{}
	}
	full := mat.NewDense(3, len(s.dofs), nil)
	for i, d := range node.dependentDofs {
		for r := 0; r < 3; r++ {
			full.Set(r, d, local.At(r, i))
		}
	}
	return full
}

// LinearJacobian returns the 3 by NumDofs Jacobian of the node's world center of mass.
func (s *Skeleton) LinearJacobian(node *BodyNode) (*mat.Dense, error) {
	if err := s.checkNode(node); err != nil {
		return nil, err
	}
	if err := node.EvalJacLin(); err != nil {
		return nil, err
	}
	return s.embed(node, node.jacLin), nil
}

// AngularJacobian returns the 3 by NumDofs Jacobian of the node's angular velocity in the world frame.
func (s *Skeleton) AngularJacobian(node *BodyNode) (*mat.Dense, error) {
	if err := s.checkNode(node); err != nil {
		return nil, err
	}
	if err := node.EvalJacAng(); err != nil {
		return nil, err
	}
	return s.embed(node, node.jacAng), nil
}

// Mass returns the total mass of the skeleton.
func (s *Skeleton) Mass() float64 {
	return lo.SumBy(s.nodes, func(n *BodyNode) float64 { return n.Mass() })
}

// WorldCOM returns the center of mass of the skeleton in the world frame, the origin when it is massless.
func (s *Skeleton) WorldCOM() r3.Vector {
	total := s.Mass()
	if total == 0 {
		return r3.Vector{}
	}
	var com r3.Vector
	for _, n := range s.nodes {
		com = com.Add(n.WorldCOM().Mul(n.Mass()))
	}
	return com.Mul(1 / total)
}

// COMJacobian returns the 3 by NumDofs Jacobian of the skeleton's center of mass, the mass weighted mean of
// the nodes' linear Jacobians.
func (s *Skeleton) COMJacobian() (*mat.Dense, error) {
	if !s.finalized {
		return nil, ErrSkeletonNotFinalized
	}
	if len(s.dofs) == 0 {
		return &mat.Dense{}, nil
	}
	jac := mat.NewDense(3, len(s.dofs), nil)
	total := s.Mass()
	if total == 0 {
		return jac, nil
	}
	for _, n := range s.nodes {
		if n.Mass() == 0 {
			continue
		}
		nodeJac, err := s.LinearJacobian(n)
		if err != nil {
			return nil, err
		}
		nodeJac.Scale(n.Mass()/total, nodeJac)
		jac.Add(jac, nodeJac)
	}
	return jac, nil
}

// Draw draws every body, starting from the roots at depth zero.
func (s *Skeleton) Draw(ri render.Renderer, c color.Color, useDefaultColor bool) {
	for _, root := range s.Roots() {
		root.Draw(ri, c, useDefaultColor, 0)
	}
}

// DrawHandles draws every marker.
func (s *Skeleton) DrawHandles(ri render.Renderer, c color.Color, useDefaultColor bool) {
	for _, root := range s.Roots() {
		root.DrawHandles(ri, c, useDefaultColor)
	}
}
