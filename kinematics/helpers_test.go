package kinematics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/RomanBuckle/dart/logging"
	"github.com/RomanBuckle/dart/referenceframe"
	"github.com/RomanBuckle/dart/spatialmath"
)

var zAxis = r3.Vector{Z: 1}

// makeTwoLink builds a planar arm: a root link hinged about z at the origin and a second link hinged about z
// one unit along the first link's x axis.
func makeTwoLink(t *testing.T) (*Skeleton, *BodyNode, *BodyNode) {
	t.Helper()
	s := NewSkeleton("planar", logging.NewTestLogger(t))

	shoulder, err := referenceframe.NewRevoluteJoint("shoulder", mgl64.Ident4(), zAxis, referenceframe.Unlimited)
	test.That(t, err, test.ShouldBeNil)
	upper := NewBodyNode("upper")
	box, err := NewBox(r3.Vector{X: 1, Y: 0.1, Z: 0.1}, 2)
	test.That(t, err, test.ShouldBeNil)
	upper.SetPrimitive(box)
	upper.SetLocalCOM(r3.Vector{X: 0.5})
	test.That(t, s.AddBodyNode(upper, nil, shoulder), test.ShouldBeNil)

	elbow, err := referenceframe.NewRevoluteJoint("elbow", spatialmath.NewTransformFromPoint(r3.Vector{X: 1}), zAxis,
		referenceframe.Limit{Min: -2, Max: 2})
	test.That(t, err, test.ShouldBeNil)
	lower := NewBodyNode("lower")
	cyl, err := NewCylinder(0.05, 1, 1)
	test.That(t, err, test.ShouldBeNil)
	lower.SetPrimitive(cyl)
	lower.SetLocalCOM(r3.Vector{X: 0.5})
	lower.AddMarker(NewMarker("tip", r3.Vector{X: 1}))
	test.That(t, s.AddBodyNode(lower, upper, elbow), test.ShouldBeNil)

	test.That(t, s.Finalize(), test.ShouldBeNil)
	return s, upper, lower
}

// makeBranching builds a floating base carrying a head on a ball joint and a leg made of a hinge, a slider
// and a welded foot.
func makeBranching(t *testing.T) *Skeleton {
	t.Helper()
	s := NewSkeleton("branching", logging.NewTestLogger(t))
	add := func(node, parent *BodyNode, j *referenceframe.Joint, err error) {
		test.That(t, err, test.ShouldBeNil)
		test.That(t, s.AddBodyNode(node, parent, j), test.ShouldBeNil)
	}
	withBox := func(name string, size r3.Vector, mass float64, com r3.Vector) *BodyNode {
		node := NewBodyNode(name)
		box, err := NewBox(size, mass)
		test.That(t, err, test.ShouldBeNil)
		node.SetPrimitive(box)
		node.SetLocalCOM(com)
		return node
	}

	base := withBox("base", r3.Vector{X: 0.4, Y: 0.3, Z: 0.2}, 10, r3.Vector{Z: 0.05})
	free, err := referenceframe.NewFreeJoint("base", mgl64.Ident4())
	add(base, nil, free, err)

	head := NewBodyNode("head")
	ellipsoid, err := NewEllipsoid(r3.Vector{X: 0.2, Y: 0.2, Z: 0.3}, 3)
	test.That(t, err, test.ShouldBeNil)
	head.SetPrimitive(ellipsoid)
	head.SetLocalCOM(r3.Vector{Y: 0.02, Z: 0.1})
	neck, err := referenceframe.NewBallJoint("neck", spatialmath.NewTransformFromPoint(r3.Vector{Z: 0.5}))
	add(head, base, neck, err)

	thigh := withBox("thigh", r3.Vector{X: 0.1, Y: 0.1, Z: 0.4}, 4, r3.Vector{Z: -0.2})
	hip, err := referenceframe.NewRevoluteJoint("hip",
		spatialmath.NewTransformFromPoint(r3.Vector{X: 0.2, Z: -0.5}).Mul4(spatialmath.NewTransformFromRPY(0.3, 0, 0)),
		r3.Vector{X: 1, Y: 1}, referenceframe.Unlimited)
	add(thigh, base, hip, err)

	shin := withBox("shin", r3.Vector{X: 0.08, Y: 0.08, Z: 0.4}, 2, r3.Vector{X: 0.01, Z: -0.2})
	knee, err := referenceframe.NewPrismaticJoint("knee", spatialmath.NewTransformFromPoint(r3.Vector{Z: -0.4}), zAxis,
		referenceframe.Limit{Min: -0.1, Max: 0.1})
	add(shin, thigh, knee, err)

	foot := withBox("foot", r3.Vector{X: 0.2, Y: 0.1, Z: 0.05}, 1, r3.Vector{X: 0.05})
	ankle, err := referenceframe.NewFixedJoint("ankle",
		spatialmath.NewTransformFromPoint(r3.Vector{X: 0.1, Z: -0.3}).Mul4(spatialmath.NewTransformFromRPY(0, 0.2, 0)))
	add(foot, shin, ankle, err)
	foot.AddMarker(NewMarker("toe", r3.Vector{X: 0.1}))
	foot.AddMarker(NewMarker("heel", r3.Vector{X: -0.1}))

	test.That(t, s.Finalize(), test.ShouldBeNil)
	return s
}
