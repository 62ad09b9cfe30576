package referenceframe

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/RomanBuckle/dart/spatialmath"
)

// numericalLocalDerivative perturbs one dof of j and central-differences its local transform.
func numericalLocalDerivative(j *Joint, dof *DOF) mgl64.Mat4 {
	const h = 1e-6
	orig := dof.Value()
	dof.SetValue(orig + h)
	plus := j.LocalTransform()
	dof.SetValue(orig - h)
	minus := j.LocalTransform()
	dof.SetValue(orig)
	return plus.Sub(minus).Mul(1 / (2 * h))
}

func TestNewJointOwnership(t *testing.T) {
	_, err := NewJoint("empty")
	test.That(t, err, test.ShouldBeError, ErrEmptyJoint)

	dof := NewDOF("q", 0, Unlimited)
	rot, err := NewRotationalTransformation("rz", r3.Vector{Z: 1}, dof)
	test.That(t, err, test.ShouldBeNil)
	j, err := NewJoint("hinge", rot)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, j.NumDofs(), test.ShouldEqual, 1)
	test.That(t, j.Dof(0), test.ShouldEqual, dof)
	test.That(t, dof.Joint(), test.ShouldEqual, j)
	test.That(t, j.Owns(dof), test.ShouldBeTrue)
	test.That(t, j.Owns(nil), test.ShouldBeFalse)
	test.That(t, j.ParentIndex(), test.ShouldEqual, WorldIndex)

	// the same dof cannot be owned twice
	again, err := NewRotationalTransformation("rz2", r3.Vector{Z: 1}, dof)
	test.That(t, err, test.ShouldBeNil)
	_, err = NewJoint("thief", again)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "already owned")
	test.That(t, dof.Joint(), test.ShouldEqual, j)
}

func TestJointPositions(t *testing.T) {
	j, err := NewBallJoint("shoulder", mgl64.Ident4())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, j.NumDofs(), test.ShouldEqual, 3)
	test.That(t, j.Dof(1).Name(), test.ShouldEqual, "shoulder_ry")

	err = j.SetPositions([]float64{0.1, 0.2})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, NewIncorrectDoFError(2, 3).Error())

	test.That(t, j.SetPositions([]float64{0.1, 0.2, 0.3}), test.ShouldBeNil)
	test.That(t, j.Positions(), test.ShouldResemble, []float64{0.1, 0.2, 0.3})
	test.That(t, j.WithinLimits(), test.ShouldBeTrue)
}

func TestRevoluteJointTransform(t *testing.T) {
	offset := spatialmath.NewTransformFromPoint(r3.Vector{X: 1})
	j, err := NewRevoluteJoint("elbow", offset, r3.Vector{Z: 1}, Limit{Min: -math.Pi, Max: math.Pi})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(j.Transformations()), test.ShouldEqual, 2)

	test.That(t, j.SetPositions([]float64{math.Pi / 2}), test.ShouldBeNil)
	// the child origin sits at the offset, and its x axis points along the parent's y
	local := j.LocalTransform()
	test.That(t, spatialmath.R3VectorAlmostEqual(spatialmath.TranslationPart(local), r3.Vector{X: 1}, 1e-9), test.ShouldBeTrue)
	tip := spatialmath.TransformPoint(local, r3.Vector{X: 1})
	test.That(t, spatialmath.R3VectorAlmostEqual(tip, r3.Vector{X: 1, Y: 1}, 1e-9), test.ShouldBeTrue)

	test.That(t, j.SetPositions([]float64{4}), test.ShouldBeNil)
	test.That(t, j.WithinLimits(), test.ShouldBeFalse)

	// identity offsets add no transformation
	bare, err := NewRevoluteJoint("bare", mgl64.Ident4(), r3.Vector{Z: 1}, Unlimited)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(bare.Transformations()), test.ShouldEqual, 1)
}

func TestFixedJoint(t *testing.T) {
	offset := spatialmath.NewTransformFromPoint(r3.Vector{Z: 2}).Mul4(spatialmath.NewTransformFromRPY(0.1, 0, 0))
	j, err := NewFixedJoint("weld", offset)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, j.NumDofs(), test.ShouldEqual, 0)
	test.That(t, spatialmath.Mat4AlmostEqual(j.LocalTransform(), offset, 1e-12), test.ShouldBeTrue)

	_, err = NewFixedJoint("bad", mgl64.Scale3D(2, 2, 2))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLocalDerivativeNotOwned(t *testing.T) {
	j, err := NewPrismaticJoint("slide", mgl64.Ident4(), r3.Vector{X: 1}, Unlimited)
	test.That(t, err, test.ShouldBeNil)
	stranger := NewDOF("stranger", 0, Unlimited)
	_, err = j.LocalDerivative(stranger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "stranger")
	_, err = j.LocalDerivative(nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLocalDerivativeMatchesFiniteDifference(t *testing.T) {
	offset := spatialmath.NewTransformFromPoint(r3.Vector{X: 0.3, Y: -0.2, Z: 1}).Mul4(spatialmath.NewTransformFromRPY(0.4, -0.1, 0.9))
	free, err := NewFreeJoint("floating", offset)
	test.That(t, err, test.ShouldBeNil)
	ball, err := NewBallJoint("wrist", offset, Limit{-1, 1}, Limit{-1, 1}, Limit{-1, 1})
	test.That(t, err, test.ShouldBeNil)
	trans, err := NewTranslationalJoint("gantry", mgl64.Ident4())
	test.That(t, err, test.ShouldBeNil)
	hinge, err := NewRevoluteJoint("hinge", offset, r3.Vector{X: 1, Y: 1}, Unlimited)
	test.That(t, err, test.ShouldBeNil)

	//nolint:gosec
	rSeed := rand.New(rand.NewSource(3))
	for _, j := range []*Joint{free, ball, trans, hinge} {
		test.That(t, j.SetPositions(RandomPositions(j.Dofs(), rSeed)), test.ShouldBeNil)
		for _, dof := range j.Dofs() {
			analytic, err := j.LocalDerivative(dof)
			test.That(t, err, test.ShouldBeNil)
			numeric := numericalLocalDerivative(j, dof)
			test.That(t, spatialmath.Mat4AlmostEqual(analytic, numeric, 1e-6), test.ShouldBeTrue)
		}
	}
}

func TestJointLimitCount(t *testing.T) {
	_, err := NewBallJoint("wrist", mgl64.Ident4(), Limit{-1, 1})
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewFreeJoint("float", mgl64.Ident4(), Limit{-1, 1}, Limit{-1, 1})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestIsRotational(t *testing.T) {
	free, err := NewFreeJoint("floating", mgl64.Ident4())
	test.That(t, err, test.ShouldBeNil)
	for i, dof := range free.Dofs() {
		test.That(t, IsRotational(dof), test.ShouldEqual, i >= 3)
	}
	test.That(t, IsRotational(nil), test.ShouldBeFalse)
	test.That(t, IsRotational(NewDOF("loose", 0, Unlimited)), test.ShouldBeFalse)
}
