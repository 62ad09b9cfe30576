package kinematics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats"
)

// DefaultStepSize is the perturbation used for central differences.
const DefaultStepSize = 1e-6

// NumericalWorldDerivative estimates the derivative of node's world transform with respect to the dof with
// skeleton index dofIdx by central differences. Every dof is restored and every transform recomputed before
// it returns; derivatives are left untouched. h must be positive and finite.
func NumericalWorldDerivative(s *Skeleton, node *BodyNode, dofIdx int, h float64) (mgl64.Mat4, error) {
	if err := checkStep(h); err != nil {
		return mgl64.Mat4{}, err
	}
	if err := s.checkNode(node); err != nil {
		return mgl64.Mat4{}, err
	}
	dof := s.dofs[dofIdx]
	orig := dof.Value()
	defer func() {
		dof.SetValue(orig)
		s.UpdateTransforms()
	}()

	dof.SetValue(orig + h)
	s.UpdateTransforms()
	plus := node.worldTransform
	dof.SetValue(orig - h)
	s.UpdateTransforms()
	minus := node.worldTransform
	return plus.Sub(minus).Mul(1 / (2 * h)), nil
}

func checkStep(h float64) error {
	if !(h > 0) || math.IsInf(h, 1) {
		return NewInvalidStepError(h)
	}
	return nil
}

// entrywiseGap is the infinity norm of a - b, NaN when any entry of either is NaN.
func entrywiseGap(a, b mgl64.Mat4) float64 {
	if floats.HasNaN(a[:]) || floats.HasNaN(b[:]) {
		return math.NaN()
	}
	return floats.Distance(a[:], b[:], math.Inf(1))
}

// DerivativeCheck is the largest entrywise gap between the analytic and numerical derivative of one node's
// world transform with respect to one dof.
type DerivativeCheck struct {
	Node  string
	Dof   string
	Error float64
}

// CheckDerivatives compares every cached world transform derivative of s against central differences with
// step h. The checks are ordered by node update order, then by dependency order.
func CheckDerivatives(s *Skeleton, h float64) ([]DerivativeCheck, error) {
	if !s.finalized {
		return nil, ErrSkeletonNotFinalized
	}
	if err := checkStep(h); err != nil {
		return nil, err
	}
	var checks []DerivativeCheck
	for _, node := range s.UpdateOrder() {
		for i, d := range node.dependentDofs {
			numeric, err := NumericalWorldDerivative(s, node, d, h)
			if err != nil {
				return nil, err
			}
			analytic := node.worldDerivs[i]
			checks = append(checks, DerivativeCheck{
				Node:  node.name,
				Dof:   s.dofs[d].Name(),
				Error: entrywiseGap(analytic, numeric),
			})
		}
	}
	return checks, nil
}

// MaxDerivativeError returns the largest error among checks, zero when there are none and NaN when any
// error is NaN.
func MaxDerivativeError(checks []DerivativeCheck) float64 {
	errs := make([]float64, len(checks))
	for i, c := range checks {
		errs[i] = c.Error
	}
	if len(errs) == 0 {
		return 0
	}
	if floats.HasNaN(errs) {
		return math.NaN()
	}
	return floats.Max(errs)
}
