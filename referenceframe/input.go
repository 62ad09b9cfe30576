package referenceframe

import (
	"fmt"
	"math"
	"math/rand"
)

// Limit represents the limits of motion for a dof.
type Limit struct {
	Min float64
	Max float64
}

// Unlimited is the limit given to dofs that can move freely.
var Unlimited = Limit{Min: math.Inf(-1), Max: math.Inf(1)}

// Contains returns whether v lies within the limit, inclusive.
func (l Limit) Contains(v float64) bool {
	return v >= l.Min && v <= l.Max
}

// DOF is a generalized coordinate: a named scalar (an angle in radians or a displacement) owned by exactly one
// joint. Its index is assigned by the skeleton that registers the owning joint and is unique within that skeleton.
type DOF struct {
	name  string
	value float64
	limit Limit
	index int
	joint *Joint
}

// NewDOF creates an unregistered dof with the given starting value.
func NewDOF(name string, value float64, limit Limit) *DOF {
	return &DOF{name: name, value: value, limit: limit, index: -1}
}

// Name returns the name of the dof.
func (d *DOF) Name() string {
	return d.name
}

// Value returns the current value.
func (d *DOF) Value() float64 {
	return d.value
}

// SetValue sets the current value. Values outside the limit are accepted; see WithinLimits.
func (d *DOF) SetValue(v float64) {
	d.value = v
}

// Limit returns the range of motion.
func (d *DOF) Limit() Limit {
	return d.limit
}

// WithinLimits returns whether the current value respects the limit.
func (d *DOF) WithinLimits() bool {
	return d.limit.Contains(d.value)
}

// Index returns the skeleton-wide index of the dof, or -1 if it has not been registered.
func (d *DOF) Index() int {
	return d.index
}

// SetIndex is called by the owning skeleton when the dof is registered.
func (d *DOF) SetIndex(idx int) {
	d.index = idx
}

// Joint returns the joint owning this dof, nil until the dof is handed to NewJoint.
func (d *DOF) Joint() *Joint {
	return d.joint
}

func (d *DOF) String() string {
	return fmt.Sprintf("%s[%d]=%.5f", d.name, d.index, d.value)
}

// RandomPositions will produce a list of valid, in-bounds values for the given dofs.
func RandomPositions(dofs []*DOF, rSeed *rand.Rand) []float64 {
	if rSeed == nil {
		//nolint:gosec
		rSeed = rand.New(rand.NewSource(1))
	}
	pos := make([]float64, 0, len(dofs))
	for _, dof := range dofs {
		l, u := dof.limit.Min, dof.limit.Max

		// Default to [-pi,pi] as range if limits are infinite
		if math.IsInf(l, -1) {
			l = -math.Pi
		}
		if math.IsInf(u, 1) {
			u = math.Pi
		}

		jRange := math.Abs(u - l)
		pos = append(pos, rSeed.Float64()*jRange+l)
	}
	return pos
}
