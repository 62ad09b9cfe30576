// Package config describes skeletons in JSON or YAML and builds them into kinematic trees.
package config

import (
	"math"

	"github.com/golang/geo/r3"
)

// Joint types.
const (
	JointRevolute      = "revolute"
	JointPrismatic     = "prismatic"
	JointFixed         = "fixed"
	JointBall          = "ball"
	JointTranslational = "translational"
	JointFree          = "free"
)

// Primitive types.
const (
	PrimitiveBox       = "box"
	PrimitiveEllipsoid = "ellipsoid"
	PrimitiveCylinder  = "cylinder"
)

// SkeletonConfig describes a whole skeleton. Bodies may be listed in any order; a body without a parent is
// attached to the world.
type SkeletonConfig struct {
	Name   string       `json:"name" yaml:"name" jsonschema:"description=name of the skeleton"`
	Bodies []BodyConfig `json:"bodies" yaml:"bodies" jsonschema:"minItems=1"`
}

// BodyConfig describes one body and the joint attaching it to its parent.
type BodyConfig struct {
	Name      string           `json:"name" yaml:"name"`
	Parent    string           `json:"parent,omitempty" yaml:"parent,omitempty" jsonschema:"description=parent body or empty for the world"`
	Joint     JointConfig      `json:"joint" yaml:"joint"`
	Primitive *PrimitiveConfig `json:"primitive,omitempty" yaml:"primitive,omitempty"`
	COM       Translation      `json:"com,omitempty" yaml:"com,omitempty" jsonschema:"description=center of mass in the body frame"`
	Markers   []MarkerConfig   `json:"markers,omitempty" yaml:"markers,omitempty"`
}

// Translation is a point or a displacement.
type Translation struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Vector returns the translation as a vector.
func (t Translation) Vector() r3.Vector {
	return r3.Vector{X: t.X, Y: t.Y, Z: t.Z}
}

// Orientation is a roll, pitch, yaw rotation in degrees, applied about x, then y, then z.
type Orientation struct {
	Roll  float64 `json:"roll" yaml:"roll"`
	Pitch float64 `json:"pitch" yaml:"pitch"`
	Yaw   float64 `json:"yaw" yaml:"yaw"`
}

// OffsetConfig is the fixed placement of a joint in its parent's frame, applied before the joint moves.
type OffsetConfig struct {
	Translation Translation `json:"translation" yaml:"translation"`
	Orientation Orientation `json:"orientation" yaml:"orientation"`
}

// LimitConfig bounds one dof. Rotational limits are in degrees.
type LimitConfig struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// JointConfig describes the joint between a body and its parent. Limits are either omitted or given for every
// dof of the joint.
type JointConfig struct {
	Name   string        `json:"name,omitempty" yaml:"name,omitempty" jsonschema:"description=defaults to the body name"`
	Type   string        `json:"type" yaml:"type" jsonschema:"enum=revolute,enum=prismatic,enum=fixed,enum=ball,enum=translational,enum=free"`
	Axis   *Translation  `json:"axis,omitempty" yaml:"axis,omitempty" jsonschema:"description=required for revolute and prismatic joints"`
	Offset *OffsetConfig `json:"offset,omitempty" yaml:"offset,omitempty"`
	Limits []LimitConfig `json:"limits,omitempty" yaml:"limits,omitempty"`
}

// PrimitiveConfig describes the shape of a body. Box and ellipsoid use Size, cylinder uses Radius and Height.
type PrimitiveConfig struct {
	Type   string      `json:"type" yaml:"type" jsonschema:"enum=box,enum=ellipsoid,enum=cylinder"`
	Mass   float64     `json:"mass" yaml:"mass" jsonschema:"minimum=0"`
	Size   Translation `json:"size,omitempty" yaml:"size,omitempty"`
	Radius float64     `json:"radius,omitempty" yaml:"radius,omitempty"`
	Height float64     `json:"height,omitempty" yaml:"height,omitempty"`
}

// MarkerConfig is a named point fixed in a body.
type MarkerConfig struct {
	Name     string      `json:"name" yaml:"name"`
	Position Translation `json:"position" yaml:"position"`
}

// jointDofs returns the number of dofs of a joint type, or -1 for an unknown type.
func jointDofs(jointType string) int {
	switch jointType {
	case JointFixed:
		return 0
	case JointRevolute, JointPrismatic:
		return 1
	case JointBall, JointTranslational:
		return 3
	case JointFree:
		return 6
	}
	return -1
}

// rotationalDof returns whether the i-th dof of a joint type is an angle.
func rotationalDof(jointType string, i int) bool {
	switch jointType {
	case JointRevolute, JointBall:
		return true
	case JointFree:
		return i >= 3
	}
	return false
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
