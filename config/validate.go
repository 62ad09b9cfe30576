package config

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Validate checks the whole description and returns every problem found.
func (cfg *SkeletonConfig) Validate() error {
	var err error
	if cfg.Name == "" {
		multierr.AppendInto(&err, errors.New("skeleton name is required"))
	}
	if len(cfg.Bodies) == 0 {
		multierr.AppendInto(&err, errors.New("skeleton needs at least one body"))
	}

	parents := map[string]string{}
	for i, body := range cfg.Bodies {
		if body.Name == "" {
			multierr.AppendInto(&err, errors.Errorf("body %d has no name", i))
			continue
		}
		if _, ok := parents[body.Name]; ok {
			multierr.AppendInto(&err, errors.Errorf("body %q is defined more than once", body.Name))
			continue
		}
		parents[body.Name] = body.Parent
	}
	jointNames := map[string]bool{}
	for _, body := range cfg.Bodies {
		if body.Name == "" {
			continue
		}
		if body.Parent != "" {
			if _, ok := parents[body.Parent]; !ok {
				multierr.AppendInto(&err, errors.Errorf("body %q has unknown parent %q", body.Name, body.Parent))
			}
		}
		jointName := body.JointName()
		if jointNames[jointName] {
			multierr.AppendInto(&err, errors.Errorf("joint %q is defined more than once", jointName))
		}
		jointNames[jointName] = true
		multierr.AppendInto(&err, errors.Wrapf(body.Joint.Validate(), "body %q", body.Name))
		if body.Primitive != nil {
			multierr.AppendInto(&err, errors.Wrapf(body.Primitive.Validate(), "body %q", body.Name))
		}
		if !finite(body.COM.X, body.COM.Y, body.COM.Z) {
			multierr.AppendInto(&err, errors.Errorf("body %q has a non finite center of mass", body.Name))
		}
	}
	multierr.AppendInto(&err, checkCycles(parents))
	return err
}

// checkCycles reports every body that is its own ancestor.
func checkCycles(parents map[string]string) error {
	var err error
	for name := range parents {
		seen := map[string]bool{name: true}
		for cur := parents[name]; cur != ""; cur = parents[cur] {
			if seen[cur] {
				multierr.AppendInto(&err, errors.Errorf("body %q is part of a parent cycle", name))
				break
			}
			seen[cur] = true
		}
	}
	return err
}

// JointName returns the name of the body's joint, defaulting to the body name.
func (body *BodyConfig) JointName() string {
	if body.Joint.Name != "" {
		return body.Joint.Name
	}
	return body.Name
}

// Validate checks the joint type, axis and limits.
func (jc *JointConfig) Validate() error {
	n := jointDofs(jc.Type)
	if n < 0 {
		return errors.Errorf("unsupported joint type %q", jc.Type)
	}
	var err error
	if jc.Type == JointRevolute || jc.Type == JointPrismatic {
		if jc.Axis == nil || jc.Axis.Vector().Norm() == 0 {
			multierr.AppendInto(&err, errors.Errorf("%s joint needs a non zero axis", jc.Type))
		}
	}
	if len(jc.Limits) != 0 && len(jc.Limits) != n {
		multierr.AppendInto(&err, errors.Errorf("%s joint has %d dofs but %d limits", jc.Type, n, len(jc.Limits)))
	}
	for i, l := range jc.Limits {
		if l.Min > l.Max {
			multierr.AppendInto(&err, errors.Errorf("limit %d has min %f above max %f", i, l.Min, l.Max))
		}
	}
	return err
}

// Validate checks the primitive type, mass and dimensions.
func (pc *PrimitiveConfig) Validate() error {
	var err error
	if pc.Mass < 0 {
		multierr.AppendInto(&err, errors.Errorf("primitive mass must not be negative, got %f", pc.Mass))
	}
	switch pc.Type {
	case PrimitiveBox, PrimitiveEllipsoid:
		if pc.Size.X <= 0 || pc.Size.Y <= 0 || pc.Size.Z <= 0 {
			multierr.AppendInto(&err, errors.Errorf("%s size must be positive", pc.Type))
		}
	case PrimitiveCylinder:
		if pc.Radius <= 0 || pc.Height <= 0 {
			multierr.AppendInto(&err, errors.New("cylinder radius and height must be positive"))
		}
	default:
		multierr.AppendInto(&err, errors.Errorf("unsupported primitive type %q", pc.Type))
	}
	return err
}
