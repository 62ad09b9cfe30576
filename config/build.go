package config

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/RomanBuckle/dart/kinematics"
	"github.com/RomanBuckle/dart/logging"
	"github.com/RomanBuckle/dart/referenceframe"
	"github.com/RomanBuckle/dart/spatialmath"
	"github.com/RomanBuckle/dart/utils"
)

// Build validates the description and turns it into a finalized skeleton with every dof at zero.
func (cfg *SkeletonConfig) Build(logger logging.Logger) (*kinematics.Skeleton, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid skeleton %q", cfg.Name)
	}
	skel := kinematics.NewSkeleton(cfg.Name, logger)
	nodes := map[string]*kinematics.BodyNode{}
	for _, body := range cfg.orderedBodies() {
		node := kinematics.NewBodyNode(body.Name)
		node.SetLocalCOM(body.COM.Vector())
		if body.Primitive != nil {
			prim, err := body.Primitive.build()
			if err != nil {
				return nil, errors.Wrapf(err, "body %q", body.Name)
			}
			node.SetPrimitive(prim)
		}
		for _, m := range body.Markers {
			node.AddMarker(kinematics.NewMarker(m.Name, m.Position.Vector()))
		}
		joint, err := body.Joint.build(body.JointName())
		if err != nil {
			return nil, errors.Wrapf(err, "body %q", body.Name)
		}
		if err := skel.AddBodyNode(node, nodes[body.Parent], joint); err != nil {
			return nil, err
		}
		nodes[body.Name] = node
	}
	if err := skel.Finalize(); err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Infow("built skeleton", "name", cfg.Name, "bodies", skel.NumNodes(), "dofs", skel.NumDofs())
	}
	return skel, nil
}

// orderedBodies returns the bodies with every parent ahead of its children, keeping the listed order among
// bodies that are ready at the same time. The description must be valid.
func (cfg *SkeletonConfig) orderedBodies() []BodyConfig {
	placed := map[string]bool{"": true}
	ordered := make([]BodyConfig, 0, len(cfg.Bodies))
	for len(ordered) < len(cfg.Bodies) {
		progress := false
		for _, body := range cfg.Bodies {
			if placed[body.Name] || !placed[body.Parent] {
				continue
			}
			placed[body.Name] = true
			ordered = append(ordered, body)
			progress = true
		}
		if !progress {
			break
		}
	}
	return ordered
}

// Transform returns the rigid transform of the offset.
func (oc *OffsetConfig) Transform() mgl64.Mat4 {
	if oc == nil {
		return mgl64.Ident4()
	}
	rot := spatialmath.NewTransformFromRPY(
		utils.DegToRad(oc.Orientation.Roll),
		utils.DegToRad(oc.Orientation.Pitch),
		utils.DegToRad(oc.Orientation.Yaw),
	)
	return spatialmath.NewTransformFromPoint(oc.Translation.Vector()).Mul4(rot)
}

func (jc *JointConfig) limits() []referenceframe.Limit {
	lims := make([]referenceframe.Limit, len(jc.Limits))
	for i, l := range jc.Limits {
		lims[i] = referenceframe.Limit{Min: l.Min, Max: l.Max}
		if rotationalDof(jc.Type, i) {
			lims[i] = referenceframe.Limit{Min: utils.DegToRad(l.Min), Max: utils.DegToRad(l.Max)}
		}
	}
	return lims
}

func (jc *JointConfig) build(name string) (*referenceframe.Joint, error) {
	offset := jc.Offset.Transform()
	lims := jc.limits()
	single := func() referenceframe.Limit {
		if len(lims) == 0 {
			return referenceframe.Unlimited
		}
		return lims[0]
	}
	switch jc.Type {
	case JointRevolute:
		return referenceframe.NewRevoluteJoint(name, offset, jc.Axis.Vector(), single())
	case JointPrismatic:
		return referenceframe.NewPrismaticJoint(name, offset, jc.Axis.Vector(), single())
	case JointFixed:
		return referenceframe.NewFixedJoint(name, offset)
	case JointBall:
		return referenceframe.NewBallJoint(name, offset, lims...)
	case JointTranslational:
		return referenceframe.NewTranslationalJoint(name, offset, lims...)
	case JointFree:
		return referenceframe.NewFreeJoint(name, offset, lims...)
	}
	return nil, errors.Errorf("unsupported joint type %q", jc.Type)
}

func (pc *PrimitiveConfig) build() (kinematics.Primitive, error) {
	switch pc.Type {
	case PrimitiveBox:
		return kinematics.NewBox(pc.Size.Vector(), pc.Mass)
	case PrimitiveEllipsoid:
		return kinematics.NewEllipsoid(pc.Size.Vector(), pc.Mass)
	case PrimitiveCylinder:
		return kinematics.NewCylinder(pc.Radius, pc.Height, pc.Mass)
	}
	return nil, errors.Errorf("unsupported primitive type %q", pc.Type)
}
