package kinematics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/RomanBuckle/dart/render"
)

// Primitive is the shape attached to a body. It supplies the mass and the inertia tensor about the body's
// local center of mass, and can draw itself centered on the current renderer frame.
type Primitive interface {
	Mass() float64
	// InertiaTensor returns the inertia tensor in the body's local frame.
	InertiaTensor() mgl64.Mat3
	Draw(ri render.Renderer)
}

func checkPrimitive(kind string, mass float64, dims ...float64) error {
	if mass < 0 {
		return errors.Errorf("%s mass must not be negative, got %f", kind, mass)
	}
	for _, d := range dims {
		if d <= 0 {
			return errors.Errorf("%s dimensions must be positive, got %v", kind, dims)
		}
	}
	return nil
}

// Box is a solid cuboid with the given edge lengths.
type Box struct {
	size r3.Vector
	mass float64
}

// NewBox returns a solid box of uniform density.
func NewBox(size r3.Vector, mass float64) (*Box, error) {
	if err := checkPrimitive("box", mass, size.X, size.Y, size.Z); err != nil {
		return nil, err
	}
	return &Box{size: size, mass: mass}, nil
}

// Size returns the edge lengths of the box.
func (b *Box) Size() r3.Vector {
	return b.size
}

// Mass returns the mass of the box.
func (b *Box) Mass() float64 {
	return b.mass
}

// InertiaTensor returns the principal inertia of the box.
func (b *Box) InertiaTensor() mgl64.Mat3 {
	x2, y2, z2 := b.size.X*b.size.X, b.size.Y*b.size.Y, b.size.Z*b.size.Z
	return mgl64.Diag3(mgl64.Vec3{y2 + z2, x2 + z2, x2 + y2}.Mul(b.mass / 12))
}

// Draw draws the box.
func (b *Box) Draw(ri render.Renderer) {
	ri.DrawBox(b.size)
}

// Ellipsoid is a solid ellipsoid with the given diameters.
type Ellipsoid struct {
	size r3.Vector
	mass float64
}

// NewEllipsoid returns a solid ellipsoid of uniform density. size holds the diameters along each axis.
func NewEllipsoid(size r3.Vector, mass float64) (*Ellipsoid, error) {
	if err := checkPrimitive("ellipsoid", mass, size.X, size.Y, size.Z); err != nil {
		return nil, err
	}
	return &Ellipsoid{size: size, mass: mass}, nil
}

// Size returns the diameters of the ellipsoid.
func (e *Ellipsoid) Size() r3.Vector {
	return e.size
}

// Mass returns the mass of the ellipsoid.
func (e *Ellipsoid) Mass() float64 {
	return e.mass
}

// InertiaTensor returns the principal inertia of the ellipsoid.
func (e *Ellipsoid) InertiaTensor() mgl64.Mat3 {
	// m/5 (b^2 + c^2) with semi-axes, written with diameters
	x2, y2, z2 := e.size.X*e.size.X, e.size.Y*e.size.Y, e.size.Z*e.size.Z
	return mgl64.Diag3(mgl64.Vec3{y2 + z2, x2 + z2, x2 + y2}.Mul(e.mass / 20))
}

// Draw draws the ellipsoid.
func (e *Ellipsoid) Draw(ri render.Renderer) {
	ri.DrawEllipsoid(e.size)
}

// Cylinder is a solid cylinder about the local z axis.
type Cylinder struct {
	radius float64
	height float64
	mass   float64
}

// NewCylinder returns a solid cylinder of uniform density.
func NewCylinder(radius, height, mass float64) (*Cylinder, error) {
	if err := checkPrimitive("cylinder", mass, radius, height); err != nil {
		return nil, err
	}
	return &Cylinder{radius: radius, height: height, mass: mass}, nil
}

// Radius returns the radius of the cylinder.
func (c *Cylinder) Radius() float64 {
	return c.radius
}

// Height returns the height of the cylinder.
func (c *Cylinder) Height() float64 {
	return c.height
}

// Mass returns the mass of the cylinder.
func (c *Cylinder) Mass() float64 {
	return c.mass
}

// InertiaTensor returns the principal inertia of the cylinder.
func (c *Cylinder) InertiaTensor() mgl64.Mat3 {
	r2, h2 := c.radius*c.radius, c.height*c.height
	side := c.mass * (3*r2 + h2) / 12
	return mgl64.Diag3(mgl64.Vec3{side, side, c.mass * r2 / 2})
}

// Draw draws the cylinder.
func (c *Cylinder) Draw(ri render.Renderer) {
	ri.DrawCylinder(c.radius, c.height)
}
