// Package render contains the drawing interface bodies and markers are rendered through, along with a
// raster implementation on top of gg, a recording implementation and a no-op one.
package render

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"
)

// Renderer keeps a stack of transforms and draws primitives in the frame at the top of that stack.
type Renderer interface {
	// PushMatrix saves the current transform.
	PushMatrix()
	// PopMatrix restores the most recently saved transform.
	PopMatrix()
	// Transform post-multiplies the current transform by m.
	Transform(m mgl64.Mat4)
	SetPenColor(c color.Color)

	// DrawBox draws a box of the given edge lengths centered on the current origin.
	DrawBox(size r3.Vector)
	// DrawEllipsoid draws an ellipsoid of the given diameters centered on the current origin.
	DrawEllipsoid(size r3.Vector)
	// DrawCylinder draws a cylinder about the current z axis centered on the current origin.
	DrawCylinder(radius, height float64)
	DrawLine(from, to r3.Vector)
	DrawPoint(pt r3.Vector)
}

// DefaultColor is used for primitives when no depth color is requested.
var DefaultColor color.Color = color.RGBA{R: 128, G: 128, B: 128, A: 255}

// HandleColor is the default color of markers.
var HandleColor color.Color = color.RGBA{R: 230, G: 30, B: 30, A: 255}

// DepthColor returns the default color of a body at the given depth in its tree. Consecutive depths are
// spaced out in hue so neighbouring links stay distinguishable.
func DepthColor(depth int) color.Color {
	if depth < 0 {
		depth = 0
	}
	hue := float64((depth * 67) % 360)
	return colorful.Hsv(hue, 0.65, 0.85).Clamped()
}

// matrixStack is the transform stack shared by the renderers in this package.
type matrixStack struct {
	current mgl64.Mat4
	saved   []mgl64.Mat4
}

func newMatrixStack() matrixStack {
	return matrixStack{current: mgl64.Ident4()}
}

func (ms *matrixStack) push() {
	ms.saved = append(ms.saved, ms.current)
}

// pop is a no-op on an empty stack.
func (ms *matrixStack) pop() {
	if len(ms.saved) == 0 {
		return
	}
	ms.current = ms.saved[len(ms.saved)-1]
	ms.saved = ms.saved[:len(ms.saved)-1]
}

func (ms *matrixStack) apply(m mgl64.Mat4) {
	ms.current = ms.current.Mul4(m)
}

func (ms *matrixStack) toWorld(pt r3.Vector) r3.Vector {
	v := ms.current.Mul4x1(mgl64.Vec4{pt.X, pt.Y, pt.Z, 1})
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

// Noop discards everything drawn through it.
type Noop struct{}

// PushMatrix does nothing.
func (Noop) PushMatrix() {}

// PopMatrix does nothing.
func (Noop) PopMatrix() {}

// Transform does nothing.
func (Noop) Transform(mgl64.Mat4) {}

// SetPenColor does nothing.
func (Noop) SetPenColor(color.Color) {}

// DrawBox does nothing.
func (Noop) DrawBox(r3.Vector) {}

// DrawEllipsoid does nothing.
func (Noop) DrawEllipsoid(r3.Vector) {}

// DrawCylinder does nothing.
func (Noop) DrawCylinder(float64, float64) {}

// DrawLine does nothing.
func (Noop) DrawLine(r3.Vector, r3.Vector) {}

// DrawPoint does nothing.
func (Noop) DrawPoint(r3.Vector) {}
