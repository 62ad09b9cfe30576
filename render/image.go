package render

import (
	"image"
	"image/color"
	"io"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Plane selects which two world axes an ImageRenderer projects onto.
type Plane int

const (
	// PlaneXY looks down the world z axis.
	PlaneXY Plane = iota
	// PlaneXZ looks along the world y axis.
	PlaneXZ
	// PlaneYZ looks along the world x axis.
	PlaneYZ
)

// ParsePlane parses "xy", "xz" or "yz", case-insensitively.
func ParsePlane(s string) (Plane, error) {
	switch strings.ToLower(s) {
	case "xy":
		return PlaneXY, nil
	case "xz":
		return PlaneXZ, nil
	case "yz":
		return PlaneYZ, nil
	}
	return PlaneXY, errors.Errorf("unknown projection plane %q, expected xy, xz or yz", s)
}

func (p Plane) String() string {
	switch p {
	case PlaneXY:
		return "xy"
	case PlaneXZ:
		return "xz"
	case PlaneYZ:
		return "yz"
	}
	return "unknown"
}

const curveSegments = 32

// ImageRenderer draws wireframes with an orthographic projection into an in-memory image.
type ImageRenderer struct {
	dc     *gg.Context
	stack  matrixStack
	plane  Plane
	scale  float64
	width  int
	height int
}

// NewImageRenderer returns a renderer for a width by height image. scale is the number of pixels per world
// unit, and the world origin is drawn at the center of the image.
func NewImageRenderer(width, height int, scale float64, plane Plane) (*ImageRenderer, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("image size must be positive, got %dx%d", width, height)
	}
	if scale <= 0 {
		return nil, errors.Errorf("scale must be positive, got %f", scale)
	}
	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetLineWidth(1.5)
	dc.SetColor(DefaultColor)
	return &ImageRenderer{
		dc:     dc,
		stack:  newMatrixStack(),
		plane:  plane,
		scale:  scale,
		width:  width,
		height: height,
	}, nil
}

// project maps a point in the current frame to pixel coordinates. Image y grows downward.
func (ir *ImageRenderer) project(pt r3.Vector) (float64, float64) {
	w := ir.stack.toWorld(pt)
	var u, v float64
	switch ir.plane {
	case PlaneXZ:
		u, v = w.X, w.Z
	case PlaneYZ:
		u, v = w.Y, w.Z
	default:
		u, v = w.X, w.Y
	}
	return float64(ir.width)/2 + u*ir.scale, float64(ir.height)/2 - v*ir.scale
}

func (ir *ImageRenderer) polyline(pts []r3.Vector, closed bool) {
	if len(pts) == 0 {
		return
	}
	x, y := ir.project(pts[0])
	ir.dc.MoveTo(x, y)
	for _, pt := range pts[1:] {
		x, y = ir.project(pt)
		ir.dc.LineTo(x, y)
	}
	if closed {
		ir.dc.ClosePath()
	}
	ir.dc.Stroke()
}

// PushMatrix saves the current transform.
func (ir *ImageRenderer) PushMatrix() {
	ir.stack.push()
}

// PopMatrix restores the most recently saved transform.
func (ir *ImageRenderer) PopMatrix() {
	ir.stack.pop()
}

// Transform post-multiplies the current transform by m.
func (ir *ImageRenderer) Transform(m mgl64.Mat4) {
	ir.stack.apply(m)
}

// SetPenColor sets the stroke color of everything drawn next.
func (ir *ImageRenderer) SetPenColor(c color.Color) {
	ir.dc.SetColor(c)
}

// DrawBox draws the twelve edges of a box.
func (ir *ImageRenderer) DrawBox(size r3.Vector) {
	h := size.Mul(0.5)
	corner := func(i int) r3.Vector {
		c := r3.Vector{X: -h.X, Y: -h.Y, Z: -h.Z}
		if i&1 != 0 {
			c.X = h.X
		}
		if i&2 != 0 {
			c.Y = h.Y
		}
		if i&4 != 0 {
			c.Z = h.Z
		}
		return c
	}
	for i := 0; i < 8; i++ {
		for _, bit := range []int{1, 2, 4} {
			if i&bit == 0 {
				ir.DrawLine(corner(i), corner(i|bit))
			}
		}
	}
}

// DrawEllipsoid draws the three principal sections of an ellipsoid.
func (ir *ImageRenderer) DrawEllipsoid(size r3.Vector) {
	h := size.Mul(0.5)
	xy := make([]r3.Vector, curveSegments)
	xz := make([]r3.Vector, curveSegments)
	yz := make([]r3.Vector, curveSegments)
	for i := range xy {
		s, c := math.Sincos(2 * math.Pi * float64(i) / curveSegments)
		xy[i] = r3.Vector{X: h.X * c, Y: h.Y * s}
		xz[i] = r3.Vector{X: h.X * c, Z: h.Z * s}
		yz[i] = r3.Vector{Y: h.Y * c, Z: h.Z * s}
	}
	ir.polyline(xy, true)
	ir.polyline(xz, true)
	ir.polyline(yz, true)
}

// DrawCylinder draws both caps of a cylinder and four of its rulings.
func (ir *ImageRenderer) DrawCylinder(radius, height float64) {
	top := make([]r3.Vector, curveSegments)
	bottom := make([]r3.Vector, curveSegments)
	for i := range top {
		s, c := math.Sincos(2 * math.Pi * float64(i) / curveSegments)
		top[i] = r3.Vector{X: radius * c, Y: radius * s, Z: height / 2}
		bottom[i] = r3.Vector{X: radius * c, Y: radius * s, Z: -height / 2}
	}
	ir.polyline(top, true)
	ir.polyline(bottom, true)
	for i := 0; i < curveSegments; i += curveSegments / 4 {
		ir.DrawLine(bottom[i], top[i])
	}
}

// DrawLine draws a segment between two points of the current frame.
func (ir *ImageRenderer) DrawLine(from, to r3.Vector) {
	x1, y1 := ir.project(from)
	x2, y2 := ir.project(to)
	ir.dc.DrawLine(x1, y1, x2, y2)
	ir.dc.Stroke()
}

// DrawPoint draws a filled dot at a point of the current frame.
func (ir *ImageRenderer) DrawPoint(pt r3.Vector) {
	x, y := ir.project(pt)
	ir.dc.DrawPoint(x, y, 3)
	ir.dc.Fill()
}

// Image returns the image drawn so far.
func (ir *ImageRenderer) Image() image.Image {
	return ir.dc.Image()
}

// EncodePNG writes the image drawn so far as a PNG.
func (ir *ImageRenderer) EncodePNG(w io.Writer) error {
	return errors.Wrap(ir.dc.EncodePNG(w), "failed to encode png")
}

// SavePNG writes the image drawn so far to path.
func (ir *ImageRenderer) SavePNG(path string) error {
	return errors.Wrapf(ir.dc.SavePNG(path), "failed to save %s", path)
}
