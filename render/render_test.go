package render

import (
	"bytes"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestParsePlane(t *testing.T) {
	for _, p := range []Plane{PlaneXY, PlaneXZ, PlaneYZ} {
		parsed, err := ParsePlane(p.String())
		test.That(t, err, test.ShouldBeNil)
		test.That(t, parsed, test.ShouldEqual, p)
	}
	p, err := ParsePlane("XZ")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p, test.ShouldEqual, PlaneXZ)
	_, err = ParsePlane("zz")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRecorderStack(t *testing.T) {
	rec := NewRecorder()
	rec.PushMatrix()
	rec.Transform(mgl64.Translate3D(1, 0, 0))
	rec.PushMatrix()
	rec.Transform(mgl64.HomogRotate3DZ(math.Pi / 2))
	rec.DrawPoint(r3.Vector{X: 1})
	rec.PopMatrix()
	rec.DrawLine(r3.Vector{}, r3.Vector{Y: 2})
	rec.PopMatrix()
	// popping an empty stack leaves the identity in place
	rec.PopMatrix()
	rec.SetPenColor(color.Black)
	rec.DrawBox(r3.Vector{X: 1, Y: 1, Z: 1})

	test.That(t, rec.Ops(), test.ShouldResemble, []string{"point", "line", "box"})
	test.That(t, rec.MaxDepth, test.ShouldEqual, 2)
	test.That(t, rec.Depth(), test.ShouldEqual, 0)

	pt := rec.Calls[0].Points[0]
	test.That(t, pt.X, test.ShouldAlmostEqual, 1.)
	test.That(t, pt.Y, test.ShouldAlmostEqual, 1.)
	test.That(t, rec.Calls[1].Points, test.ShouldResemble, []r3.Vector{{X: 1}, {X: 1, Y: 2}})
	test.That(t, rec.Calls[2].World, test.ShouldResemble, mgl64.Ident4())
	test.That(t, rec.Calls[2].Color, test.ShouldResemble, color.Black)
}

func TestDepthColor(t *testing.T) {
	test.That(t, DepthColor(0), test.ShouldNotResemble, DepthColor(1))
	test.That(t, DepthColor(-3), test.ShouldResemble, DepthColor(0))
	_, _, _, a := DepthColor(5).RGBA()
	test.That(t, a, test.ShouldEqual, uint32(0xffff))
}

func TestImageRenderer(t *testing.T) {
	_, err := NewImageRenderer(0, 10, 1, PlaneXY)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewImageRenderer(10, 10, -1, PlaneXY)
	test.That(t, err, test.ShouldNotBeNil)

	ir, err := NewImageRenderer(100, 80, 10, PlaneXY)
	test.That(t, err, test.ShouldBeNil)
	ir.SetPenColor(color.Black)
	ir.PushMatrix()
	ir.Transform(mgl64.Translate3D(2, 0, 0))
	ir.DrawBox(r3.Vector{X: 1, Y: 1, Z: 1})
	ir.DrawEllipsoid(r3.Vector{X: 1, Y: 2, Z: 1})
	ir.DrawCylinder(0.5, 1)
	ir.DrawPoint(r3.Vector{})
	ir.PopMatrix()

	img := ir.Image()
	test.That(t, img.Bounds().Dx(), test.ShouldEqual, 100)
	test.That(t, img.Bounds().Dy(), test.ShouldEqual, 80)
	// the point at world (2, 0) lands 20 pixels right of the center
	r, g, b, _ := img.At(70, 40).RGBA()
	test.That(t, r+g+b, test.ShouldBeLessThan, uint32(3*0xffff))
	// far corners stay blank
	r, g, b, _ = img.At(1, 1).RGBA()
	test.That(t, r+g+b, test.ShouldEqual, uint32(3*0xffff))

	var buf bytes.Buffer
	test.That(t, ir.EncodePNG(&buf), test.ShouldBeNil)
	decoded, err := png.Decode(&buf)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, decoded.Bounds(), test.ShouldResemble, img.Bounds())
}

func TestNoop(t *testing.T) {
	var r Renderer = Noop{}
	r.PushMatrix()
	r.DrawBox(r3.Vector{X: 1})
	r.PopMatrix()
}
