package render

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// Call is one drawing operation seen by a Recorder.
type Call struct {
	Op string
	// World is the transform at the top of the stack when the call was made.
	World mgl64.Mat4
	Color color.Color
	// Points holds the arguments of the call, in world coordinates for DrawLine and DrawPoint and as given
	// otherwise.
	Points []r3.Vector
}

// Recorder keeps every primitive drawn through it. It is used to inspect what a tree draws without
// rasterizing anything.
type Recorder struct {
	Calls []Call
	stack matrixStack
	color color.Color
	// MaxDepth is the deepest the transform stack has been.
	MaxDepth int
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{stack: newMatrixStack(), color: DefaultColor}
}

func (r *Recorder) record(op string, pts ...r3.Vector) {
	r.Calls = append(r.Calls, Call{Op: op, World: r.stack.current, Color: r.color, Points: pts})
}

// PushMatrix saves the current transform.
func (r *Recorder) PushMatrix() {
	r.stack.push()
	if len(r.stack.saved) > r.MaxDepth {
		r.MaxDepth = len(r.stack.saved)
	}
}

// PopMatrix restores the most recently saved transform.
func (r *Recorder) PopMatrix() {
	r.stack.pop()
}

// Depth returns the number of saved transforms.
func (r *Recorder) Depth() int {
	return len(r.stack.saved)
}

// Transform post-multiplies the current transform by m.
func (r *Recorder) Transform(m mgl64.Mat4) {
	r.stack.apply(m)
}

// SetPenColor sets the color recorded with following calls.
func (r *Recorder) SetPenColor(c color.Color) {
	r.color = c
}

// DrawBox records a box.
func (r *Recorder) DrawBox(size r3.Vector) {
	r.record("box", size)
}

// DrawEllipsoid records an ellipsoid.
func (r *Recorder) DrawEllipsoid(size r3.Vector) {
	r.record("ellipsoid", size)
}

// DrawCylinder records a cylinder.
func (r *Recorder) DrawCylinder(radius, height float64) {
	r.record("cylinder", r3.Vector{X: radius, Z: height})
}

// DrawLine records a segment.
func (r *Recorder) DrawLine(from, to r3.Vector) {
	r.record("line", r.stack.toWorld(from), r.stack.toWorld(to))
}

// DrawPoint records a point.
func (r *Recorder) DrawPoint(pt r3.Vector) {
	r.record("point", r.stack.toWorld(pt))
}

// Ops returns the operation names recorded so far, in order.
func (r *Recorder) Ops() []string {
	ops := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		ops[i] = c.Op
	}
	return ops
}
