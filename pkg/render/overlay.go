package render

import (
	"github.com/taigrr/scanline/pkg/math3d"
)

// Overlay draws world-space guide lines (axes, ground grid, light marker)
// on top of a rendered frame. Lines ignore depth.
type Overlay struct {
	camera *Camera
	r      *Renderer
}

// NewOverlay creates an overlay drawing into r through camera.
func NewOverlay(camera *Camera, r *Renderer) *Overlay {
	return &Overlay{camera: camera, r: r}
}

// DrawLine3D draws a world-space segment. Segments with an endpoint behind
// the eye are skipped.
func (o *Overlay) DrawLine3D(a, b math3d.Vec3, c Color) {
	vp := o.camera.ViewProjectionMatrix()
	pa, pb := vp.MulVec4(math3d.Point(a)), vp.MulVec4(math3d.Point(b))
	if pa.W <= 0 || pb.W <= 0 {
		return
	}
	sa, okA := o.r.ToScreen(pa.PerspectiveDivide(), math3d.Vec2{})
	sb, okB := o.r.ToScreen(pb.PerspectiveDivide(), math3d.Vec2{})
	if !okA || !okB {
		return
	}
	o.r.Frame.DrawLine(sa.X, sa.Y, sb.X, sb.Y, c)
}

// DrawAxes draws X, Y and Z in red, green and blue from the origin.
func (o *Overlay) DrawAxes(length float64) {
	var origin math3d.Vec3
	o.DrawLine3D(origin, math3d.V3(length, 0, 0), ColorRed)
	o.DrawLine3D(origin, math3d.V3(0, length, 0), ColorGreen)
	o.DrawLine3D(origin, math3d.V3(0, 0, length), ColorBlue)
}

// DrawGrid draws a size x size grid on the XZ plane at y=0.
func (o *Overlay) DrawGrid(size, step float64, c Color) {
	if step <= 0 {
		return
	}
	half := size / 2
	for x := -half; x <= half; x += step {
		o.DrawLine3D(math3d.V3(x, 0, -half), math3d.V3(x, 0, half), c)
	}
	for z := -half; z <= half; z += step {
		o.DrawLine3D(math3d.V3(-half, 0, z), math3d.V3(half, 0, z), c)
	}
}

// DrawPoint marks pos with a small 3D cross.
func (o *Overlay) DrawPoint(pos math3d.Vec3, size float64, c Color) {
	h := size / 2
	o.DrawLine3D(pos.Add(math3d.V3(-h, 0, 0)), pos.Add(math3d.V3(h, 0, 0)), c)
	o.DrawLine3D(pos.Add(math3d.V3(0, -h, 0)), pos.Add(math3d.V3(0, h, 0)), c)
	o.DrawLine3D(pos.Add(math3d.V3(0, 0, -h)), pos.Add(math3d.V3(0, 0, h)), c)
}
