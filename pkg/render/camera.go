package render

import (
	"github.com/taigrr/scanline/pkg/math3d"
)

// Camera is a look-at camera with a perspective projection. Matrices are
// recomputed lazily after a setter marks them dirty; code that edits the
// exported fields directly must call Invalidate.
type Camera struct {
	Eye    math3d.Vec3
	Center math3d.Vec3
	Up     math3d.Vec3

	FOV    float64 // Vertical field of view in degrees
	Aspect float64 // Width / Height
	Near   float64
	Far    float64

	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
}

// NewCamera returns a camera 20 units in front of (0, 10, 0) looking at
// it, with a 60 degree field of view.
func NewCamera(aspect float64) *Camera {
	c := &Camera{}
	c.LookAt(math3d.V3(0, 10, 20), math3d.V3(0, 10, 0), math3d.V3(0, 1, 0))
	c.SetPerspective(60, aspect, 0.1, 10000)
	return c
}

// LookAt places the camera.
func (c *Camera) LookAt(eye, center, up math3d.Vec3) {
	c.Eye, c.Center, c.Up = eye, center, up
	c.viewDirty = true
}

// SetPerspective sets the projection. fov is in degrees.
func (c *Camera) SetPerspective(fov, aspect, near, far float64) {
	c.FOV, c.Aspect, c.Near, c.Far = fov, aspect, near, far
	c.projDirty = true
}

// SetAspect changes only the aspect ratio.
func (c *Camera) SetAspect(aspect float64) {
	c.Aspect = aspect
	c.projDirty = true
}

// Invalidate forces both matrices to be rebuilt on next use.
func (c *Camera) Invalidate() {
	c.viewDirty = true
	c.projDirty = true
}

// ViewMatrix returns the world to view transform.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = math3d.LookAt(c.Eye, c.Center, c.Up)
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the view to clip transform.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(math3d.Radians(c.FOV), c.Aspect, c.Near, c.Far)
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns projection * view.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.viewDirty || c.projDirty {
		c.viewProjMatrix = c.ProjectionMatrix().Mul(c.ViewMatrix())
		c.viewDirty, c.projDirty = false, false
	}
	return c.viewProjMatrix
}

// ProjectVector maps a world position to normalized device coordinates.
// Points behind the eye are divided by their negative w like any other.
func (c *Camera) ProjectVector(world math3d.Vec3) math3d.Vec3 {
	return c.ViewProjectionMatrix().MulVec3(world)
}

// Frustum returns the current view volume.
func (c *Camera) Frustum() Frustum {
	return NewFrustumFromMatrix(c.ViewProjectionMatrix())
}
