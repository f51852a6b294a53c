package app

import (
	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

const (
	// Frequency 6 with damping 1 settles in about half a second without
	// overshoot.
	rigFrequency = 6.0
	rigDamping   = 1.0
)

// View is the part of the camera the keyboard drives.
type View struct {
	Eye    math3d.Vec3
	Center math3d.Vec3
	FOV    float64
}

func viewOf(c *render.Camera) View {
	return View{Eye: c.Eye, Center: c.Center, FOV: c.FOV}
}

// CameraRig eases the camera toward a target view with one spring per
// component.
type CameraRig struct {
	Target View
	Smooth bool

	current View
	vel     [7]float64
	spring  harmonica.Spring
	dt      float64
}

// NewCameraRig starts the rig at rest on the camera's current view.
func NewCameraRig(cam *render.Camera, smooth bool) *CameraRig {
	v := viewOf(cam)
	return &CameraRig{Target: v, Smooth: smooth, current: v}
}

// Current returns the view the camera was last moved to.
func (r *CameraRig) Current() View {
	return r.current
}

// Snap jumps to the target and stops all motion.
func (r *CameraRig) Snap() {
	r.current = r.Target
	r.vel = [7]float64{}
}

// Update advances the rig by dt seconds and applies the result to cam.
func (r *CameraRig) Update(cam *render.Camera, dt float64) {
	if !r.Smooth || dt <= 0 {
		r.Snap()
	} else {
		if dt != r.dt {
			r.spring = harmonica.NewSpring(dt, rigFrequency, rigDamping)
			r.dt = dt
		}
		pos := r.current.components()
		target := r.Target.components()
		for i := range pos {
			pos[i], r.vel[i] = r.spring.Update(pos[i], r.vel[i], target[i])
		}
		r.current = viewFromComponents(pos)
	}

	cam.LookAt(r.current.Eye, r.current.Center, cam.Up)
	cam.SetPerspective(r.current.FOV, cam.Aspect, cam.Near, cam.Far)
}

func (v View) components() [7]float64 {
	return [7]float64{v.Eye.X, v.Eye.Y, v.Eye.Z, v.Center.X, v.Center.Y, v.Center.Z, v.FOV}
}

func viewFromComponents(c [7]float64) View {
	return View{
		Eye:    math3d.V3(c[0], c[1], c[2]),
		Center: math3d.V3(c[3], c[4], c[5]),
		FOV:    c[6],
	}
}
