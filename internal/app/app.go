// Package app steps the viewer one frame at a time: read input, update
// the camera and instances, then render.
package app

import (
	"math/rand/v2"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

const (
	moveSpeed    = 5.0  // World units per second
	fovSpeed     = 5.0  // Degrees per second
	spinSpeed    = 1.0  // Radians per second while Space is held
	centerLimitY = 20.0 // Look-at target bounds
	centerLimitX = 40.0
	spacing      = 10.0 // Distance between added instances
)

// Options configures a new App.
type Options struct {
	Width, Height int
	Mode          render.Mode
	Texture       *render.Image
	NormalMap     *render.Image
	Background    render.Color
	Fill          render.FillOptions
	Filter        render.FilterMode
	Smooth        bool
	Material      render.Material // Material of the first instance
	Seed          uint64          // Seed for the materials of added instances
}

// DefaultOptions returns an 800x600 textured view with the default
// material.
func DefaultOptions() Options {
	return Options{
		Width:      800,
		Height:     600,
		Mode:       render.ModeTextured,
		Background: render.ColorBackground,
		Fill:       render.DefaultFillOptions(),
		Smooth:     true,
		Material:   render.DefaultMaterial(),
		Seed:       1,
	}
}

// App owns the renderer and the scene.
type App struct {
	Renderer  *render.Renderer
	Context   *render.RenderContext
	Mesh      render.TriangleSource
	Instances []render.Instance
	Rig       *CameraRig

	overlay     *render.Overlay
	showOverlay bool
	rng         *rand.Rand
	running     bool
	stats       render.FrameStats
	present     *render.Image
}

// New builds an app drawing mesh with a single instance at the origin.
func New(mesh render.TriangleSource, opts Options) *App {
	r := render.NewRenderer(opts.Width, opts.Height)
	cam := render.NewCamera(aspect(opts.Width, opts.Height))

	ctx := render.NewRenderContext(cam)
	ctx.Mode = opts.Mode
	ctx.Texture = opts.Texture
	ctx.NormalMap = opts.NormalMap
	ctx.Background = opts.Background
	ctx.Fill = opts.Fill
	ctx.Filter = opts.Filter

	inst := render.NewInstance(opts.Material)
	return &App{
		Renderer:  r,
		Context:   ctx,
		Mesh:      mesh,
		Instances: []render.Instance{inst},
		Rig:       NewCameraRig(cam, opts.Smooth),
		overlay:   render.NewOverlay(cam, r),
		rng:       rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		running:   true,
	}
}

func aspect(width, height int) float64 {
	if height <= 0 {
		return 1
	}
	return float64(width) / float64(height)
}

// Running reports whether the app has not been asked to quit.
func (a *App) Running() bool {
	return a.running
}

// Quit stops the app after the current frame.
func (a *App) Quit() {
	a.running = false
}

// Camera returns the camera frames are rendered through.
func (a *App) Camera() *render.Camera {
	return a.Context.Camera
}

// Mode returns the current drawing mode.
func (a *App) Mode() render.Mode {
	return a.Context.Mode
}

// Stats returns the counters of the last rendered frame.
func (a *App) Stats() render.FrameStats {
	return a.stats
}

// Resize changes the frame size and the camera aspect ratio.
func (a *App) Resize(width, height int) {
	a.Renderer.Resize(width, height)
	a.Camera().SetAspect(aspect(width, height))
}

// Step runs one frame: input, update, render. A stopped app does nothing.
func (a *App) Step(dt float64, in Input) render.FrameStats {
	if !a.running {
		return a.stats
	}
	if in == nil {
		in = NoInput{}
	}
	a.handleInput(dt, in)
	a.Rig.Update(a.Camera(), dt)
	a.stats = a.Renderer.RenderFrame(a.Context, a.Mesh, a.Instances)
	if a.showOverlay {
		a.overlay.DrawGrid(40, 5, render.ColorGray)
		a.overlay.DrawAxes(5)
		a.overlay.DrawPoint(a.Context.Light.Position, 2, render.ColorYellow)
	}
	return a.stats
}

func (a *App) handleInput(dt float64, in Input) {
	t := &a.Rig.Target
	step := moveSpeed * dt

	if in.Pressed(KeyLeft) {
		t.Eye.X -= step
	}
	if in.Pressed(KeyRight) {
		t.Eye.X += step
	}
	if in.Pressed(KeyUp) {
		t.Eye.Y -= step
	}
	if in.Pressed(KeyDown) {
		t.Eye.Y += step
	}
	if in.Pressed(KeyW) && t.Center.Y > -centerLimitY {
		t.Center.Y -= step
	}
	if in.Pressed(KeyS) && t.Center.Y < centerLimitY {
		t.Center.Y += step
	}
	if in.Pressed(KeyA) && t.Center.X < centerLimitX {
		t.Center.X += step
	}
	if in.Pressed(KeyD) && t.Center.X > -centerLimitX {
		t.Center.X -= step
	}
	if in.Pressed(KeyF) {
		t.FOV += fovSpeed * dt
	}
	if in.Pressed(KeyG) {
		t.FOV -= fovSpeed * dt
	}

	for k, m := range map[Key]render.Mode{
		Key1: render.ModeWireframe,
		Key2: render.ModeBarycentric,
		Key3: render.ModeTextured,
		Key4: render.ModePhong,
	} {
		if in.JustPressed(k) {
			a.Context.Mode = m
		}
	}

	if in.Pressed(KeySpace) {
		spin := math3d.RotateY(spinSpeed * dt)
		for i := range a.Instances {
			a.Instances[i].Model = a.Instances[i].Model.Mul(spin)
		}
	}
	if in.JustPressed(KeyM) {
		a.AddInstance()
	}
	if in.JustPressed(KeyN) {
		a.RemoveInstance()
	}
	if in.JustPressed(KeyO) {
		a.showOverlay = !a.showOverlay
	}
	if in.JustPressed(KeyEscape) {
		a.Quit()
	}
}

// AddInstance places another copy of the mesh behind the others, on
// alternating sides, with a random material.
func (a *App) AddInstance() {
	n := float64(len(a.Instances))
	side := 1.0
	if len(a.Instances)%2 == 1 {
		side = -1
	}
	inst := render.NewInstance(render.RandomMaterial(a.rng))
	inst.Model = math3d.Translate(math3d.V3(side*n*spacing, 0, -n*spacing))
	a.Instances = append(a.Instances, inst)
	render.Logger().Debug("added instance", "count", len(a.Instances))
}

// RemoveInstance drops the last instance. The first one is never removed.
func (a *App) RemoveInstance() {
	if len(a.Instances) > 1 {
		a.Instances = a.Instances[:len(a.Instances)-1]
	}
}

// Present returns the last frame turned so that framebuffer row 0 is at
// the bottom, ready for top-down display. The returned image is reused
// by the next call.
func (a *App) Present() *render.Image {
	src := a.Renderer.Frame
	if a.present == nil {
		a.present = render.NewImage(src.Width, src.Height)
	}
	if a.present.Width != src.Width || a.present.Height != src.Height {
		a.present.Resize(src.Width, src.Height)
	}
	copy(a.present.Pixels, src.Pixels)
	a.present.FlipY()
	return a.present
}
