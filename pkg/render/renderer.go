package render

import (
	"math"

	"github.com/taigrr/scanline/pkg/math3d"
)

// maxScreenCoord bounds projected vertices. Triangles reaching past it
// (typically vertices at or behind the eye plane) are rejected instead of
// traced.
const maxScreenCoord = 1 << 16

// TriangleSource supplies triangles as consecutive vertex triples with a
// texture coordinate per vertex.
type TriangleSource interface {
	TriangleCount() int
	Triangle(i int) (pos [3]math3d.Vec3, uv [3]math3d.Vec2)
	GetBounds() (min, max math3d.Vec3)
}

// Instance places a mesh in the world with its own material.
type Instance struct {
	Model    math3d.Mat4
	Material Material
}

// NewInstance returns an untransformed instance.
func NewInstance(m Material) Instance {
	return Instance{Model: math3d.Identity(), Material: m}
}

// RenderContext is everything a frame needs besides the target buffers.
type RenderContext struct {
	Camera     *Camera
	Light      Light
	Texture    *Image // Color texture for the textured and lit modes
	NormalMap  *Image // Normal texture for the lit mode
	Mode       Mode
	Background Color
	Fill       FillOptions
	Filter     FilterMode
	Cull       bool // Skip instances whose bounds miss the view volume
}

// NewRenderContext returns a context with the default light, background
// and fill options in textured mode.
func NewRenderContext(cam *Camera) *RenderContext {
	return &RenderContext{
		Camera:     cam,
		Light:      DefaultLight(),
		Mode:       ModeTextured,
		Background: ColorBackground,
		Fill:       DefaultFillOptions(),
		Cull:       true,
	}
}

// CullingStats counts instances tested against the view volume.
type CullingStats struct {
	Tested int
	Culled int
	Drawn  int
}

// FrameStats summarizes one frame.
type FrameStats struct {
	Triangles  int // Triangles submitted
	Degenerate int // Zero-area triangles skipped
	Rejected   int // Triangles projected too far off screen
	Pixels     int // Fragments written
	Culling    CullingStats
}

// Renderer owns the color and depth buffers and the span table, and draws
// meshes into them.
type Renderer struct {
	Frame *Image
	Depth *FloatImage

	spans SpanTable
	stats FrameStats
}

// NewRenderer allocates buffers of the given size.
func NewRenderer(width, height int) *Renderer {
	return &Renderer{
		Frame: NewImage(width, height),
		Depth: NewFloatImage(width, height),
	}
}

// Resize changes both buffers, keeping their top-left content.
func (r *Renderer) Resize(width, height int) {
	r.Frame.Resize(width, height)
	r.Depth.Resize(width, height)
}

// Stats returns the counters for the frame in progress.
func (r *Renderer) Stats() FrameStats {
	return r.stats
}

// BeginFrame clears color to bg, depth to FarDepth, and the counters.
func (r *Renderer) BeginFrame(bg Color) {
	r.Frame.Fill(bg)
	r.Depth.Clear()
	r.stats = FrameStats{}
}

// ToScreen maps normalized device coordinates to pixels. +Y in NDC is
// +Y on screen. The half extents are whole pixels and the result is
// truncated toward zero.
func (r *Renderer) ToScreen(ndc math3d.Vec3, uv math3d.Vec2) (ScreenVertex, bool) {
	hw, hh := float64(r.Frame.Width/2), float64(r.Frame.Height/2)
	sx, sy := hw*ndc.X+hw, hh*ndc.Y+hh
	if !finiteWithin(sx) || !finiteWithin(sy) || math.IsNaN(ndc.Z) {
		return ScreenVertex{}, false
	}
	return ScreenVertex{X: int(sx), Y: int(sy), Z: ndc.Z, UV: uv}, true
}

func finiteWithin(v float64) bool {
	return !math.IsNaN(v) && v > -maxScreenCoord && v < maxScreenCoord
}

// RenderFrame clears the buffers and draws src once per instance.
func (r *Renderer) RenderFrame(ctx *RenderContext, src TriangleSource, instances []Instance) FrameStats {
	r.BeginFrame(ctx.Background)
	for _, inst := range instances {
		r.DrawMesh(ctx, src, inst)
	}
	return r.stats
}

// DrawMesh projects every triangle of src through the instance transform
// and the context camera and draws it in the context mode.
func (r *Renderer) DrawMesh(ctx *RenderContext, src TriangleSource, inst Instance) {
	if !ctx.Mode.Valid() {
		Logger().Warn("skipping mesh with unknown render mode", "mode", int(ctx.Mode))
		return
	}
	if ctx.Cull && !r.visible(ctx, src, inst) {
		return
	}

	mvp := ctx.Camera.ViewProjectionMatrix().Mul(inst.Model)
	sh := ctx.shader(inst.Material)

	for i := range src.TriangleCount() {
		pos, uv := src.Triangle(i)
		r.stats.Triangles++

		var tri Triangle
		ok := true
		for k := range 3 {
			tri[k], ok = r.ToScreen(mvp.MulVec3(pos[k]), uv[k])
			if !ok {
				break
			}
		}
		if !ok {
			r.stats.Rejected++
			continue
		}

		if ctx.Mode == ModeWireframe {
			DrawWireframe(r.Frame, tri, ColorWhite)
			continue
		}
		n, drawn := FillTriangle(r.Frame, r.Depth, &r.spans, tri, sh, ctx.Fill)
		if !drawn {
			r.stats.Degenerate++
		}
		r.stats.Pixels += n
	}
}

func (r *Renderer) visible(ctx *RenderContext, src TriangleSource, inst Instance) bool {
	lo, hi := src.GetBounds()
	r.stats.Culling.Tested++
	if !ctx.Camera.Frustum().IntersectAABB(AABB{Min: lo, Max: hi}.Transform(inst.Model)) {
		r.stats.Culling.Culled++
		return false
	}
	r.stats.Culling.Drawn++
	return true
}

// shader builds the per-pixel shader for the context mode. Missing
// textures fall back to white and to a flat normal.
func (ctx *RenderContext) shader(m Material) Shader {
	tex := ctx.Texture
	if tex == nil || len(tex.Pixels) == 0 {
		tex = whiteTexture
	}
	switch ctx.Mode {
	case ModeBarycentric:
		return DebugShader()
	case ModeTextured:
		return TextureShader{Texture: tex, Filter: ctx.Filter}
	case ModePhong:
		normal := ctx.NormalMap
		if normal == nil || len(normal.Pixels) == 0 {
			normal = flatNormal
		}
		return PhongShader{
			Color:    tex,
			Normal:   normal,
			Material: m,
			Light:    ctx.Light,
			Eye:      ctx.Camera.Eye,
		}
	}
	return SolidShader{Color: ColorWhite}
}

var (
	whiteTexture = NewCheckerTexture(1, 1, 1, ColorWhite, ColorWhite)
	flatNormal   = NewFlatNormalTexture()
)
