package render

import (
	"math"
	"testing"

	"github.com/taigrr/scanline/pkg/math3d"
)

// mockMesh is a TriangleSource over literal vertex triples.
type mockMesh struct {
	pos [][3]math3d.Vec3
	uv  [][3]math3d.Vec2
}

func (m *mockMesh) TriangleCount() int { return len(m.pos) }

func (m *mockMesh) Triangle(i int) ([3]math3d.Vec3, [3]math3d.Vec2) {
	return m.pos[i], m.uv[i]
}

func (m *mockMesh) GetBounds() (math3d.Vec3, math3d.Vec3) {
	if len(m.pos) == 0 {
		return math3d.Vec3{}, math3d.Vec3{}
	}
	lo, hi := m.pos[0][0], m.pos[0][0]
	for _, tri := range m.pos {
		for _, p := range tri {
			lo, hi = lo.Min(p), hi.Max(p)
		}
	}
	return lo, hi
}

func (m *mockMesh) add(a, b, c math3d.Vec3, ua, ub, uc math3d.Vec2) {
	m.pos = append(m.pos, [3]math3d.Vec3{a, b, c})
	m.uv = append(m.uv, [3]math3d.Vec2{ua, ub, uc})
}

// createQuadMesh returns a 10x10 quad facing the default camera, centered
// on its look-at target.
func createQuadMesh() *mockMesh {
	m := &mockMesh{}
	a, b := math3d.V3(-5, 5, 0), math3d.V3(5, 5, 0)
	c, d := math3d.V3(5, 15, 0), math3d.V3(-5, 15, 0)
	m.add(a, b, c, math3d.V2(0, 0), math3d.V2(1, 0), math3d.V2(1, 1))
	m.add(a, c, d, math3d.V2(0, 0), math3d.V2(1, 1), math3d.V2(0, 1))
	return m
}

func createTestRenderer(mode Mode) (*Renderer, *RenderContext) {
	r := NewRenderer(64, 64)
	ctx := NewRenderContext(NewCamera(1))
	ctx.Mode = mode
	ctx.Texture = NewCheckerTexture(8, 8, 2, ColorWhite, ColorGray)
	return r, ctx
}

func TestRendererToScreen(t *testing.T) {
	r := NewRenderer(65, 48)

	tests := []struct {
		name   string
		ndc    math3d.Vec3
		x, y   int
		wantOK bool
	}{
		{"center", math3d.V3(0, 0, 0.5), 32, 24, true},
		{"bottom left", math3d.V3(-1, -1, 0), 0, 0, true},
		{"top right uses integer half width", math3d.V3(1, 1, 0), 64, 48, true},
		{"truncates toward zero", math3d.V3(0.01, 0.01, 0), 32, 24, true},
		{"far off screen", math3d.V3(1e6, 0, 0), 0, 0, false},
		{"nan", math3d.V3(0, 0, math.NaN()), 0, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, ok := r.ToScreen(tc.ndc, math3d.V2(0.25, 0.75))
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if v.X != tc.x || v.Y != tc.y {
				t.Errorf("got (%d,%d), want (%d,%d)", v.X, v.Y, tc.x, tc.y)
			}
			if v.Z != tc.ndc.Z || v.UV != math3d.V2(0.25, 0.75) {
				t.Errorf("depth or uv not carried: %+v", v)
			}
		})
	}
}

func TestRenderFrameModes(t *testing.T) {
	mesh := createQuadMesh()

	for _, mode := range []Mode{ModeWireframe, ModeBarycentric, ModeTextured, ModePhong} {
		t.Run(mode.String(), func(t *testing.T) {
			r, ctx := createTestRenderer(mode)
			stats := r.RenderFrame(ctx, mesh, []Instance{NewInstance(DefaultMaterial())})

			if stats.Triangles != 2 {
				t.Errorf("Triangles = %d, want 2", stats.Triangles)
			}
			if n := countColor(r.Frame, ctx.Background); n == len(r.Frame.Pixels) {
				t.Fatal("nothing drawn")
			}

			center := r.Frame.Pixel(32, 32)
			touched := depthWrites(r.Depth)
			if mode == ModeWireframe {
				if touched != 0 {
					t.Errorf("wireframe wrote %d depth values", touched)
				}
				if countColor(r.Frame, ColorWhite) == 0 {
					t.Error("no white edges")
				}
				return
			}
			if touched == 0 || stats.Pixels < touched {
				t.Errorf("Pixels = %d, depth writes = %d", stats.Pixels, touched)
			}
			if center == ctx.Background {
				t.Error("center pixel not covered")
			}
		})
	}
}

func depthWrites(d *FloatImage) int {
	n := 0
	for _, v := range d.Values {
		if v != FarDepth {
			n++
		}
	}
	return n
}

func TestRenderFrameIncludesLastTriangle(t *testing.T) {
	m := &mockMesh{}
	m.add(math3d.V3(-5, 5, 0), math3d.V3(5, 5, 0), math3d.V3(0, 15, 0), math3d.Vec2{}, math3d.Vec2{}, math3d.Vec2{})

	r, ctx := createTestRenderer(ModeBarycentric)
	stats := r.RenderFrame(ctx, m, []Instance{NewInstance(DefaultMaterial())})
	if stats.Triangles != 1 || stats.Pixels == 0 {
		t.Errorf("single triangle: %+v", stats)
	}
}

func TestRenderFrameCountsDegenerate(t *testing.T) {
	m := createQuadMesh()
	p := math3d.V3(1, 10, 0)
	m.add(p, p, p, math3d.Vec2{}, math3d.Vec2{}, math3d.Vec2{})

	r, ctx := createTestRenderer(ModeTextured)
	stats := r.RenderFrame(ctx, m, []Instance{NewInstance(DefaultMaterial())})
	if stats.Triangles != 3 || stats.Degenerate != 1 {
		t.Errorf("stats = %+v, want 3 triangles, 1 degenerate", stats)
	}
}

func TestRenderFrameInvalidMode(t *testing.T) {
	r, ctx := createTestRenderer(Mode(7))
	stats := r.RenderFrame(ctx, createQuadMesh(), []Instance{NewInstance(DefaultMaterial())})
	if stats.Triangles != 0 || stats.Pixels != 0 {
		t.Errorf("invalid mode drew: %+v", stats)
	}
	if n := countColor(r.Frame, ctx.Background); n != len(r.Frame.Pixels) {
		t.Error("invalid mode touched the frame")
	}
}

func TestRenderFrameCulling(t *testing.T) {
	behind := NewInstance(DefaultMaterial())
	behind.Model = math3d.Translate(math3d.V3(0, 0, 100))
	visible := NewInstance(DefaultMaterial())

	t.Run("cull on", func(t *testing.T) {
		r, ctx := createTestRenderer(ModeTextured)
		stats := r.RenderFrame(ctx, createQuadMesh(), []Instance{behind, visible})
		want := CullingStats{Tested: 2, Culled: 1, Drawn: 1}
		if stats.Culling != want {
			t.Errorf("Culling = %+v, want %+v", stats.Culling, want)
		}
		if stats.Triangles != 2 {
			t.Errorf("Triangles = %d, want 2", stats.Triangles)
		}
	})

	t.Run("cull off", func(t *testing.T) {
		r, ctx := createTestRenderer(ModeTextured)
		ctx.Cull = false
		stats := r.RenderFrame(ctx, createQuadMesh(), []Instance{behind, visible})
		if stats.Culling.Tested != 0 || stats.Triangles != 4 {
			t.Errorf("stats = %+v, want 4 triangles and no culling tests", stats)
		}
	})
}

func TestRenderFrameDepthAcrossInstances(t *testing.T) {
	front := NewInstance(DefaultMaterial())
	front.Model = math3d.Translate(math3d.V3(0, 0, 5))
	back := NewInstance(DefaultMaterial())

	r1, ctx1 := createTestRenderer(ModeBarycentric)
	r1.RenderFrame(ctx1, createQuadMesh(), []Instance{front, back})
	r2, ctx2 := createTestRenderer(ModeBarycentric)
	r2.RenderFrame(ctx2, createQuadMesh(), []Instance{back, front})

	for i := range r1.Frame.Pixels {
		if r1.Frame.Pixels[i] != r2.Frame.Pixels[i] {
			t.Fatalf("pixel %d depends on instance order", i)
		}
	}
}

func TestRenderFrameParallelFill(t *testing.T) {
	serial, sctx := createTestRenderer(ModeTextured)
	serial.RenderFrame(sctx, createQuadMesh(), []Instance{NewInstance(DefaultMaterial())})

	par, pctx := createTestRenderer(ModeTextured)
	pctx.Fill.Workers = 4
	par.RenderFrame(pctx, createQuadMesh(), []Instance{NewInstance(DefaultMaterial())})

	for i := range serial.Frame.Pixels {
		if serial.Frame.Pixels[i] != par.Frame.Pixels[i] {
			t.Fatalf("pixel %d differs with parallel fill", i)
		}
	}
}

func TestRendererResize(t *testing.T) {
	r := NewRenderer(8, 8)
	r.Resize(16, 4)
	if r.Frame.Width != 16 || r.Depth.Height != 4 {
		t.Errorf("frame %dx%d depth %dx%d", r.Frame.Width, r.Frame.Height, r.Depth.Width, r.Depth.Height)
	}
}

func TestOverlay(t *testing.T) {
	r, ctx := createTestRenderer(ModeTextured)
	r.BeginFrame(ctx.Background)
	o := NewOverlay(ctx.Camera, r)

	o.DrawAxes(5)
	o.DrawGrid(20, 5, ColorGray)
	o.DrawPoint(ctx.Camera.Center, 2, ColorYellow)

	if countColor(r.Frame, ColorYellow) == 0 {
		t.Error("point marker not drawn")
	}
	if depthWrites(r.Depth) != 0 {
		t.Error("overlay wrote depth")
	}

	r.BeginFrame(ctx.Background)
	eye := ctx.Camera.Eye
	o.DrawLine3D(eye.Add(math3d.V3(0, 0, 5)), eye.Add(math3d.V3(1, 0, 5)), ColorRed)
	if countColor(r.Frame, ColorRed) != 0 {
		t.Error("segment behind the eye was drawn")
	}
}

func BenchmarkRenderFrame(b *testing.B) {
	r, ctx := createTestRenderer(ModePhong)
	r.Resize(320, 240)
	ctx.Camera.SetAspect(320.0 / 240.0)
	mesh := createQuadMesh()
	instances := []Instance{NewInstance(DefaultMaterial())}

	for b.Loop() {
		r.RenderFrame(ctx, mesh, instances)
	}
}
