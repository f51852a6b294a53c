package render

import (
	"testing"

	"github.com/taigrr/scanline/pkg/math3d"
)

type fillTarget struct {
	img   *Image
	depth *FloatImage
	spans SpanTable
}

func newFillTarget(w, h int) *fillTarget {
	ft := &fillTarget{img: NewImage(w, h), depth: NewFloatImage(w, h)}
	ft.depth.Clear()
	return ft
}

func (ft *fillTarget) fill(tri Triangle, sh Shader, opts FillOptions) (int, bool) {
	return FillTriangle(ft.img, ft.depth, &ft.spans, tri, sh, opts)
}

func flatTriangle(x0, y0, x1, y1, x2, y2 int, z float64) Triangle {
	return Triangle{
		{X: x0, Y: y0, Z: z},
		{X: x1, Y: y1, Z: z},
		{X: x2, Y: y2, Z: z},
	}
}

func countColor(img *Image, c Color) int {
	n := 0
	for _, p := range img.Pixels {
		if p == c {
			n++
		}
	}
	return n
}

func TestFillTriangleRightTriangle(t *testing.T) {
	ft := newFillTarget(20, 20)
	n, ok := ft.fill(flatTriangle(0, 0, 10, 0, 0, 10, 0), SolidShader{Color: ColorRed}, DefaultFillOptions())
	if !ok {
		t.Fatal("triangle reported degenerate")
	}
	if n != 66 {
		t.Errorf("wrote %d pixels, want 66", n)
	}
	for y := range 20 {
		for x := range 20 {
			want := x+y <= 10
			if got := ft.img.Pixel(x, y) == ColorRed; got != want {
				t.Errorf("pixel (%d,%d) covered = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestFillTriangleDegenerate(t *testing.T) {
	tests := []struct {
		name string
		tri  Triangle
	}{
		{"collinear", flatTriangle(0, 0, 5, 5, 10, 10, 0)},
		{"repeated vertex", flatTriangle(3, 3, 3, 3, 8, 1, 0)},
		{"single point", flatTriangle(4, 4, 4, 4, 4, 4, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ft := newFillTarget(16, 16)
			n, ok := ft.fill(tc.tri, SolidShader{Color: ColorRed}, DefaultFillOptions())
			if ok || n != 0 {
				t.Errorf("got (%d, %v), want (0, false)", n, ok)
			}
			if countColor(ft.img, ColorRed) != 0 {
				t.Error("degenerate triangle wrote pixels")
			}
		})
	}
}

func TestFillTriangleVertexOrder(t *testing.T) {
	verts := [3]ScreenVertex{{X: 1, Y: 1}, {X: 14, Y: 3}, {X: 6, Y: 14}}
	orders := [][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}

	ref := newFillTarget(16, 16)
	want, _ := ref.fill(Triangle(verts), SolidShader{Color: ColorWhite}, DefaultFillOptions())

	for _, o := range orders {
		ft := newFillTarget(16, 16)
		tri := Triangle{verts[o[0]], verts[o[1]], verts[o[2]]}
		n, _ := ft.fill(tri, SolidShader{Color: ColorWhite}, DefaultFillOptions())
		if n != want {
			t.Errorf("order %v wrote %d pixels, want %d", o, n, want)
		}
		for i := range ref.img.Pixels {
			if ft.img.Pixels[i] != ref.img.Pixels[i] {
				t.Errorf("order %v differs at pixel %d", o, i)
				break
			}
		}
	}
}

func TestFillTriangleDepthOrder(t *testing.T) {
	near := flatTriangle(0, 0, 15, 0, 0, 15, 0.2)
	far := flatTriangle(2, 2, 15, 2, 2, 15, 0.8)

	draw := func(first, second Triangle, c1, c2 Color) *fillTarget {
		ft := newFillTarget(16, 16)
		ft.fill(first, SolidShader{Color: c1}, DefaultFillOptions())
		ft.fill(second, SolidShader{Color: c2}, DefaultFillOptions())
		return ft
	}
	a := draw(near, far, ColorRed, ColorBlue)
	b := draw(far, near, ColorBlue, ColorRed)

	for i := range a.img.Pixels {
		if a.img.Pixels[i] != b.img.Pixels[i] {
			t.Fatalf("pixel %d differs by draw order: %v vs %v", i, a.img.Pixels[i], b.img.Pixels[i])
		}
	}
	if got := a.img.Pixel(4, 4); got != ColorRed {
		t.Errorf("overlap pixel = %v, want the nearer red", got)
	}
	if got := a.depth.Pixel(4, 4); got < 0.199 || got > 0.201 {
		t.Errorf("overlap depth = %v, want 0.2", got)
	}
}

func TestFillTriangleEqualDepthKeepsFirst(t *testing.T) {
	ft := newFillTarget(20, 20)
	tri := flatTriangle(0, 0, 10, 0, 0, 10, 0.5)
	ft.fill(tri, SolidShader{Color: ColorRed}, DefaultFillOptions())
	n, _ := ft.fill(tri, SolidShader{Color: ColorBlue}, DefaultFillOptions())
	if n != 0 {
		t.Errorf("second pass wrote %d pixels, want 0", n)
	}
	if countColor(ft.img, ColorBlue) != 0 {
		t.Error("equal depth overwrote pixels")
	}
}

func TestFillTriangleInterpolatesDepth(t *testing.T) {
	ft := newFillTarget(20, 20)
	tri := Triangle{{X: 0, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 1}, {X: 0, Y: 10, Z: 0}}
	ft.fill(tri, SolidShader{Color: ColorWhite}, DefaultFillOptions())

	if got := ft.depth.Pixel(5, 0); got < 0.49 || got > 0.51 {
		t.Errorf("depth at (5,0) = %v, want 0.5", got)
	}
	if got := ft.depth.Pixel(15, 15); got != FarDepth {
		t.Errorf("depth outside triangle = %v, want FarDepth", got)
	}
}

func TestFillTriangleOffscreen(t *testing.T) {
	ft := newFillTarget(20, 20)
	n, ok := ft.fill(flatTriangle(-5, -5, 30, 0, 0, 30, 0), SolidShader{Color: ColorRed}, DefaultFillOptions())
	if !ok || n == 0 {
		t.Fatalf("got (%d, %v), want pixels written", n, ok)
	}
	if n != countColor(ft.img, ColorRed) {
		t.Errorf("reported %d pixels, image has %d", n, countColor(ft.img, ColorRed))
	}

	ft = newFillTarget(20, 20)
	if n, _ := ft.fill(flatTriangle(-30, -30, -20, -30, -30, -20, 0), SolidShader{Color: ColorRed}, DefaultFillOptions()); n != 0 {
		t.Errorf("triangle left of the image wrote %d pixels", n)
	}
}

func TestFillTriangleParallelMatchesSerial(t *testing.T) {
	tri := Triangle{
		{X: 3, Y: 2, Z: 0.1, UV: math3d.V2(0, 0)},
		{X: 60, Y: 10, Z: 0.5, UV: math3d.V2(1, 0)},
		{X: 20, Y: 45, Z: 0.9, UV: math3d.V2(0, 1)},
	}

	serial := newFillTarget(64, 48)
	ns, _ := serial.fill(tri, DebugShader(), DefaultFillOptions())

	for _, workers := range []int{2, 3, 8, 100} {
		par := newFillTarget(64, 48)
		np, _ := par.fill(tri, DebugShader(), FillOptions{Tolerance: DefaultTolerance, Workers: workers})
		if np != ns {
			t.Errorf("workers=%d wrote %d pixels, serial wrote %d", workers, np, ns)
		}
		for i := range serial.img.Pixels {
			if par.img.Pixels[i] != serial.img.Pixels[i] || par.depth.Values[i] != serial.depth.Values[i] {
				t.Errorf("workers=%d differs at pixel %d", workers, i)
				break
			}
		}
	}
}

func TestFillTriangleTolerance(t *testing.T) {
	tight := newFillTarget(20, 20)
	nTight, _ := tight.fill(flatTriangle(0, 0, 10, 0, 0, 10, 0), SolidShader{Color: ColorRed}, FillOptions{})

	loose := newFillTarget(20, 20)
	nLoose, _ := loose.fill(flatTriangle(0, 0, 10, 0, 0, 10, 0), SolidShader{Color: ColorRed}, DefaultFillOptions())

	if nTight > nLoose {
		t.Errorf("zero tolerance wrote %d pixels, more than the default's %d", nTight, nLoose)
	}
}

func TestDrawWireframe(t *testing.T) {
	img := NewImage(12, 12)
	DrawWireframe(img, flatTriangle(1, 1, 10, 1, 1, 10, 0), ColorWhite)
	if img.Pixel(1, 1) != ColorWhite || img.Pixel(5, 1) != ColorWhite {
		t.Error("edge pixels not drawn")
	}
	if img.Pixel(3, 3) == ColorWhite {
		t.Error("wireframe filled the interior")
	}
}

func BenchmarkFillTriangle(b *testing.B) {
	ft := newFillTarget(320, 240)
	tri := Triangle{
		{X: 10, Y: 10, Z: 0.5, UV: math3d.V2(0, 0)},
		{X: 300, Y: 40, Z: 0.5, UV: math3d.V2(1, 0)},
		{X: 120, Y: 230, Z: 0.5, UV: math3d.V2(0, 1)},
	}
	sh := DebugShader()

	for b.Loop() {
		ft.depth.Clear()
		ft.fill(tri, sh, DefaultFillOptions())
	}
}
