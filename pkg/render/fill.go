package render

import (
	"sync"

	"github.com/taigrr/scanline/pkg/math3d"
)

// DefaultTolerance widens the barycentric inside test so neighbouring
// triangles leave no gaps along shared edges.
const DefaultTolerance = 0.05

// ScreenVertex is a projected vertex: integer pixel position, depth and
// texture coordinate.
type ScreenVertex struct {
	X, Y int
	Z    float64
	UV   math3d.Vec2
}

// Triangle is three screen-space vertices.
type Triangle [3]ScreenVertex

// FillOptions tunes the triangle fill.
type FillOptions struct {
	// Tolerance is how far outside [0, 1] a barycentric weight may fall
	// for the pixel to count as covered.
	Tolerance float64

	// Workers splits the covered rows into that many contiguous bands
	// filled concurrently. Values below 2 fill on the calling goroutine.
	Workers int
}

// DefaultFillOptions returns single-threaded fill with DefaultTolerance.
func DefaultFillOptions() FillOptions {
	return FillOptions{Tolerance: DefaultTolerance, Workers: 1}
}

// barycentricSetup holds the per-triangle terms of the weight solve.
type barycentricSetup struct {
	x0, y0   float64
	v0, v1   math3d.Vec2
	d00, d01 float64
	d11      float64
	invDenom float64
}

func newBarycentricSetup(tri *Triangle) (barycentricSetup, bool) {
	p0 := math3d.V2(float64(tri[0].X), float64(tri[0].Y))
	s := barycentricSetup{
		x0: p0.X,
		y0: p0.Y,
		v0: math3d.V2(float64(tri[1].X), float64(tri[1].Y)).Sub(p0),
		v1: math3d.V2(float64(tri[2].X), float64(tri[2].Y)).Sub(p0),
	}
	s.d00 = s.v0.Dot(s.v0)
	s.d01 = s.v0.Dot(s.v1)
	s.d11 = s.v1.Dot(s.v1)
	denom := s.d00*s.d11 - s.d01*s.d01
	if denom == 0 {
		return s, false
	}
	s.invDenom = 1 / denom
	return s, true
}

// weights returns (u, v, w) for pixel (x, y).
func (s *barycentricSetup) weights(x, y int) (u, v, w float64) {
	v2 := math3d.V2(float64(x)-s.x0, float64(y)-s.y0)
	d20 := v2.Dot(s.v0)
	d21 := v2.Dot(s.v1)
	v = (s.d11*d20 - s.d01*d21) * s.invDenom
	w = (s.d00*d21 - s.d01*d20) * s.invDenom
	return 1 - v - w, v, w
}

// FillTriangle scan converts tri into dst. Each pixel inside the span
// table whose weights fall within the tolerance band and whose affine
// depth is strictly less than the stored depth gets its depth written and
// is colored by sh. Degenerate triangles write nothing. It returns the
// number of pixels written and whether the triangle was drawable.
func FillTriangle(dst *Image, depth *FloatImage, spans *SpanTable, tri Triangle, sh Shader, opts FillOptions) (int, bool) {
	setup, ok := newBarycentricSetup(&tri)
	if !ok {
		return 0, false
	}

	spans.Reset(dst.Height)
	spans.TraceEdge(tri[0].X, tri[0].Y, tri[1].X, tri[1].Y, dst.Width)
	spans.TraceEdge(tri[1].X, tri[1].Y, tri[2].X, tri[2].Y, dst.Width)
	spans.TraceEdge(tri[2].X, tri[2].Y, tri[0].X, tri[0].Y, dst.Width)

	first, last, covered := spans.Bounds()
	if !covered {
		return 0, true
	}

	job := fillJob{dst: dst, depth: depth, spans: spans, tri: &tri, setup: &setup, shader: sh, tol: opts.Tolerance}

	rows := last - first + 1
	workers := min(opts.Workers, rows)
	if workers < 2 {
		return job.fillRows(first, last+1), true
	}

	counts := make([]int, workers)
	var wg sync.WaitGroup
	band := (rows + workers - 1) / workers
	for i := range workers {
		lo := first + i*band
		hi := min(lo+band, last+1)
		if lo >= hi {
			break
		}
		wg.Go(func() {
			counts[i] = job.fillRows(lo, hi)
		})
	}
	wg.Wait()

	total := 0
	for _, n := range counts {
		total += n
	}
	return total, true
}

// fillJob is one triangle's state shared read-only by the row workers.
// Each worker owns a disjoint row range of dst and depth.
type fillJob struct {
	dst    *Image
	depth  *FloatImage
	spans  *SpanTable
	tri    *Triangle
	setup  *barycentricSetup
	shader Shader
	tol    float64
}

func (j *fillJob) fillRows(lo, hi int) int {
	lower, upper := -j.tol, 1+j.tol
	inside := func(x float64) bool { return x >= lower && x <= upper }
	t := j.tri
	written := 0

	for y := lo; y < hi; y++ {
		s := j.spans.Rows[y]
		if s.Empty() {
			continue
		}
		xmin, xmax := max(s.MinX, 0), min(s.MaxX, j.dst.Width-1)
		for x := xmin; x <= xmax; x++ {
			u, v, w := j.setup.weights(x, y)
			if !inside(u) || !inside(v) || !inside(w) {
				continue
			}
			z := t[0].Z*u + t[1].Z*v + t[2].Z*w
			if z >= j.depth.Pixel(x, y) {
				continue
			}
			j.depth.SetPixel(x, y, z)
			j.dst.SetPixel(x, y, j.shader.Shade(Fragment{
				X: x, Y: y, Z: z,
				U: u, V: v, W: w,
				UV: math3d.Weighted(t[0].UV, t[1].UV, t[2].UV, u, v, w),
			}))
			written++
		}
	}
	return written
}

// DrawWireframe draws the three edges of tri without touching depth.
func DrawWireframe(dst *Image, tri Triangle, c Color) {
	dst.DrawTriangle(tri[0].X, tri[0].Y, tri[1].X, tri[1].Y, tri[2].X, tri[2].Y, c, false)
}
