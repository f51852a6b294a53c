package render

// traceLine walks the integer points from (x0, y0) to (x1, y1) with the
// midpoint Bresenham stepping shared by line drawing and span tracing.
// Endpoints are swapped so x never decreases. When |dy| >= dx the y axis
// drives, which also covers vertical and zero-length edges.
func traceLine(x0, y0, x1, y1 int, visit func(x, y int)) {
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}
	x, y := x0, y0
	dx, dy := x1-x0, y1-y0
	yStep := 1
	if dy < 0 {
		yStep = -1
		dy = -dy
	}

	visit(x, y)

	if dx > dy {
		incE, incNE := 2*dy, 2*(dy-dx)
		d := 2*dy - dx
		for x < x1 {
			if d <= 0 {
				d += incE
			} else {
				d += incNE
				y += yStep
			}
			x++
			visit(x, y)
		}
		return
	}

	incE, incNE := 2*dx, 2*(dx-dy)
	d := 2*dx - dy
	for y != y1 {
		if d <= 0 {
			d += incE
		} else {
			d += incNE
			x++
		}
		y += yStep
		visit(x, y)
	}
}

// DrawLine draws a line between two points. Pixels outside the image are
// dropped.
func (img *Image) DrawLine(x0, y0, x1, y1 int, c Color) {
	traceLine(x0, y0, x1, y1, func(x, y int) {
		img.Plot(x, y, c)
	})
}

// DrawTriangle draws the outline of a triangle, or a solid fill without
// depth testing when fill is set.
func (img *Image) DrawTriangle(x0, y0, x1, y1, x2, y2 int, c Color, fill bool) {
	if !fill {
		img.DrawLine(x0, y0, x1, y1, c)
		img.DrawLine(x1, y1, x2, y2, c)
		img.DrawLine(x2, y2, x0, y0, c)
		return
	}

	var spans SpanTable
	spans.Reset(img.Height)
	spans.TraceEdge(x0, y0, x1, y1, img.Width)
	spans.TraceEdge(x1, y1, x2, y2, img.Width)
	spans.TraceEdge(x2, y2, x0, y0, img.Width)
	for y, s := range spans.Rows {
		if s.Empty() {
			continue
		}
		for x := max(s.MinX, 0); x <= min(s.MaxX, img.Width-1); x++ {
			img.SetPixel(x, y, c)
		}
	}
}
