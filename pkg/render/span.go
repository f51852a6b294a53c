package render

// Span sentinels. A reset row has MinX > MaxX.
const (
	spanEmptyMin = 100000
	spanEmptyMax = -100000
)

// Span is the horizontal pixel coverage of one row.
type Span struct {
	MinX, MaxX int
}

// Empty reports whether no edge touched the row.
func (s Span) Empty() bool {
	return s.MaxX < s.MinX
}

// SpanTable records, for each row of a target image, the horizontal extent
// of the triangle traced into it. It is rebuilt for every triangle.
type SpanTable struct {
	Rows []Span
}

// Reset sizes the table to height rows and marks each row empty. Storage is
// reused between triangles.
func (t *SpanTable) Reset(height int) {
	if cap(t.Rows) < height {
		t.Rows = make([]Span, height)
	}
	t.Rows = t.Rows[:height]
	for i := range t.Rows {
		t.Rows[i] = Span{MinX: spanEmptyMin, MaxX: spanEmptyMax}
	}
}

// TraceEdge widens every row the edge crosses to include the edge's x on
// that row. Rows outside the table are ignored. Points left of the image
// pull MinX to 0 and points right of it pull MaxX to width-1, so a row
// touched only off one side stays empty.
func (t *SpanTable) TraceEdge(x0, y0, x1, y1, width int) {
	traceLine(x0, y0, x1, y1, func(x, y int) {
		if y < 0 || y >= len(t.Rows) {
			return
		}
		s := &t.Rows[y]
		switch {
		case x < 0:
			s.MinX = min(s.MinX, 0)
			s.MaxX = max(s.MaxX, x)
		case x >= width:
			s.MinX = min(s.MinX, x)
			s.MaxX = max(s.MaxX, width-1)
		default:
			s.MinX = min(s.MinX, x)
			s.MaxX = max(s.MaxX, x)
		}
	})
}

// Bounds returns the first and last non-empty rows. ok is false when the
// table has no coverage.
func (t *SpanTable) Bounds() (first, last int, ok bool) {
	first, last = -1, -1
	for y, s := range t.Rows {
		if s.Empty() {
			continue
		}
		if first < 0 {
			first = y
		}
		last = y
	}
	return first, last, first >= 0
}
