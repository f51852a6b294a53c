package render

// FarDepth is the depth a cleared buffer holds: farther than anything the
// pipeline produces.
const FarDepth = 100000

// FloatImage is a row-major float buffer with the same addressing as Image.
// It backs the depth test.
type FloatImage struct {
	Width  int
	Height int
	Values []float64
}

// NewFloatImage creates a zero-filled buffer.
func NewFloatImage(width, height int) *FloatImage {
	width, height = max(width, 0), max(height, 0)
	return &FloatImage{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
}

// Clone returns a deep copy.
func (f *FloatImage) Clone() *FloatImage {
	return &FloatImage{
		Width:  f.Width,
		Height: f.Height,
		Values: append([]float64(nil), f.Values...),
	}
}

// Resize changes the dimensions, keeping the overlapping top-left region.
func (f *FloatImage) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width == f.Width && height == f.Height {
		return
	}
	values := make([]float64, width*height)
	w, h := min(width, f.Width), min(height, f.Height)
	for y := range h {
		copy(values[y*width:y*width+w], f.Values[y*f.Width:y*f.Width+w])
	}
	f.Width, f.Height, f.Values = width, height, values
}

// Fill sets every value to v.
func (f *FloatImage) Fill(v float64) {
	n := len(f.Values)
	if n == 0 {
		return
	}
	f.Values[0] = v
	for i := 1; i < n; i *= 2 {
		copy(f.Values[i:], f.Values[:i])
	}
}

// Clear resets every value to FarDepth.
func (f *FloatImage) Clear() {
	f.Fill(FarDepth)
}

// Pixel returns the value at (x, y). The coordinates must be in range.
func (f *FloatImage) Pixel(x, y int) float64 {
	return f.Values[y*f.Width+x]
}

// SetPixel writes the value at (x, y). The coordinates must be in range.
func (f *FloatImage) SetPixel(x, y int, v float64) {
	f.Values[y*f.Width+x] = v
}

// PixelSafe returns the value at (x, y) with clamped coordinates.
func (f *FloatImage) PixelSafe(x, y int) float64 {
	if f.Width == 0 || f.Height == 0 {
		return FarDepth
	}
	return f.Pixel(clampInt(x, 0, f.Width-1), clampInt(y, 0, f.Height-1))
}

// SetPixelSafe writes the value at (x, y) with clamped coordinates.
func (f *FloatImage) SetPixelSafe(x, y int, v float64) {
	if f.Width == 0 || f.Height == 0 {
		return
	}
	f.SetPixel(clampInt(x, 0, f.Width-1), clampInt(y, 0, f.Height-1), v)
}
